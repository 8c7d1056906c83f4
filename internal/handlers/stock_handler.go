package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parshjain/stockdesk/internal/services"
)

type StockHandler struct {
	securityService *services.SecurityService
	environment     string
}

func NewStockHandler(securityService *services.SecurityService, environment string) *StockHandler {
	return &StockHandler{
		securityService: securityService,
		environment:     environment,
	}
}

func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/securities", h.GetSecurityNames).Methods("GET")
}

// GetSecurityNames returns all tradeable security names sorted ascending
func (h *StockHandler) GetSecurityNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.securityService.ListSecurityNames(r.Context())
	if err != nil {
		writeError(w, h.environment, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"count":     len(names),
		"data":      names,
		"timestamp": timestamp(),
	})
}
