package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/models"
	"github.com/parshjain/stockdesk/internal/services"
)

type IpoHandler struct {
	ipoService  *services.IpoService
	environment string
}

func NewIpoHandler(ipoService *services.IpoService, environment string) *IpoHandler {
	return &IpoHandler{
		ipoService:  ipoService,
		environment: environment,
	}
}

func (h *IpoHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ipos", h.GetIpos).Methods("GET")
}

// GetIpos returns IPO records newest-first. The optional board query
// parameter narrows the listing to the mainboard or SME board.
func (h *IpoHandler) GetIpos(w http.ResponseWriter, r *http.Request) {
	board := r.URL.Query().Get("board")
	switch board {
	case "", models.BoardMain, models.BoardSME:
	default:
		writeError(w, h.environment, apperrors.NewValidationError(
			"invalid board: must be \"main\" or \"sme\""))
		return
	}

	listings, err := h.ipoService.ListIpos(r.Context(), board)
	if err != nil {
		writeError(w, h.environment, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"count":     len(listings),
		"data":      listings,
		"timestamp": timestamp(),
	})
}
