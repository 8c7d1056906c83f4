package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/services"
)

type ScraperHandler struct {
	scraperService *services.ScraperService
	environment    string
}

func NewScraperHandler(scraperService *services.ScraperService, environment string) *ScraperHandler {
	return &ScraperHandler{
		scraperService: scraperService,
		environment:    environment,
	}
}

func (h *ScraperHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/scraper", h.RunScraper).Methods("POST")
}

// RunScraper triggers one run of the external ingestion script. The run
// is bounded by the configured timeout; a timed-out run returns 408.
func (h *ScraperHandler) RunScraper(w http.ResponseWriter, r *http.Request) {
	result, err := h.scraperService.Run(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrScriptTimeout) {
			writeJSON(w, http.StatusRequestTimeout, map[string]interface{}{
				"error":     "Script timeout",
				"message":   "the scraping operation took too long and was terminated",
				"timestamp": timestamp(),
			})
			return
		}
		writeError(w, h.environment, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   result.ExitCode == 0,
		"result":    result,
		"timestamp": timestamp(),
	})
}
