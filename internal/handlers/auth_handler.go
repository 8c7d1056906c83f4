package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	environment string
}

func NewAuthHandler(authService *services.AuthService, environment string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		environment: environment,
	}
}

func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/login", h.Login).Methods("POST")
}

// Login authenticates the admin user and returns a JWT for the
// protected routes.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, h.environment, apperrors.NewValidationError("invalid request body"))
		return
	}

	token, err := h.authService.Authenticate(creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"error":     "Unauthorized",
				"message":   "invalid credentials",
				"timestamp": timestamp(),
			})
			return
		}
		writeError(w, h.environment, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"timestamp": timestamp(),
	})
}
