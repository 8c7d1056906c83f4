package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/parshjain/stockdesk/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError renders the standard error envelope. Internal detail from
// wrapped errors is echoed only outside production.
func writeError(w http.ResponseWriter, environment string, err error) {
	status, code := apperrors.Classify(err)

	body := map[string]interface{}{
		"error":     code,
		"message":   err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if environment != "production" {
		if inner := errors.Unwrap(err); inner != nil {
			body["details"] = inner.Error()
		}
	}

	writeJSON(w, status, body)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
