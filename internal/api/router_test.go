package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parshjain/stockdesk/internal/config"
)

func TestHealthHandler(t *testing.T) {
	cfg := &config.Config{
		Server:   config.ServerConfig{Environment: "development"},
		Database: config.DatabaseConfig{URL: "postgres://localhost:5432/stockdesk"},
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	HealthHandler(cfg)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["databaseConfigured"] != true {
		t.Error("expected databaseConfigured true")
	}
	if resp["environment"] != "development" {
		t.Errorf("expected environment development, got %v", resp["environment"])
	}
	if resp["message"] == "" || resp["timestamp"] == "" {
		t.Error("expected message and timestamp to be populated")
	}
}

func TestHealthHandlerWithoutDatabase(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Environment: "production"}}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	HealthHandler(cfg)(rec, req)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["databaseConfigured"] != false {
		t.Error("expected databaseConfigured false")
	}
}
