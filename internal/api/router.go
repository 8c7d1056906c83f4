package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"github.com/parshjain/stockdesk/internal/config"
	"github.com/parshjain/stockdesk/internal/db"
	"github.com/parshjain/stockdesk/internal/handlers"
	"github.com/parshjain/stockdesk/internal/mail"
	"github.com/parshjain/stockdesk/internal/middleware"
	"github.com/parshjain/stockdesk/internal/pdf"
	"github.com/parshjain/stockdesk/internal/services"
	"github.com/parshjain/stockdesk/internal/websocket"
)

// SetupRouter configures all routes and returns the router
func SetupRouter(
	manager *db.Manager,
	redisClient *redis.Client,
	wsHub *websocket.Hub,
	cfg *config.Config,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", HealthHandler(cfg)).Methods("GET")

	// WebSocket order event stream
	router.HandleFunc("/ws", wsHub.HandleWebSocket)

	// Create services
	securityService := services.NewSecurityService(manager, redisClient, cfg.Database.QueryTimeout)
	ipoService := services.NewIpoService(manager, cfg.Database.QueryTimeout)
	orderService := services.NewOrderService(mail.NewSMTPMailer(cfg.Mail), pdf.NewRenderer(), cfg.Mail)
	authService := services.NewAuthService(cfg.Auth)
	scraperService := services.NewScraperService(cfg.Scraper)

	env := cfg.Server.Environment

	// Public endpoints
	handlers.NewStockHandler(securityService, env).RegisterRoutes(router)
	handlers.NewIpoHandler(ipoService, env).RegisterRoutes(router)
	handlers.NewOrderHandler(orderService, wsHub, env).RegisterRoutes(router)
	handlers.NewAuthHandler(authService, env).RegisterRoutes(router)

	// Admin endpoints behind JWT auth
	adminRouter := router.PathPrefix("").Subrouter()
	adminRouter.Use(middleware.AuthMiddleware(cfg.Auth.SecretKey))
	handlers.NewScraperHandler(scraperService, env).RegisterRoutes(adminRouter)

	return router
}

// HealthHandler responds to health check requests
func HealthHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":            "Stockdesk backend is running",
			"databaseConfigured": cfg.Database.URL != "",
			"environment":        cfg.Server.Environment,
			"timestamp":          time.Now().UTC().Format(time.RFC3339),
		})
	}
}
