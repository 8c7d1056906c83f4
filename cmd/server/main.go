package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/parshjain/stockdesk/internal/api"
	"github.com/parshjain/stockdesk/internal/config"
	"github.com/parshjain/stockdesk/internal/db"
	"github.com/parshjain/stockdesk/internal/logging"
	"github.com/parshjain/stockdesk/internal/websocket"
)

func main() {
	// Load environment variables; a missing .env file is fine in
	// containerized deployments.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.Init(cfg.Server.Environment)
	defer logger.Sync()

	// The database manager connects lazily; the first read request
	// triggers establishment.
	manager := db.NewManager(cfg.Database)
	defer manager.Teardown()

	redisClient, err := db.ConnectRedis(cfg.Redis)
	if err != nil {
		zap.S().Warnw("redis unavailable, listing cache disabled", "error", err)
		redisClient = nil
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	router := api.SetupRouter(manager, redisClient, wsHub, cfg)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: corsMiddleware.Handler(router),
	}

	go func() {
		zap.S().Infow("server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zap.S().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Warnw("shutdown incomplete", "error", err)
	}
}
