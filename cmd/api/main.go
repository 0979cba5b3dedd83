// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fashionbi/growth-engine/internal/api"
	"github.com/fashionbi/growth-engine/internal/cache"
	"github.com/fashionbi/growth-engine/internal/config"
	"github.com/fashionbi/growth-engine/internal/repository/postgres"
	"github.com/fashionbi/growth-engine/internal/service"
	"github.com/fashionbi/growth-engine/pkg/logger"
	"github.com/fashionbi/growth-engine/pkg/metrics"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Cache is optional; fall back to noop when Redis is unreachable
	simulationCache, err := cache.NewSimulationCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		simulationCache = cache.NewNoopSimulationCache()
	}

	recorder := metrics.New()

	snapshotRepo := postgres.NewSnapshotRepository(db.DB)
	simulationService := service.NewSimulationService(
		snapshotRepo,
		simulationCache,
		recorder,
		cfg.Engine.RevenueWindowDays,
		cfg.Engine.OrderWindowDays,
	)

	router := api.NewRouter(&api.Services{
		SimulationService: simulationService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
