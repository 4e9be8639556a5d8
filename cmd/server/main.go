// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/api"
	"github.com/andresuchdata/storeops/backend-go/internal/cache"
	"github.com/andresuchdata/storeops/backend-go/internal/config"
	"github.com/andresuchdata/storeops/backend-go/internal/forecast"
	"github.com/andresuchdata/storeops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/storeops/backend-go/internal/service"
	"github.com/andresuchdata/storeops/backend-go/internal/storage"
	"github.com/andresuchdata/storeops/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.UseJSON()
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	productCache, err := cache.NewProductCatalogCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Product cache unavailable, continuing without Redis")
		productCache = cache.NewNoopProductCatalogCache()
	}

	objectStore, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Object storage unavailable, export upload disabled")
		objectStore = nil
	}

	// Initialize repositories and services
	inventoryRepo := postgres.NewInventoryRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	productRepo := postgres.NewProductRepository(db)

	tracer := forecast.NewLogTracer(logger.Log)
	engine := forecast.NewEngine(forecast.Defaults{
		MinimumStock:    cfg.Forecast.DefaultMinimumStock,
		ReorderQuantity: cfg.Forecast.DefaultReorderQuantity,
	}, tracer)

	services := &api.Services{
		StoreService:          service.NewStoreService(inventoryRepo, forecastRepo),
		RecommendationService: service.NewRecommendationService(inventoryRepo, forecastRepo, productRepo, productCache, engine, tracer),
		ExportService:         service.NewExportService(objectStore, cfg.Storage.ExportPrefix),
		Sessions:              service.NewSessionStore(time.Duration(cfg.Forecast.SessionTTLMinutes) * time.Minute),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	router.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Initialize HTTP server
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

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
