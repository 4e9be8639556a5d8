package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andresuchdata/storeops/backend-go/internal/config"
	"github.com/andresuchdata/storeops/backend-go/internal/drive"
	"github.com/andresuchdata/storeops/backend-go/internal/pipeline"
	"github.com/andresuchdata/storeops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/storeops/backend-go/pkg/logger"
	"github.com/gorilla/mux"
)

func main() {
	// Load configuration (also reads .env when present)
	cfg := config.Load()
	logger.SetLevel("info")

	if cfg.Drive.CredentialsJSON == "" {
		logger.Log.Fatal().Msg("GOOGLE_DRIVE_CREDENTIALS_JSON is required")
	}

	// Initialize Google Drive service
	driveService, err := drive.NewService(context.Background(), cfg.Drive.CredentialsJSON)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	// Initialize Database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Initialize Services
	forecastRepo := postgres.NewForecastRepository(db)
	worker := pipeline.NewWorker(pipeline.NewForecastPipeline(), pipeline.DefaultPipelineConfig(pipeline.ForecastPipelineName), forecastRepo)
	ingestService := drive.NewIngestService(driveService, worker, "")

	// Register routes
	r := mux.NewRouter()
	driveHandler := drive.NewHandler(driveService, driveService, ingestService, cfg.Drive.FolderID)
	driveHandler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Log.Info().Str("addr", addr).Msg("Drive ingest server starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server stopped")
	}
}
