package main

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/storeops/backend-go/internal/config"
	"github.com/andresuchdata/storeops/backend-go/internal/drive"
	"github.com/andresuchdata/storeops/backend-go/internal/pipeline"
	"github.com/andresuchdata/storeops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/storeops/backend-go/internal/storage"
	"github.com/andresuchdata/storeops/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func runForecastLoad(c *cli.Context) error {
	ctx := c.Context

	paths, err := forecastSourcePaths(c)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no forecast files to load")
	}

	db, err := repoDB(c)
	if err != nil {
		return err
	}

	cfg := pipeline.DefaultPipelineConfig(pipeline.ForecastPipelineName)
	cfg.WorkerCount = c.Int("pipeline-workers")
	cfg.BatchSize = c.Int("batch-size")

	orchestrator := pipeline.NewOrchestrator(postgres.NewForecastRepository(db), cfg)
	run, err := orchestrator.Run(ctx, pipeline.NewForecastPipeline(), paths)
	if run != nil {
		for _, job := range run.Jobs {
			if job.Status == pipeline.FileStatusFailed {
				logger.Log.Error().Str("file", job.FilePath).Str("error", job.ErrorMessage).Msg("forecast file failed")
			}
		}
		logger.Log.Info().
			Int("files", run.TotalFiles).
			Int("processed", run.ProcessedFiles).
			Int("rows", run.TotalRows).
			Int("saved", run.SavedRows).
			Msg("forecast load finished")
	}
	return err
}

func forecastSourcePaths(c *cli.Context) ([]string, error) {
	switch strings.ToLower(c.String("source")) {
	case "", "local":
		paths := c.StringSlice("path")
		if len(paths) == 0 {
			paths = []string{"./data/seeds/forecasts"}
		}
		return paths, nil

	case "storage":
		client, err := storage.New(config.Load().Storage)
		if err != nil {
			return nil, err
		}
		downloader, err := newObjectDownloader(client, c.String("download-dir"))
		if err != nil {
			return nil, err
		}
		return downloader.download(c.Context, c.String("prefix"), c.String("object"))

	case "drive":
		cfg := config.Load().Drive
		if cfg.CredentialsJSON == "" {
			return nil, fmt.Errorf("GOOGLE_DRIVE_CREDENTIALS_JSON is required for --source=drive")
		}
		folderID := c.String("drive-folder-id")
		if folderID == "" {
			return nil, fmt.Errorf("--drive-folder-id is required for --source=drive")
		}
		svc, err := drive.NewService(c.Context, cfg.CredentialsJSON)
		if err != nil {
			return nil, err
		}
		return drive.NewDownloader(svc).DownloadFolder(c.Context, drive.DownloadOptions{
			FolderID:    folderID,
			DownloadDir: c.String("download-dir"),
		})

	default:
		return nil, fmt.Errorf("unknown source %q (want local, storage or drive)", c.String("source"))
	}
}
