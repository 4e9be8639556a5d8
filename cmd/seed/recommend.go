package main

import (
	"fmt"
	"io"
	"os"

	"github.com/andresuchdata/storeops/backend-go/internal/cache"
	"github.com/andresuchdata/storeops/backend-go/internal/config"
	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/forecast"
	"github.com/andresuchdata/storeops/backend-go/internal/repository"
	"github.com/andresuchdata/storeops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/storeops/backend-go/internal/service"
	"github.com/andresuchdata/storeops/backend-go/internal/storage"
	"github.com/andresuchdata/storeops/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func runRecommend(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	from, ok := repository.ParseDate(c.String("from"))
	if !ok {
		return fmt.Errorf("invalid --from date %q", c.String("from"))
	}
	to, ok := repository.ParseDate(c.String("to"))
	if !ok {
		return fmt.Errorf("invalid --to date %q", c.String("to"))
	}

	db, err := repoDB(c)
	if err != nil {
		return err
	}

	tracer := forecast.NewLogTracer(logger.Log)
	engine := forecast.NewEngine(forecast.Defaults{
		MinimumStock:    cfg.Forecast.DefaultMinimumStock,
		ReorderQuantity: cfg.Forecast.DefaultReorderQuantity,
	}, tracer)

	svc := service.NewRecommendationService(
		postgres.NewInventoryRepository(db),
		postgres.NewForecastRepository(db),
		postgres.NewProductRepository(db),
		cache.NewNoopProductCatalogCache(),
		engine,
		tracer,
	)

	report, err := svc.Compute(ctx, domain.RecommendationRequest{
		StoreID:   repository.NormalizeID(c.String("store")),
		DateRange: domain.DateRange{From: from, To: to},
	}, nil)
	if err != nil {
		return err
	}

	var objectStore storage.ObjectStorage
	if c.Bool("upload") {
		if objectStore, err = storage.New(cfg.Storage); err != nil {
			return err
		}
	}
	exporter := service.NewExportService(objectStore, cfg.Storage.ExportPrefix)

	var out io.Writer = os.Stdout
	if path := c.String("out"); path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	if err := exporter.WriteCSV(out, report); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	logger.Log.Info().
		Str("store_id", report.StoreID).
		Int("selected_days", report.SelectedDays).
		Int("recommendations", len(report.Recommendations)).
		Msg("recommendations computed")

	if c.Bool("upload") {
		key, err := exporter.Upload(ctx, report)
		if err != nil {
			return err
		}
		logger.Log.Info().Str("key", key).Msg("recommendations uploaded")
	}
	return nil
}

func runInvalidateCache(c *cli.Context) error {
	cfg := config.Load()
	if !cfg.Cache.Enabled {
		return fmt.Errorf("cache is disabled (set CACHE_ENABLED=true)")
	}

	productCache, err := cache.NewProductCatalogCache(cfg.Cache)
	if err != nil {
		return err
	}
	if err := productCache.InvalidateAll(c.Context); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}

	logger.Log.Info().Msg("product cache invalidated")
	return nil
}
