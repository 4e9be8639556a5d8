package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"runtime"

	"github.com/andresuchdata/storeops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/storeops/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

// repoDB returns the command's connection wrapped for the postgres repositories.
func repoDB(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	return postgres.Wrap(db, "pgx"), nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load forecast data and compute order recommendations offline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "forecasts",
				Usage: "Load sales forecast CSV/XLSX files into sales_forecasts",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringSliceFlag{
						Name:    "path",
						Usage:   "Local forecast file or directory (repeatable)",
						EnvVars: []string{"FORECAST_DATA_PATHS"},
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Where to read forecast files from: local, storage or drive",
						Value: "local",
					},
					&cli.StringFlag{
						Name:    "prefix",
						Usage:   "Object storage prefix to list when --source=storage",
						EnvVars: []string{"STORAGE_FORECAST_PREFIX"},
					},
					&cli.StringFlag{
						Name:  "object",
						Usage: "Single object key (relative to --prefix) to load when --source=storage",
					},
					&cli.StringFlag{
						Name:    "drive-folder-id",
						Usage:   "Google Drive folder ID when --source=drive",
						EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
					},
					&cli.StringFlag{
						Name:    "download-dir",
						Usage:   "Local directory for files pulled from storage or Drive",
						Value:   "./data/tmp/forecasts",
						EnvVars: []string{"FORECAST_DOWNLOAD_DIR"},
					},
					&cli.IntFlag{
						Name:    "pipeline-workers",
						Usage:   "Number of concurrent file workers",
						Value:   runtime.NumCPU(),
						EnvVars: []string{"PIPELINE_WORKERS"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Rows per database write",
						Value: 1000,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runForecastLoad,
			},
			{
				Name:  "recommend",
				Usage: "Compute order recommendations for a store and write them as CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "store", Usage: "Store ID", Required: true},
					&cli.StringFlag{Name: "from", Usage: "Window start date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "to", Usage: "Window end date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "out", Usage: "Output CSV path, - for stdout", Value: "-"},
					&cli.BoolFlag{Name: "upload", Usage: "Also upload the CSV to object storage"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runRecommend,
			},
			{
				Name:   "invalidate-cache",
				Usage:  "Drop cached product details from Redis",
				Action: runInvalidateCache,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}
