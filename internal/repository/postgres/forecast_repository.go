package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) GetForecastsByStore(ctx context.Context, storeID string) ([]domain.ForecastRecord, error) {
	query := `SELECT` + forecastColumns + `
		FROM sales_forecasts f
		WHERE f.store_id::text = $1
	`

	var rows []repository.ForecastRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to get forecasts for store %s: %w", storeID, err)
	}

	return forecastRecords(rows), nil
}

func (r *forecastRepository) GetProductForecast(ctx context.Context, storeID, productID string) ([]domain.ForecastRecord, error) {
	query := `SELECT` + forecastColumns + `
		FROM sales_forecasts f
		WHERE f.store_id::text = $1 AND f.product_id::text = $2
		ORDER BY f.date ASC
	`

	var rows []repository.ForecastRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, storeID, productID); err != nil {
		return nil, fmt.Errorf("failed to get forecast for store %s product %s: %w", storeID, productID, err)
	}

	records := forecastRecords(rows)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

func (r *forecastRepository) SaveForecasts(ctx context.Context, records []domain.ForecastRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO sales_forecasts (store_id, product_id, date, units)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, product_id, date)
		DO UPDATE SET units = EXCLUDED.units
	`

	saved := 0
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if rec.Date.IsZero() {
				continue
			}
			if _, err := stmt.ExecContext(ctx, rec.StoreID, rec.ProductID, rec.Date.Format("2006-01-02"), rec.Units); err != nil {
				return fmt.Errorf("failed to insert forecast %s/%s/%s: %w",
					rec.StoreID, rec.ProductID, rec.Date.Format("2006-01-02"), err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return saved, nil
}

func forecastRecords(rows []repository.ForecastRow) []domain.ForecastRecord {
	records := make([]domain.ForecastRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.Record()
		if rec.ProductID == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}
