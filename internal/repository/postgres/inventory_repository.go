package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetInventoryByStore(ctx context.Context, storeID string) ([]domain.InventoryRecord, error) {
	query := `SELECT` + inventoryColumns + `
		FROM real_time_inventory i
		WHERE i.store_id::text = $1
	`

	var rows []repository.InventoryRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to get inventory for store %s: %w", storeID, err)
	}

	records := make([]domain.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.Record()
		if rec.ProductID == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *inventoryRepository) GetStores(ctx context.Context) ([]*domain.Store, error) {
	query := `
		SELECT i.store_id::text AS store_id
		FROM real_time_inventory i
		WHERE i.store_id IS NOT NULL
		GROUP BY i.store_id
		ORDER BY i.store_id
	`

	var stores []*domain.Store
	if err := sqlx.SelectContext(ctx, r.db, &stores, query); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	return stores, nil
}
