package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.ProductDetails, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT` + productColumns + `
		FROM products p
		WHERE p.product_id::text = ANY($1::text[])
	`

	var rows []repository.ProductRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	products := make([]domain.ProductDetails, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.Details())
	}
	return products, nil
}
