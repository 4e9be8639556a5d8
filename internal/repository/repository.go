// backend-go/internal/repository/repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
)

type InventoryRepository interface {
	GetInventoryByStore(ctx context.Context, storeID string) ([]domain.InventoryRecord, error)
	GetStores(ctx context.Context) ([]*domain.Store, error)
}

type ForecastRepository interface {
	// GetForecastsByStore returns every forecast row for the store regardless of date.
	GetForecastsByStore(ctx context.Context, storeID string) ([]domain.ForecastRecord, error)
	GetProductForecast(ctx context.Context, storeID, productID string) ([]domain.ForecastRecord, error)
	SaveForecasts(ctx context.Context, records []domain.ForecastRecord) (int, error)
}

type ProductRepository interface {
	GetProductsByIDs(ctx context.Context, ids []string) ([]domain.ProductDetails, error)
}
