package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/repository"
)

type StoreService struct {
	inventory repository.InventoryRepository
	forecasts repository.ForecastRepository
}

func NewStoreService(inventory repository.InventoryRepository, forecasts repository.ForecastRepository) *StoreService {
	return &StoreService{inventory: inventory, forecasts: forecasts}
}

// GetStores returns the stores that hold inventory, ordered by ID
func (s *StoreService) GetStores(ctx context.Context) ([]*domain.Store, error) {
	return s.inventory.GetStores(ctx)
}

// GetProductForecast returns the date-ordered forecast series for one product at a store
func (s *StoreService) GetProductForecast(ctx context.Context, storeID, productID string) (*domain.ProductForecast, error) {
	if storeID == "" || productID == "" {
		return nil, fmt.Errorf("store and product are required")
	}

	records, err := s.forecasts.GetProductForecast(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	result := &domain.ProductForecast{
		StoreID:   storeID,
		ProductID: productID,
		Forecast:  records,
	}
	if len(records) == 0 {
		result.Forecast = make([]domain.ForecastRecord, 0)
		result.Message = fmt.Sprintf("No data found for store_id=%s and product_id=%s", storeID, productID)
	}
	return result, nil
}
