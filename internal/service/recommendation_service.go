package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/cache"
	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/forecast"
	"github.com/andresuchdata/storeops/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type RecommendationService struct {
	inventory repository.InventoryRepository
	forecasts repository.ForecastRepository
	catalog   forecast.ProductFetcher
	engine    *forecast.Engine
	tracer    forecast.Tracer
	now       func() time.Time
}

func NewRecommendationService(
	inventory repository.InventoryRepository,
	forecasts repository.ForecastRepository,
	products repository.ProductRepository,
	cacheImpl cache.ProductCatalogCache,
	engine *forecast.Engine,
	tracer forecast.Tracer,
) *RecommendationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopProductCatalogCache()
	}
	if tracer == nil {
		tracer = forecast.NopTracer{}
	}
	if engine == nil {
		engine = forecast.NewEngine(forecast.Defaults{}, tracer)
	}
	return &RecommendationService{
		inventory: inventory,
		forecasts: forecasts,
		catalog:   &catalogFetcher{repo: products, cache: cacheImpl},
		engine:    engine,
		tracer:    tracer,
		now:       time.Now,
	}
}

// Calculate runs a computation inside the session. A newer Calculate on the same
// session cancels this one, which then returns domain.ErrSuperseded.
func (s *RecommendationService) Calculate(ctx context.Context, session *Session, req domain.RecommendationRequest) (*domain.RecommendationReport, error) {
	return session.Run(ctx, func(ctx context.Context, products *forecast.ProductCache) (*domain.RecommendationReport, error) {
		return s.Compute(ctx, req, products)
	})
}

// Compute fetches inventory and forecasts for the store, resolves product details
// through products and returns the sorted recommendations. products may be nil.
func (s *RecommendationService) Compute(ctx context.Context, req domain.RecommendationRequest, products *forecast.ProductCache) (*domain.RecommendationReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if products == nil {
		products = forecast.NewProductCache()
	}

	var (
		inventory []domain.InventoryRecord
		forecasts []domain.ForecastRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.inventory.GetInventoryByStore(gctx, req.StoreID)
		if err != nil {
			return fmt.Errorf("inventory: %w", err)
		}
		inventory = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.forecasts.GetForecastsByStore(gctx, req.StoreID)
		if err != nil {
			return fmt.Errorf("forecasts: %w", err)
		}
		forecasts = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("store_id", req.StoreID).Msg("recommendation: upstream fetch failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	s.tracer.Trace(ctx, forecast.StageEvent{
		Stage:     forecast.StageFetched,
		StoreID:   req.StoreID,
		Inventory: len(inventory),
		Forecasts: len(forecasts),
	})

	matched := forecast.FilterForecasts(forecasts, forecast.WindowFor(req.DateRange))
	s.tracer.Trace(ctx, forecast.StageEvent{
		Stage:     forecast.StageFiltered,
		StoreID:   req.StoreID,
		Forecasts: len(forecasts),
		Matched:   len(matched),
	})

	catalog, err := products.GetOrFetchMissing(ctx, forecast.CandidateIDs(inventory, matched), s.catalog)
	if err != nil {
		log.Warn().Err(err).Str("store_id", req.StoreID).Msg("recommendation: product details unavailable, using placeholder names")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recommendations := s.engine.Recommend(ctx, forecast.Input{
		StoreID:   req.StoreID,
		Inventory: inventory,
		Forecasts: matched,
		Catalog:   catalog,
	})

	return &domain.RecommendationReport{
		StoreID:         req.StoreID,
		DateRange:       req.DateRange,
		SelectedDays:    req.DateRange.Days(),
		Recommendations: recommendations,
		GeneratedAt:     s.now(),
	}, nil
}

// Prefetch warms the session product cache with every product stocked at the store
// and returns how many products the session has resolved. With refresh set the
// session forgets what it resolved before, so edited catalog rows are read again.
func (s *RecommendationService) Prefetch(ctx context.Context, session *Session, storeID string, refresh bool) (int, error) {
	if storeID == "" {
		return 0, domain.ErrStoreRequired
	}

	inventory, err := s.inventory.GetInventoryByStore(ctx, storeID)
	if err != nil {
		return 0, fmt.Errorf("%w: inventory: %w", domain.ErrFetchFailed, err)
	}

	products := session.Products()
	if refresh {
		products.Reset()
	}
	if _, err := products.GetOrFetchMissing(ctx, forecast.CandidateIDs(inventory, nil), s.catalog); err != nil {
		return products.Len(), fmt.Errorf("failed to prefetch product details: %w", err)
	}
	return products.Len(), nil
}

// catalogFetcher reads product details through the shared catalog cache before
// falling back to the product repository.
type catalogFetcher struct {
	repo  repository.ProductRepository
	cache cache.ProductCatalogCache
}

func (f *catalogFetcher) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.ProductDetails, error) {
	found, missing, err := f.cache.GetProducts(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("product catalog: cache get failed")
		found, missing = nil, ids
	}
	if len(missing) == 0 {
		return found, nil
	}

	fetched, err := f.repo.GetProductsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	if err := f.cache.SetProducts(ctx, fetched); err != nil {
		log.Warn().Err(err).Msg("product catalog: cache set failed")
	}

	return append(found, fetched...), nil
}
