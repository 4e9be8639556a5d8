package forecast

import (
	"context"
	"fmt"
	"sort"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultMinimumStock    = 10
	DefaultReorderQuantity = 50
)

// Defaults holds the fallbacks applied when inventory rows omit thresholds.
type Defaults struct {
	MinimumStock    int
	ReorderQuantity int
}

// Catalog is a read-only snapshot of product details keyed by product ID.
type Catalog map[string]domain.ProductDetails

// Lookup returns a copy of the details for id, or nil.
func (c Catalog) Lookup(id string) *domain.ProductDetails {
	d, ok := c[id]
	if !ok {
		return nil
	}
	return &d
}

// Input is everything the engine needs for one computation.
// Forecasts must already be filtered to the requested window.
type Input struct {
	StoreID   string
	Inventory []domain.InventoryRecord
	Forecasts []domain.ForecastRecord
	Catalog   Catalog
}

// productStock is the inventory index entry for one product.
type productStock struct {
	name            string
	currentStock    int
	minimumStock    int
	reorderQuantity int
}

// Engine merges inventory, matched forecasts and catalog data into order recommendations.
type Engine struct {
	defaults Defaults
	tracer   Tracer
}

func NewEngine(defaults Defaults, tracer Tracer) *Engine {
	if defaults.MinimumStock <= 0 {
		defaults.MinimumStock = DefaultMinimumStock
	}
	if defaults.ReorderQuantity <= 0 {
		defaults.ReorderQuantity = DefaultReorderQuantity
	}
	if tracer == nil {
		tracer = NopTracer{}
	}
	return &Engine{defaults: defaults, tracer: tracer}
}

// Recommend computes the recommendation list sorted by recommended order, largest first.
// Products whose recommended order is zero are omitted.
func (e *Engine) Recommend(ctx context.Context, in Input) []domain.OrderRecommendation {
	order := make([]string, 0, len(in.Inventory))
	seen := make(map[string]struct{}, len(in.Inventory))

	stock := make(map[string]productStock, len(in.Inventory))
	for _, item := range in.Inventory {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			order = append(order, item.ProductID)
		}
		stock[item.ProductID] = e.stockFor(item.ProductID, &item, in.Catalog.Lookup(item.ProductID))
	}

	totals := make(map[string]int)
	for _, f := range in.Forecasts {
		if _, ok := seen[f.ProductID]; !ok {
			seen[f.ProductID] = struct{}{}
			order = append(order, f.ProductID)
		}
		totals[f.ProductID] += f.Units
	}

	recommendations := make([]domain.OrderRecommendation, 0, len(order))
	for _, id := range order {
		details := in.Catalog.Lookup(id)
		ps, ok := stock[id]
		if !ok {
			ps = e.stockFor(id, nil, details)
		}

		expected := totals[id]
		recommended := expected - ps.currentStock
		if recommended <= 0 {
			continue
		}

		rec := domain.OrderRecommendation{
			ProductID:        id,
			ProductName:      ps.name,
			CurrentStock:     ps.currentStock,
			ExpectedSales:    expected,
			RecommendedOrder: recommended,
			MinimumStock:     ps.minimumStock,
			ReorderQuantity:  ps.reorderQuantity,
			ProductDetails:   details,
		}
		if details != nil && details.BasePrice.Valid {
			rec.EstimatedCost = decimal.NewNullDecimal(details.BasePrice.Decimal.Mul(decimal.NewFromInt(int64(recommended))))
		}
		recommendations = append(recommendations, rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].RecommendedOrder > recommendations[j].RecommendedOrder
	})

	e.tracer.Trace(ctx, StageEvent{
		Stage:           StageMerged,
		StoreID:         in.StoreID,
		Products:        len(in.Catalog),
		Candidates:      len(order),
		Recommendations: len(recommendations),
	})

	return recommendations
}

// stockFor applies the default policy. item is nil for products that only appear in forecasts.
func (e *Engine) stockFor(id string, item *domain.InventoryRecord, details *domain.ProductDetails) productStock {
	ps := productStock{
		name:            PlaceholderName(id),
		minimumStock:    e.defaults.MinimumStock,
		reorderQuantity: e.defaults.ReorderQuantity,
	}

	if details != nil && details.Threshold != nil && *details.Threshold > 0 {
		ps.minimumStock = *details.Threshold
	}

	switch {
	case details != nil && details.Name != "":
		ps.name = details.Name
	case item != nil && item.ProductName != "":
		ps.name = item.ProductName
	}

	if item == nil {
		return ps
	}

	if item.CurrentQuantity > 0 {
		ps.currentStock = item.CurrentQuantity
	}
	if item.MinimumStock != nil && *item.MinimumStock > 0 {
		ps.minimumStock = *item.MinimumStock
	}
	if item.ReorderQuantity != nil && *item.ReorderQuantity > 0 {
		ps.reorderQuantity = *item.ReorderQuantity
	}
	return ps
}

// PlaceholderName is the display name used for products without catalog details.
func PlaceholderName(id string) string {
	return fmt.Sprintf("Product %s", id)
}
