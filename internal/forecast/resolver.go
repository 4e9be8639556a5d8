package forecast

import (
	"context"
	"sync"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
)

// ProductFetcher loads catalog rows for the given product IDs.
type ProductFetcher interface {
	GetProductsByIDs(ctx context.Context, ids []string) ([]domain.ProductDetails, error)
}

// ProductCache accumulates product details across computations in one session.
// IDs the fetcher did not return are remembered so a complete cache never refetches.
type ProductCache struct {
	mu      sync.RWMutex
	entries map[string]domain.ProductDetails
	missing map[string]struct{}
}

func NewProductCache() *ProductCache {
	return &ProductCache{
		entries: make(map[string]domain.ProductDetails),
		missing: make(map[string]struct{}),
	}
}

// Missing returns the IDs from ids the cache has not resolved yet, deduplicated, in input order.
func (c *ProductCache) Missing(ids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.entries[id]; ok {
			continue
		}
		if _, ok := c.missing[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// GetOrFetchMissing fetches details only for unresolved ids, merges them in and
// returns a snapshot covering every cached entry. On fetch failure the snapshot of
// what is already cached is returned together with the error.
func (c *ProductCache) GetOrFetchMissing(ctx context.Context, ids []string, fetcher ProductFetcher) (Catalog, error) {
	missing := c.Missing(ids)
	if len(missing) == 0 || fetcher == nil {
		return c.Snapshot(), nil
	}

	products, err := fetcher.GetProductsByIDs(ctx, missing)
	if err != nil {
		return c.Snapshot(), err
	}

	c.Merge(missing, products)
	return c.Snapshot(), nil
}

// Merge stores products and records any requested ID that came back empty.
func (c *ProductCache) Merge(requested []string, products []domain.ProductDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range products {
		c.entries[p.ProductID] = p
		delete(c.missing, p.ProductID)
	}
	for _, id := range requested {
		if _, ok := c.entries[id]; !ok {
			c.missing[id] = struct{}{}
		}
	}
}

// Snapshot copies the cached entries into a Catalog the caller may read freely.
func (c *ProductCache) Snapshot() Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(Catalog, len(c.entries))
	for id, d := range c.entries {
		out[id] = d
	}
	return out
}

// Len returns the number of resolved products.
func (c *ProductCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every cached and remembered-missing entry.
func (c *ProductCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.ProductDetails)
	c.missing = make(map[string]struct{})
}

// CandidateIDs returns the union of product IDs in inventory and forecasts, in encounter order.
func CandidateIDs(inventory []domain.InventoryRecord, forecasts []domain.ForecastRecord) []string {
	seen := make(map[string]struct{}, len(inventory))
	ids := make([]string, 0, len(inventory))
	for _, item := range inventory {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	for _, f := range forecasts {
		if _, ok := seen[f.ProductID]; ok {
			continue
		}
		seen[f.ProductID] = struct{}{}
		ids = append(ids, f.ProductID)
	}
	return ids
}
