package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
)

type memoryCatalogCache struct {
	products map[string]domain.ProductDetails
	getErr   error
	sets     int
}

func (m *memoryCatalogCache) GetProducts(ctx context.Context, ids []string) ([]domain.ProductDetails, []string, error) {
	if m.getErr != nil {
		return nil, nil, m.getErr
	}
	var found []domain.ProductDetails
	var missing []string
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			found = append(found, p)
			continue
		}
		missing = append(missing, id)
	}
	return found, missing, nil
}

func (m *memoryCatalogCache) SetProducts(ctx context.Context, products []domain.ProductDetails) error {
	m.sets++
	for _, p := range products {
		m.products[p.ProductID] = p
	}
	return nil
}

func (m *memoryCatalogCache) InvalidateAll(ctx context.Context) error {
	m.products = map[string]domain.ProductDetails{}
	return nil
}

func TestCatalogFetcher_CacheAside(t *testing.T) {
	repo := &fakeProductRepo{products: map[string]domain.ProductDetails{
		"1": {ProductID: "1", Name: "Rice"},
		"2": {ProductID: "2", Name: "Salt"},
	}}
	shared := &memoryCatalogCache{products: map[string]domain.ProductDetails{
		"1": {ProductID: "1", Name: "Rice"},
	}}
	fetcher := &catalogFetcher{repo: repo, cache: shared}

	got, err := fetcher.GetProductsByIDs(context.Background(), []string{"1", "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %+v", got)
	}
	if repo.calls != 1 || shared.sets != 1 {
		t.Errorf("expected one repo call and one cache write, got %d and %d", repo.calls, shared.sets)
	}

	if _, err := fetcher.GetProductsByIDs(context.Background(), []string{"1", "2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("expected cached products to skip the repository, got %d calls", repo.calls)
	}
}

func TestCatalogFetcher_CacheErrorFallsBackToRepo(t *testing.T) {
	repo := &fakeProductRepo{products: map[string]domain.ProductDetails{
		"1": {ProductID: "1", Name: "Rice"},
	}}
	shared := &memoryCatalogCache{products: map[string]domain.ProductDetails{}, getErr: errors.New("redis down")}
	fetcher := &catalogFetcher{repo: repo, cache: shared}

	got, err := fetcher.GetProductsByIDs(context.Background(), []string{"1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Rice" {
		t.Errorf("unexpected products %+v", got)
	}

	repo.err = errors.New("db down")
	if _, err := fetcher.GetProductsByIDs(context.Background(), []string{"1"}); err == nil {
		t.Error("expected repository error to propagate")
	}
}
