package forecast

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
)

type fakeFetcher struct {
	catalog map[string]domain.ProductDetails
	calls   [][]string
	err     error
}

func (f *fakeFetcher) GetProductsByIDs(_ context.Context, ids []string) ([]domain.ProductDetails, error) {
	f.calls = append(f.calls, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ProductDetails
	for _, id := range ids {
		if d, ok := f.catalog[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func TestProductCache_FetchesOnlyMissing(t *testing.T) {
	fetcher := &fakeFetcher{catalog: map[string]domain.ProductDetails{
		"1": {ProductID: "1", Name: "Bread"},
		"2": {ProductID: "2", Name: "Eggs"},
		"3": {ProductID: "3", Name: "Rice"},
	}}
	cache := NewProductCache()

	got, err := cache.GetOrFetchMissing(context.Background(), []string{"1", "2", "1"}, fetcher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	got, err = cache.GetOrFetchMissing(context.Background(), []string{"2", "3"}, fetcher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected merged cache of 3 entries, got %d", len(got))
	}

	want := [][]string{{"1", "2"}, {"3"}}
	if !reflect.DeepEqual(fetcher.calls, want) {
		t.Errorf("fetch calls = %v, want %v", fetcher.calls, want)
	}
}

func TestProductCache_IdempotentWhenComplete(t *testing.T) {
	fetcher := &fakeFetcher{catalog: map[string]domain.ProductDetails{"1": {ProductID: "1", Name: "Salt"}}}
	cache := NewProductCache()

	ids := []string{"1", "404"}
	for i := 0; i < 3; i++ {
		if _, err := cache.GetOrFetchMissing(context.Background(), ids, fetcher); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("expected a single fetch, got %d", len(fetcher.calls))
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 resolved product, got %d", cache.Len())
	}
}

func TestProductCache_FetchFailureKeepsExisting(t *testing.T) {
	cache := NewProductCache()
	cache.Merge([]string{"1"}, []domain.ProductDetails{{ProductID: "1", Name: "Flour"}})

	fetcher := &fakeFetcher{err: errors.New("catalog down")}
	got, err := cache.GetOrFetchMissing(context.Background(), []string{"1", "2"}, fetcher)
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if len(got) != 1 || got["1"].Name != "Flour" {
		t.Fatalf("expected existing entry in snapshot, got %+v", got)
	}

	// A failed fetch must not mark the IDs as known-missing.
	if missing := cache.Missing([]string{"2"}); len(missing) != 1 {
		t.Errorf("expected 2 to remain unresolved, got %v", missing)
	}
}

func TestProductCache_SnapshotIsDetached(t *testing.T) {
	cache := NewProductCache()
	cache.Merge([]string{"1"}, []domain.ProductDetails{{ProductID: "1", Name: "Oil"}})

	snap := cache.Snapshot()
	snap["1"] = domain.ProductDetails{ProductID: "1", Name: "changed"}
	delete(snap, "1")

	if again := cache.Snapshot(); again["1"].Name != "Oil" {
		t.Errorf("cache mutated through snapshot: %+v", again)
	}

	cache.Reset()
	if cache.Len() != 0 {
		t.Errorf("expected empty cache after reset")
	}
}

func TestCandidateIDs(t *testing.T) {
	inv := []domain.InventoryRecord{{ProductID: "3"}, {ProductID: "1"}, {ProductID: "3"}}
	fc := []domain.ForecastRecord{{ProductID: "2"}, {ProductID: "1"}, {ProductID: "5"}}

	got := CandidateIDs(inv, fc)
	want := []string{"3", "1", "2", "5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CandidateIDs() = %v, want %v", got, want)
	}
}
