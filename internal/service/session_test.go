package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/andresuchdata/storeops/backend-go/internal/forecast"
)

func TestSessionStore_Get(t *testing.T) {
	store := NewSessionStore(time.Minute)

	a := store.Get("a")
	if again := store.Get("a"); again != a {
		t.Error("expected the same session for the same id")
	}
	if store.Get("b") == a {
		t.Error("expected distinct sessions for distinct ids")
	}
	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}

	if anon := store.Get(""); anon == nil || anon.ID != "" {
		t.Errorf("unexpected anonymous session %+v", anon)
	}
	if store.Len() != 2 {
		t.Errorf("anonymous sessions must not be stored, Len = %d", store.Len())
	}
}

func TestSessionStore_EvictsIdleSessions(t *testing.T) {
	store := NewSessionStore(time.Minute)
	old := store.Get("old")

	old.mu.Lock()
	old.lastUsed = time.Now().Add(-2 * time.Minute)
	old.mu.Unlock()

	store.Get("fresh")
	if store.Len() != 1 {
		t.Fatalf("expected idle session to be evicted, Len = %d", store.Len())
	}
	if store.Get("old") == old {
		t.Error("expected a new session after eviction")
	}
}

func TestSession_RunReturnsResult(t *testing.T) {
	sess := NewSession("s")
	want := &domain.RecommendationReport{StoreID: "1"}
	sentinel := errors.New("boom")

	got, err := sess.Run(context.Background(), func(ctx context.Context, _ *forecast.ProductCache) (*domain.RecommendationReport, error) {
		return want, nil
	})
	if err != nil || got != want {
		t.Fatalf("got %v, %v", got, err)
	}

	_, err = sess.Run(context.Background(), func(ctx context.Context, _ *forecast.ProductCache) (*domain.RecommendationReport, error) {
		return nil, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}
