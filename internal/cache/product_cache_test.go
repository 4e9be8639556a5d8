package cache

import (
	"context"
	"reflect"
	"testing"

	"github.com/andresuchdata/storeops/backend-go/internal/config"
)

func TestNewProductCatalogCache_DisabledIsNoop(t *testing.T) {
	c, err := NewProductCatalogCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, missing, err := c.GetProducts(context.Background(), []string{"1", "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("noop cache returned %d products", len(found))
	}
	if !reflect.DeepEqual(missing, []string{"1", "2"}) {
		t.Errorf("missing = %v, want all ids", missing)
	}
	if err := c.SetProducts(context.Background(), nil); err != nil {
		t.Errorf("SetProducts: %v", err)
	}
	if err := c.InvalidateAll(context.Background()); err != nil {
		t.Errorf("InvalidateAll: %v", err)
	}
}

func TestProductKey(t *testing.T) {
	if got := productKey("42"); got != "product:details:42" {
		t.Errorf("productKey = %q", got)
	}
	keys := productKeys([]string{"1", "2"})
	if len(keys) != 2 || keys[0] != "product:details:1" || keys[1] != "product:details:2" {
		t.Errorf("productKeys = %v", keys)
	}
	if got := productKey("*"); got != "product:details:*" {
		t.Errorf("scan pattern = %q", got)
	}
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 2 {
		t.Errorf("unexpected options %+v", opts)
	}

	opts, err = buildRedisOptions(config.CacheConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "127.0.0.1:6379" {
		t.Errorf("default addr = %q", opts.Addr)
	}

	if _, err := buildRedisOptions(config.CacheConfig{RedisURL: "://bad"}); err == nil {
		t.Error("expected error for invalid url")
	}
}
