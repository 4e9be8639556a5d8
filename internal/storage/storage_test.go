package storage

import (
	"testing"

	"github.com/andresuchdata/storeops/backend-go/internal/config"
)

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"s3.example.com", true, "https://s3.example.com"},
		{"s3.example.com", false, "http://s3.example.com"},
		{"//s3.example.com", true, "https://s3.example.com"},
		{"http://localhost:9000", true, "http://localhost:9000"},
	}
	for _, tt := range tests {
		if got := endpointURL(tt.endpoint, tt.useSSL); got != tt.want {
			t.Errorf("endpointURL(%q, %v) = %q, want %q", tt.endpoint, tt.useSSL, got, tt.want)
		}
	}
}

func TestRegionOrDefault(t *testing.T) {
	if got := regionOrDefault("  "); got != "us-east-1" {
		t.Errorf("regionOrDefault(blank) = %q", got)
	}
	if got := regionOrDefault("ap-southeast-1"); got != "ap-southeast-1" {
		t.Errorf("regionOrDefault = %q", got)
	}
}

func TestNew_ProviderSelection(t *testing.T) {
	store, err := New(config.StorageConfig{})
	if err != nil || store != nil {
		t.Fatalf("empty provider: got %v, %v", store, err)
	}

	if _, err := New(config.StorageConfig{Provider: "ftp"}); err == nil {
		t.Error("expected error for unknown provider")
	}

	if _, err := New(config.StorageConfig{Provider: "minio", Bucket: "b"}); err == nil {
		t.Error("expected error for minio without endpoint")
	}

	store, err = New(config.StorageConfig{
		Provider:  "minio",
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "forecasts",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*MinioClient); !ok {
		t.Errorf("expected *MinioClient, got %T", store)
	}
}
