// internal/app/app_test.go
package app

import (
	"context"
	"testing"
	"time"

	"fittech-client/internal/config"
	"fittech-client/internal/domain/catalog"
	"fittech-client/internal/session"

	"go.uber.org/zap"
)

func TestNewAppOnMemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.AppConfig{
		APIBaseURL:     "http://localhost:5000/api",
		RequestTimeout: time.Second,
		StorageBackend: "memory",
	}

	application, cleanup, err := New(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer cleanup()

	if application.Session.Current().Phase != session.PhaseAnonymous {
		t.Fatalf("fresh app must start anonymous, got %v", application.Session.Current().Phase)
	}

	// The services share one backend and one id space.
	created, err := application.Products.Create(ctx, catalog.CreateProductInput{Name: "Hoodie", Price: 30})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	fetched, err := application.Products.Get(ctx, created.ID)
	if err != nil || fetched.Name != "Hoodie" {
		t.Fatalf("product round trip failed: %v %+v", err, fetched)
	}
}

func TestOpenStorageRejectsUnknownBackend(t *testing.T) {
	cfg := config.AppConfig{StorageBackend: "etcd"}
	if _, _, err := OpenStorage(context.Background(), cfg); err == nil {
		t.Fatalf("expected an error for an unknown backend")
	}
}

func TestOpenStorageDefaultsToMemory(t *testing.T) {
	st, cleanup, err := OpenStorage(context.Background(), config.AppConfig{})
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	defer cleanup()
	if st == nil {
		t.Fatalf("expected a storage backend")
	}
}
