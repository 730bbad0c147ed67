package store

import (
	"context"
	"testing"

	"fittech-client/internal/storage"

	"go.uber.org/zap"
)

func TestGeneratorStartsAtOne(t *testing.T) {
	ctx := context.Background()
	gen := NewGenerator(storage.NewMemoryStorage(), zap.NewNop())

	first, err := gen.Next(ctx, "productId")
	if err != nil {
		t.Fatalf("next error: %v", err)
	}
	second, err := gen.Next(ctx, "productId")
	if err != nil {
		t.Fatalf("next error: %v", err)
	}
	if first != 1 || second != 2 {
		t.Fatalf("expected 1 then 2, got %d then %d", first, second)
	}
}

func TestGeneratorCountersAreIndependent(t *testing.T) {
	ctx := context.Background()
	gen := NewGenerator(storage.NewMemoryStorage(), zap.NewNop())

	if _, err := gen.Next(ctx, "productId"); err != nil {
		t.Fatalf("next error: %v", err)
	}
	if _, err := gen.Next(ctx, "productId"); err != nil {
		t.Fatalf("next error: %v", err)
	}
	got, err := gen.Next(ctx, "variantId")
	if err != nil {
		t.Fatalf("next error: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected independent counter to start at 1, got %d", got)
	}
}

func TestGeneratorSurvivesCorruptBlob(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	gen := NewGenerator(st, zap.NewNop())

	if err := st.Set(ctx, KeyCounters, []byte("][")); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	got, err := gen.Next(ctx, "cartId")
	if err != nil {
		t.Fatalf("next error: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected reset counter to yield 1, got %d", got)
	}
}

func TestUserKey(t *testing.T) {
	cases := map[string]struct {
		base, email, want string
	}{
		"namespaced": {KeyCarts, "a@b.com", "fittech_carts_a@b.com"},
		"anonymous":  {KeyCarts, "", "fittech_carts"},
		"favorites":  {KeyFavorites, "x@y.z", "fittech_favorites_x@y.z"},
	}
	for name, tc := range cases {
		if got := UserKey(tc.base, tc.email); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", name, tc.want, got)
		}
	}
}
