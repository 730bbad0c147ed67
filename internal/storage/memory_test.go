package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := st.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set error: %v", err)
	}
	got, err := st.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("unexpected value: %s", got)
	}

	if err := st.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if st.Has("k") {
		t.Fatalf("expected key removed")
	}
	if err := st.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove should be idempotent, got %v", err)
	}
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	in := []byte("abc")
	if err := st.Set(ctx, "k", in); err != nil {
		t.Fatalf("set error: %v", err)
	}
	in[0] = 'z'

	got, err := st.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %s", got)
	}
	got[0] = 'z'

	again, _ := st.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("returned value aliased stored slice: %s", again)
	}
}
