package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/storage"

	"go.uber.org/zap"
)

type testItem struct {
	Meta
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
	IsActive bool    `json:"is_active"`
}

type testItemPatch struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Discount *float64 `json:"discount,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
}

func newTestCollection(t *testing.T) (*Collection[testItem, *testItem], *storage.MemoryStorage) {
	t.Helper()
	st := storage.NewMemoryStorage()
	ids := NewGenerator(st, zap.NewNop())
	return NewCollection[testItem](st, ids, "test_items", "testItemId", zap.NewNop()), st
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	first, err := coll.Create(ctx, testItem{Name: "a"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	second, err := coll.Create(ctx, testItem{Name: "b"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
}

func TestIDsNeverReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	var last int64
	for i := 0; i < 5; i++ {
		rec, err := coll.Create(ctx, testItem{Name: fmt.Sprintf("item-%d", i)})
		if err != nil {
			t.Fatalf("create error: %v", err)
		}
		if rec.ID <= last {
			t.Fatalf("id %d not strictly increasing after %d", rec.ID, last)
		}
		last = rec.ID
	}

	if err := coll.Delete(ctx, 5); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if err := coll.Delete(ctx, 3); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	rec, err := coll.Create(ctx, testItem{Name: "after-delete"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.ID != 6 {
		t.Fatalf("expected id 6 after deletes, got %d", rec.ID)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	rec, err := coll.Create(ctx, testItem{Name: "X", Price: 5, Discount: 1, IsActive: true})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	price := 10.0
	updated, err := coll.Update(ctx, rec.ID, testItemPatch{Price: &price})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Name != "X" || updated.Price != 10 || updated.Discount != 1 || !updated.IsActive {
		t.Fatalf("partial update clobbered untouched fields: %+v", updated)
	}
	if !updated.UpdatedAt.After(rec.UpdatedAt) && !updated.UpdatedAt.Equal(rec.UpdatedAt) {
		t.Fatalf("expected updated_at refreshed")
	}
	if !updated.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("created_at must survive updates")
	}
}

func TestUpdateCannotChangeID(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	rec, _ := coll.Create(ctx, testItem{Name: "X"})
	updated, err := coll.Update(ctx, rec.ID, map[string]any{"id": 99, "name": "Y"})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.ID != rec.ID {
		t.Fatalf("patch changed record id to %d", updated.ID)
	}
	if updated.Name != "Y" {
		t.Fatalf("expected name updated, got %s", updated.Name)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	if _, err := coll.Update(ctx, 5, map[string]any{"name": "Y"}); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingRecordLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	if _, err := coll.Create(ctx, testItem{Name: "keep"}); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := coll.Delete(ctx, 5); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := len(coll.All(ctx, nil)); got != 1 {
		t.Fatalf("expected collection untouched, got %d records", got)
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	for i := 1; i <= 25; i++ {
		if _, err := coll.Create(ctx, testItem{Name: fmt.Sprintf("item-%02d", i)}); err != nil {
			t.Fatalf("create error: %v", err)
		}
	}

	page := coll.List(ctx, nil, 2, 10)
	if len(page.Data) != 10 {
		t.Fatalf("expected 10 records on page 2, got %d", len(page.Data))
	}
	if page.Total != 25 || page.TotalPages != 3 || page.Page != 2 || page.Limit != 10 {
		t.Fatalf("unexpected page envelope: %+v", page)
	}
	if page.Data[0].ID != 11 || page.Data[9].ID != 20 {
		t.Fatalf("expected items 11-20, got %d-%d", page.Data[0].ID, page.Data[9].ID)
	}

	last := coll.List(ctx, nil, 3, 10)
	if len(last.Data) != 5 {
		t.Fatalf("expected 5 records on the final page, got %d", len(last.Data))
	}

	beyond := coll.List(ctx, nil, 9, 10)
	if len(beyond.Data) != 0 || beyond.TotalPages != 3 {
		t.Fatalf("expected empty page beyond the end, got %+v", beyond)
	}
}

func TestListEmptyCollectionHasOnePage(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	page := coll.List(ctx, nil, 1, 10)
	if page.TotalPages != 1 || page.Total != 0 || len(page.Data) != 0 {
		t.Fatalf("unexpected empty-collection envelope: %+v", page)
	}
}

func TestListFilter(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	items := []testItem{
		{Name: "Cotton Shirt", IsActive: true},
		{Name: "Linen Shirt", IsActive: false},
		{Name: "Running Shoes", IsActive: true},
	}
	for _, it := range items {
		if _, err := coll.Create(ctx, it); err != nil {
			t.Fatalf("create error: %v", err)
		}
	}

	active := coll.All(ctx, func(it testItem) bool { return it.IsActive })
	if len(active) != 2 {
		t.Fatalf("expected 2 active records, got %d", len(active))
	}

	shirts := coll.All(ctx, func(it testItem) bool {
		return strings.Contains(strings.ToLower(it.Name), "shirt")
	})
	if len(shirts) != 2 {
		t.Fatalf("expected 2 shirts, got %d", len(shirts))
	}
}

func TestCorruptBlobDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	coll, st := newTestCollection(t)

	if err := st.Set(ctx, "test_items", []byte("{not json")); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	if got := coll.All(ctx, nil); len(got) != 0 {
		t.Fatalf("expected empty collection for corrupt blob, got %d", len(got))
	}

	// A create over the corrupt blob starts a fresh collection.
	rec, err := coll.Create(ctx, testItem{Name: "fresh"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.ID != 1 {
		t.Fatalf("expected fresh collection to start at id 1, got %d", rec.ID)
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	coll, _ := newTestCollection(t)

	created, _ := coll.Create(ctx, testItem{Name: "target"})
	got, err := coll.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Name != "target" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if _, err := coll.Get(ctx, 999); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
