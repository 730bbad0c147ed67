package commerce

import (
	"context"
	"errors"
	"testing"

	"fittech-client/internal/domain/commerce"
	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/storage"
	"fittech-client/internal/store"

	"go.uber.org/zap"
)

func newDeps(t *testing.T) (storage.Storage, *store.Generator) {
	t.Helper()
	st := storage.NewMemoryStorage()
	return st, store.NewGenerator(st, zap.NewNop())
}

func TestCartCreatedOnFirstTouch(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	carts := NewCartService(st, ids, zap.NewNop())

	cart, err := carts.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if cart.ID != 1 || len(cart.Items) != 0 || cart.UserEmail != "a@b.com" {
		t.Fatalf("unexpected fresh cart: %+v", cart)
	}

	again, err := carts.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if again.ID != cart.ID {
		t.Fatalf("expected one cart per user, got ids %d and %d", cart.ID, again.ID)
	}
}

func TestCartAddItemMergesQuantity(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	carts := NewCartService(st, ids, zap.NewNop())

	if _, err := carts.AddItem(ctx, "a@b.com", 10, 1, 2); err != nil {
		t.Fatalf("add error: %v", err)
	}
	cart, err := carts.AddItem(ctx, "a@b.com", 10, 1, 3)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %+v", cart.Items)
	}

	// A different variant of the same product is its own line.
	cart, err = carts.AddItem(ctx, "a@b.com", 10, 2, 1)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected a second line for a new variant, got %+v", cart.Items)
	}
	if cart.Items[0].ID == cart.Items[1].ID {
		t.Fatalf("cart item ids must be unique")
	}
}

func TestCartRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	carts := NewCartService(st, ids, zap.NewNop())

	if _, err := carts.AddItem(ctx, "a@b.com", 10, 1, 0); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCartSetQuantityAndRemove(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	carts := NewCartService(st, ids, zap.NewNop())

	cart, _ := carts.AddItem(ctx, "a@b.com", 10, 1, 2)
	itemID := cart.Items[0].ID

	cart, err := carts.SetItemQuantity(ctx, "a@b.com", itemID, 7)
	if err != nil || cart.Items[0].Quantity != 7 {
		t.Fatalf("set quantity failed: %v %+v", err, cart.Items)
	}

	cart, err = carts.SetItemQuantity(ctx, "a@b.com", itemID, 0)
	if err != nil {
		t.Fatalf("zero quantity must remove the line: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}

	if _, err := carts.RemoveItem(ctx, "a@b.com", 999); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing line, got %v", err)
	}
}

func TestCartsArePartitionedByUser(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	carts := NewCartService(st, ids, zap.NewNop())

	carts.AddItem(ctx, "a@b.com", 10, 1, 1)
	carts.AddItem(ctx, "c@d.com", 20, 1, 1)

	cartA, _ := carts.Get(ctx, "a@b.com")
	cartC, _ := carts.Get(ctx, "c@d.com")
	if len(cartA.Items) != 1 || cartA.Items[0].ProductID != 10 {
		t.Fatalf("user A sees wrong cart: %+v", cartA.Items)
	}
	if len(cartC.Items) != 1 || cartC.Items[0].ProductID != 20 {
		t.Fatalf("user C sees wrong cart: %+v", cartC.Items)
	}
	// Ids stay globally unique even across partitions.
	if cartA.ID == cartC.ID {
		t.Fatalf("expected distinct cart ids across users")
	}

	anon, _ := carts.Get(ctx, "")
	if len(anon.Items) != 0 {
		t.Fatalf("anonymous partition must be separate: %+v", anon.Items)
	}
}

func TestFavoriteToggle(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	favorites := NewFavoriteService(st, ids, zap.NewNop())

	on, err := favorites.Toggle(ctx, "a@b.com", 42)
	if err != nil || !on {
		t.Fatalf("expected toggle on: %v", err)
	}
	if !favorites.IsFavorite(ctx, "a@b.com", 42) {
		t.Fatalf("expected product favorited")
	}
	if favorites.IsFavorite(ctx, "other@b.com", 42) {
		t.Fatalf("favorites must be per user")
	}

	off, err := favorites.Toggle(ctx, "a@b.com", 42)
	if err != nil || off {
		t.Fatalf("expected toggle off: %v", err)
	}
	if len(favorites.List(ctx, "a@b.com")) != 0 {
		t.Fatalf("expected empty favorites after toggle off")
	}
}

func TestNotificationLifecycle(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	notifications := NewNotificationService(st, ids, zap.NewNop())

	if _, err := notifications.Create(ctx, "a@b.com", "", "body", "order"); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}

	first, err := notifications.Create(ctx, "a@b.com", "Order shipped", "On its way", "order")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	notifications.Create(ctx, "a@b.com", "Sale", "20% off", "promo")

	if got := notifications.UnreadCount(ctx, "a@b.com"); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}

	marked, err := notifications.MarkRead(ctx, "a@b.com", first.ID)
	if err != nil || !marked.Read {
		t.Fatalf("mark read failed: %v %+v", err, marked)
	}
	if marked.Title != "Order shipped" {
		t.Fatalf("mark read clobbered fields: %+v", marked)
	}
	if got := notifications.UnreadCount(ctx, "a@b.com"); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}

	if err := notifications.MarkAllRead(ctx, "a@b.com"); err != nil {
		t.Fatalf("mark all read error: %v", err)
	}
	if got := notifications.UnreadCount(ctx, "a@b.com"); got != 0 {
		t.Fatalf("expected 0 unread, got %d", got)
	}

	if err := notifications.Delete(ctx, "a@b.com", first.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if got := len(notifications.List(ctx, "a@b.com", false)); got != 1 {
		t.Fatalf("expected 1 notification left, got %d", got)
	}
}

func TestReservationTransitions(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	reservations := NewReservationService(st, ids, zap.NewNop())

	if _, err := reservations.Create(ctx, "a@b.com", "", "10:00", ""); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing date, got %v", err)
	}

	booking, err := reservations.Create(ctx, "a@b.com", "2026-09-01", "10:00", "first visit")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if booking.Status != commerce.ReservationPending {
		t.Fatalf("new reservations must be pending, got %s", booking.Status)
	}

	confirmed, err := reservations.Confirm(ctx, "a@b.com", booking.ID)
	if err != nil || confirmed.Status != commerce.ReservationConfirmed {
		t.Fatalf("confirm failed: %v %+v", err, confirmed)
	}
	if confirmed.Notes != "first visit" || confirmed.Date != "2026-09-01" {
		t.Fatalf("status update clobbered fields: %+v", confirmed)
	}

	completed, err := reservations.Complete(ctx, "a@b.com", booking.ID)
	if err != nil || completed.Status != commerce.ReservationCompleted {
		t.Fatalf("complete failed: %v %+v", err, completed)
	}

	if _, err := reservations.Cancel(ctx, "a@b.com", booking.ID); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("completed reservations are terminal, got %v", err)
	}

	other, _ := reservations.Create(ctx, "a@b.com", "2026-09-02", "11:00", "")
	if _, err := reservations.Complete(ctx, "a@b.com", other.ID); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("pending cannot jump to completed, got %v", err)
	}
	cancelled, err := reservations.Cancel(ctx, "a@b.com", other.ID)
	if err != nil || cancelled.Status != commerce.ReservationCancelled {
		t.Fatalf("cancel failed: %v %+v", err, cancelled)
	}
}

func TestRecommendationsReplaceWholesale(t *testing.T) {
	ctx := context.Background()
	st, ids := newDeps(t)
	recs := NewRecommendationService(st, ids, zap.NewNop())

	if got := recs.Get(ctx, "a@b.com"); got != nil {
		t.Fatalf("expected no recommendations yet, got %v", got)
	}

	if err := recs.Set(ctx, "a@b.com", []int64{1, 2, 3}); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := recs.Set(ctx, "a@b.com", []int64{4}); err != nil {
		t.Fatalf("set error: %v", err)
	}

	got := recs.Get(ctx, "a@b.com")
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("expected replaced list [4], got %v", got)
	}
}
