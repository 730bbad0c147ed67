// internal/service/commerce/cart.go
package commerce

import (
	"context"
	"time"

	"fittech-client/internal/domain/commerce"
	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/storage"
	"fittech-client/internal/store"

	"go.uber.org/zap"
)

const (
	cartCounter     = "cartId"
	cartItemCounter = "cartItemId"
)

// CartService keeps one cart per user partition. Collections are derived
// per call from the user's email so every operation lands on that user's
// storage key; the id counters stay global.
type CartService struct {
	st     storage.Storage
	ids    *store.Generator
	logger *zap.Logger
}

func NewCartService(st storage.Storage, ids *store.Generator, logger *zap.Logger) *CartService {
	return &CartService{st: st, ids: ids, logger: logger}
}

func (s *CartService) carts(email string) *store.Collection[commerce.Cart, *commerce.Cart] {
	key := store.UserKey(store.KeyCarts, email)
	return store.NewCollection[commerce.Cart](s.st, s.ids, key, cartCounter, s.logger)
}

// Get returns the user's cart, creating an empty one on first touch.
func (s *CartService) Get(ctx context.Context, email string) (commerce.Cart, error) {
	carts := s.carts(email)
	if existing := carts.All(ctx, nil); len(existing) > 0 {
		return existing[0], nil
	}
	return carts.Create(ctx, commerce.Cart{UserEmail: email, Items: []commerce.CartItem{}})
}

// AddItem puts a product/variant into the cart. Re-adding the same pair
// merges quantities instead of duplicating the line.
func (s *CartService) AddItem(ctx context.Context, email string, productID, variantID int64, quantity int) (commerce.Cart, error) {
	if quantity < 1 {
		return commerce.Cart{}, xerrors.Wrap(xerrors.ErrInvalidInput, "quantity must be positive")
	}

	cart, err := s.Get(ctx, email)
	if err != nil {
		return commerce.Cart{}, err
	}

	if i, ok := cart.FindItem(productID, variantID); ok {
		cart.Items[i].Quantity += quantity
	} else {
		id, err := s.ids.Next(ctx, cartItemCounter)
		if err != nil {
			return commerce.Cart{}, err
		}
		cart.Items = append(cart.Items, commerce.CartItem{
			ID:        id,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}

	return s.carts(email).Put(ctx, cart)
}

// SetItemQuantity updates a line's quantity; anything below one removes
// the line.
func (s *CartService) SetItemQuantity(ctx context.Context, email string, itemID int64, quantity int) (commerce.Cart, error) {
	cart, err := s.Get(ctx, email)
	if err != nil {
		return commerce.Cart{}, err
	}

	for i := range cart.Items {
		if cart.Items[i].ID != itemID {
			continue
		}
		if quantity < 1 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			cart.Items[i].Quantity = quantity
		}
		return s.carts(email).Put(ctx, cart)
	}
	return commerce.Cart{}, xerrors.ErrNotFound
}

func (s *CartService) RemoveItem(ctx context.Context, email string, itemID int64) (commerce.Cart, error) {
	return s.SetItemQuantity(ctx, email, itemID, 0)
}

// Clear empties the cart but keeps the cart record (and its id).
func (s *CartService) Clear(ctx context.Context, email string) (commerce.Cart, error) {
	cart, err := s.Get(ctx, email)
	if err != nil {
		return commerce.Cart{}, err
	}
	cart.Items = []commerce.CartItem{}
	return s.carts(email).Put(ctx, cart)
}
