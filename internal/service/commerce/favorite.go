// internal/service/commerce/favorite.go
package commerce

import (
	"context"

	"fittech-client/internal/domain/commerce"
	"fittech-client/internal/storage"
	"fittech-client/internal/store"

	"go.uber.org/zap"
)

const favoriteCounter = "favoriteId"

type FavoriteService struct {
	st     storage.Storage
	ids    *store.Generator
	logger *zap.Logger
}

func NewFavoriteService(st storage.Storage, ids *store.Generator, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{st: st, ids: ids, logger: logger}
}

func (s *FavoriteService) favorites(email string) *store.Collection[commerce.Favorite, *commerce.Favorite] {
	key := store.UserKey(store.KeyFavorites, email)
	return store.NewCollection[commerce.Favorite](s.st, s.ids, key, favoriteCounter, s.logger)
}

func (s *FavoriteService) List(ctx context.Context, email string) []commerce.Favorite {
	return s.favorites(email).All(ctx, nil)
}

func (s *FavoriteService) IsFavorite(ctx context.Context, email string, productID int64) bool {
	matches := s.favorites(email).All(ctx, func(f commerce.Favorite) bool {
		return f.ProductID == productID
	})
	return len(matches) > 0
}

// Toggle flips a product's favorite state and reports whether it is now
// favorited. Duplicate favorites cannot accumulate.
func (s *FavoriteService) Toggle(ctx context.Context, email string, productID int64) (bool, error) {
	favorites := s.favorites(email)
	existing := favorites.All(ctx, func(f commerce.Favorite) bool {
		return f.ProductID == productID
	})
	if len(existing) > 0 {
		for _, f := range existing {
			if err := favorites.Delete(ctx, f.ID); err != nil {
				return true, err
			}
		}
		return false, nil
	}
	if _, err := favorites.Create(ctx, commerce.Favorite{ProductID: productID}); err != nil {
		return false, err
	}
	return true, nil
}
