// internal/service/commerce/recommendation.go
package commerce

import (
	"context"

	"fittech-client/internal/domain/commerce"
	"fittech-client/internal/storage"
	"fittech-client/internal/store"

	"go.uber.org/zap"
)

const recommendationCounter = "recommendationId"

// RecommendationService keeps one replace-wholesale list of suggested
// product ids per user partition.
type RecommendationService struct {
	st     storage.Storage
	ids    *store.Generator
	logger *zap.Logger
}

func NewRecommendationService(st storage.Storage, ids *store.Generator, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{st: st, ids: ids, logger: logger}
}

func (s *RecommendationService) recommendations(email string) *store.Collection[commerce.Recommendation, *commerce.Recommendation] {
	key := store.UserKey(store.KeyRecommendations, email)
	return store.NewCollection[commerce.Recommendation](s.st, s.ids, key, recommendationCounter, s.logger)
}

// Get returns the recommended product ids, empty when none were stored.
func (s *RecommendationService) Get(ctx context.Context, email string) []int64 {
	existing := s.recommendations(email).All(ctx, nil)
	if len(existing) == 0 {
		return nil
	}
	return existing[0].ProductIDs
}

// Set replaces the user's recommendation list.
func (s *RecommendationService) Set(ctx context.Context, email string, productIDs []int64) error {
	coll := s.recommendations(email)
	existing := coll.All(ctx, nil)
	if len(existing) == 0 {
		_, err := coll.Create(ctx, commerce.Recommendation{ProductIDs: productIDs})
		return err
	}
	rec := existing[0]
	rec.ProductIDs = productIDs
	_, err := coll.Put(ctx, rec)
	return err
}
