// internal/service/catalog/category.go
package catalog

import (
	"context"
	"strings"

	"fittech-client/internal/domain/catalog"
	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/storage"
	"fittech-client/internal/store"

	"go.uber.org/zap"
)

const categoryCounter = "categoryId"

type CategoryService struct {
	categories *store.Collection[catalog.Category, *catalog.Category]
	logger     *zap.Logger
}

func NewCategoryService(st storage.Storage, ids *store.Generator, logger *zap.Logger) *CategoryService {
	categories := store.NewCollection[catalog.Category](st, ids, store.KeyCategories, categoryCounter, logger)
	categories.BeforeAppend = func(existing []catalog.Category, rec *catalog.Category) {
		taken := make(map[string]bool, len(existing))
		for _, c := range existing {
			taken[c.Slug] = true
		}
		rec.Slug = uniqueSlug(taken, Slugify(rec.Name))
	}
	return &CategoryService{categories: categories, logger: logger}
}

func (s *CategoryService) List(ctx context.Context, activeOnly bool) []catalog.Category {
	if !activeOnly {
		return s.categories.All(ctx, nil)
	}
	return s.categories.All(ctx, func(c catalog.Category) bool { return c.IsActive })
}

func (s *CategoryService) Get(ctx context.Context, id int64) (catalog.Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (catalog.Category, error) {
	matches := s.categories.All(ctx, func(c catalog.Category) bool { return c.Slug == slug })
	if len(matches) == 0 {
		return catalog.Category{}, xerrors.ErrNotFound
	}
	return matches[0], nil
}

func (s *CategoryService) Create(ctx context.Context, in catalog.CreateCategoryInput) (catalog.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return catalog.Category{}, xerrors.Wrap(xerrors.ErrInvalidInput, "category name is required")
	}
	category := catalog.Category{
		Name:        in.Name,
		Description: in.Description,
		IsActive:    true,
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	created, err := s.categories.Create(ctx, category)
	if err != nil {
		s.logger.Error("failed to create category", zap.Error(err))
		return catalog.Category{}, err
	}
	s.logger.Info("category created",
		zap.Int64("category_id", created.ID),
		zap.String("slug", created.Slug),
	)
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, in catalog.UpdateCategoryInput) (catalog.Category, error) {
	return s.categories.Update(ctx, id, in)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}
