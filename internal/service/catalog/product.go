// internal/service/catalog/product.go
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

const (
	productCounter = "productId"
	variantCounter = "variantId"
	imageCounter   = "imageId"
)

type ProductService struct {
	products *store.Collection[catalog.Product, *catalog.Product]
	ids      *store.Generator
	logger   *zap.Logger
}

func NewProductService(st storage.Storage, ids *store.Generator, logger *zap.Logger) *ProductService {
	products := store.NewCollection[catalog.Product](st, ids, store.KeyProducts, productCounter, logger)
	products.BeforeAppend = func(existing []catalog.Product, rec *catalog.Product) {
		taken := make(map[string]bool, len(existing))
		for _, p := range existing {
			taken[p.Slug] = true
		}
		rec.Slug = uniqueSlug(taken, Slugify(rec.Name))
	}
	return &ProductService{products: products, ids: ids, logger: logger}
}

func (s *ProductService) List(ctx context.Context, params catalog.ListProductsParams) store.Page[catalog.Product] {
	search := strings.ToLower(params.Search)
	match := func(p catalog.Product) bool {
		if params.CategoryID != nil && p.CategoryID != *params.CategoryID {
			return false
		}
		if params.IsActive != nil && p.IsActive != *params.IsActive {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
		return true
	}
	return s.products.List(ctx, match, params.Page, params.Limit)
}

func (s *ProductService) Get(ctx context.Context, id int64) (catalog.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in catalog.CreateProductInput) (catalog.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return catalog.Product{}, xerrors.Wrap(xerrors.ErrInvalidInput, "product name is required")
	}

	product := catalog.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Discount:    in.Discount,
		CategoryID:  in.CategoryID,
		IsActive:    true,
		Variants:    []catalog.Variant{},
		Images:      []catalog.Image{},
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	for _, v := range in.Variants {
		id, err := s.ids.Next(ctx, variantCounter)
		if err != nil {
			return catalog.Product{}, err
		}
		v.ID = id
		product.Variants = append(product.Variants, v)
	}
	for _, img := range in.Images {
		id, err := s.ids.Next(ctx, imageCounter)
		if err != nil {
			return catalog.Product{}, err
		}
		img.ID = id
		product.Images = append(product.Images, img)
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		s.logger.Error("failed to create product", zap.Error(err))
		return catalog.Product{}, err
	}

	s.logger.Info("product created",
		zap.Int64("product_id", created.ID),
		zap.String("slug", created.Slug),
	)
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in catalog.UpdateProductInput) (catalog.Product, error) {
	return s.products.Update(ctx, id, in)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

// --- nested variants ---

func (s *ProductService) AddVariant(ctx context.Context, productID int64, in catalog.CreateVariantInput) (catalog.Variant, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return catalog.Variant{}, err
	}

	id, err := s.ids.Next(ctx, variantCounter)
	if err != nil {
		return catalog.Variant{}, err
	}
	variant := catalog.Variant{ID: id, Name: in.Name, SKU: in.SKU, Price: in.Price, Stock: in.Stock}
	product.Variants = append(product.Variants, variant)

	if _, err := s.products.Put(ctx, product); err != nil {
		return catalog.Variant{}, err
	}
	return variant, nil
}

func (s *ProductService) UpdateVariant(ctx context.Context, productID, variantID int64, in catalog.UpdateVariantInput) (catalog.Variant, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return catalog.Variant{}, err
	}
	i, ok := product.FindVariant(variantID)
	if !ok {
		return catalog.Variant{}, xerrors.ErrNotFound
	}

	v := &product.Variants[i]
	if in.Name != nil {
		v.Name = *in.Name
	}
	if in.SKU != nil {
		v.SKU = *in.SKU
	}
	if in.Price != nil {
		v.Price = *in.Price
	}
	if in.Stock != nil {
		v.Stock = *in.Stock
	}

	if _, err := s.products.Put(ctx, product); err != nil {
		return catalog.Variant{}, err
	}
	return *v, nil
}

func (s *ProductService) RemoveVariant(ctx context.Context, productID, variantID int64) error {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}
	i, ok := product.FindVariant(variantID)
	if !ok {
		return xerrors.ErrNotFound
	}
	product.Variants = append(product.Variants[:i], product.Variants[i+1:]...)
	_, err = s.products.Put(ctx, product)
	return err
}

// AdjustStock changes a variant's stock by delta, clamping at zero.
func (s *ProductService) AdjustStock(ctx context.Context, productID, variantID int64, delta int) (catalog.Variant, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return catalog.Variant{}, err
	}
	i, ok := product.FindVariant(variantID)
	if !ok {
		return catalog.Variant{}, xerrors.ErrNotFound
	}

	stock := product.Variants[i].Stock + delta
	if stock < 0 {
		stock = 0
	}
	product.Variants[i].Stock = stock

	if _, err := s.products.Put(ctx, product); err != nil {
		return catalog.Variant{}, err
	}
	return product.Variants[i], nil
}

// --- nested images ---

func (s *ProductService) AddImage(ctx context.Context, productID int64, in catalog.CreateImageInput) (catalog.Image, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return catalog.Image{}, err
	}

	id, err := s.ids.Next(ctx, imageCounter)
	if err != nil {
		return catalog.Image{}, err
	}
	image := catalog.Image{ID: id, URL: in.URL, Alt: in.Alt, IsPrimary: in.IsPrimary}

	// The first image becomes primary; a new primary demotes the rest.
	if len(product.Images) == 0 {
		image.IsPrimary = true
	} else if image.IsPrimary {
		for i := range product.Images {
			product.Images[i].IsPrimary = false
		}
	}
	product.Images = append(product.Images, image)

	if _, err := s.products.Put(ctx, product); err != nil {
		return catalog.Image{}, err
	}
	return image, nil
}

func (s *ProductService) SetPrimaryImage(ctx context.Context, productID, imageID int64) error {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}
	if _, ok := product.FindImage(imageID); !ok {
		return xerrors.ErrNotFound
	}
	for i := range product.Images {
		product.Images[i].IsPrimary = product.Images[i].ID == imageID
	}
	_, err = s.products.Put(ctx, product)
	return err
}

func (s *ProductService) RemoveImage(ctx context.Context, productID, imageID int64) error {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}
	i, ok := product.FindImage(imageID)
	if !ok {
		return xerrors.ErrNotFound
	}
	wasPrimary := product.Images[i].IsPrimary
	product.Images = append(product.Images[:i], product.Images[i+1:]...)
	if wasPrimary && len(product.Images) > 0 {
		product.Images[0].IsPrimary = true
	}
	_, err = s.products.Put(ctx, product)
	return err
}
