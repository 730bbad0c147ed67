// internal/domain/catalog/dto.go
package catalog

type CreateProductInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount"`
	CategoryID  int64     `json:"category_id"`
	IsActive    *bool     `json:"is_active"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

// UpdateProductInput patches a product. Nil fields are left untouched;
// slugs are derived at creation and never patched.
type UpdateProductInput struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
	CategoryID  *int64   `json:"category_id,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type CreateCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type CreateVariantInput struct {
	Name  string  `json:"name"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type UpdateVariantInput struct {
	Name  *string  `json:"name,omitempty"`
	SKU   *string  `json:"sku,omitempty"`
	Price *float64 `json:"price,omitempty"`
	Stock *int     `json:"stock,omitempty"`
}

type CreateImageInput struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"is_primary"`
}

// ListProductsParams filters and paginates product listings. Search matches
// case-insensitively over name and description.
type ListProductsParams struct {
	CategoryID *int64
	IsActive   *bool
	Search     string
	Page       int
	Limit      int
}
