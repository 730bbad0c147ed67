// internal/domain/catalog/entity.go
package catalog

import "fittech-client/internal/store"

type Category struct {
	store.Meta
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type Product struct {
	store.Meta
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	CategoryID  int64   `json:"category_id"`
	IsActive    bool    `json:"is_active"`

	// Variants and images are denormalized onto the product: consumers scan
	// these arrays to find one by id, and every nested mutation re-persists
	// the whole product collection.
	Variants []Variant `json:"variants"`
	Images   []Image   `json:"images"`
}

type Variant struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	SKU   string  `json:"sku,omitempty"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type Image struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// FindVariant scans the embedded array for a variant id.
func (p *Product) FindVariant(id int64) (int, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// FindImage scans the embedded array for an image id.
func (p *Product) FindImage(id int64) (int, bool) {
	for i := range p.Images {
		if p.Images[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// EffectivePrice is the list price after the flat discount.
func (p *Product) EffectivePrice() float64 {
	price := p.Price - p.Discount
	if price < 0 {
		return 0
	}
	return price
}
