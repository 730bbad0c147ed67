// internal/domain/commerce/entity.go
package commerce

import (
	"time"

	"fittech-client/internal/store"
)

// Cart holds one user's open cart. At most one cart exists per user
// partition; items are keyed by product and variant.
type Cart struct {
	store.Meta
	UserEmail string     `json:"user_email,omitempty"`
	Items     []CartItem `json:"items"`
}

type CartItem struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	VariantID int64     `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// FindItem scans the embedded items for a product/variant pair.
func (c *Cart) FindItem(productID, variantID int64) (int, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			return i, true
		}
	}
	return 0, false
}

type Favorite struct {
	store.Meta
	ProductID int64 `json:"product_id"`
}

type Notification struct {
	store.Meta
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Read    bool   `json:"read"`
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	store.Meta
	Date   string            `json:"date"`
	Time   string            `json:"time"`
	Status ReservationStatus `json:"status"`
	Notes  string            `json:"notes,omitempty"`
}

// CanTransitionTo enforces the reservation lifecycle: pending can be
// confirmed or cancelled, confirmed can complete or cancel, the two end
// states are terminal.
func (r *Reservation) CanTransitionTo(next ReservationStatus) bool {
	switch r.Status {
	case ReservationPending:
		return next == ReservationConfirmed || next == ReservationCancelled
	case ReservationConfirmed:
		return next == ReservationCompleted || next == ReservationCancelled
	default:
		return false
	}
}

// Recommendation stores the product ids suggested for a user. One record
// per user partition, replaced wholesale.
type Recommendation struct {
	store.Meta
	ProductIDs []int64 `json:"product_ids"`
}
