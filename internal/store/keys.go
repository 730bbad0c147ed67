package store

// Storage keys for the persisted collections. Exact names matter: they are
// shared with the storefront frontend's local state, so a backend swapped in
// behind the same storage medium keeps reading existing data.
const (
	KeyProducts        = "fittech_products"
	KeyCategories      = "fittech_categories"
	KeyCounters        = "fittech_counters"
	KeyCarts           = "fittech_carts"
	KeyFavorites       = "fittech_favorites"
	KeyNotifications   = "fittech_notifications"
	KeyReservations    = "fittech_reservations"
	KeyRecommendations = "fittech_recommendations"
)

// UserKey derives the per-user partition key for namespaced collections.
// An empty email selects the shared anonymous partition. Counters are never
// namespaced: ids stay globally unique even for per-user records.
func UserKey(base, email string) string {
	if email == "" {
		return base
	}
	return base + "_" + email
}
