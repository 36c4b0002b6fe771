package vendors

import (
	"time"

	"github.com/citimaster/booking-platform/internal/geo"
)

// Price tiers a vendor can advertise.
const (
	PriceTierLow    = "LOW"
	PriceTierMedium = "MEDIUM"
	PriceTierHigh   = "HIGH"
)

// Vendor is a registered service provider. Matching treats it as a read-only
// snapshot; only the registration/admin surfaces mutate it.
type Vendor struct {
	ID             string         `json:"id"`
	PhoneNumber    string         `json:"phone_number"`
	BusinessName   string         `json:"business_name"`
	OwnerName      string         `json:"owner_name"`
	Categories     []string       `json:"categories"`
	Subcategories  []string       `json:"subcategories"`
	ServiceAreas   []string       `json:"service_areas"`
	Location       geo.Coordinate `json:"location"`
	HasLocation    bool           `json:"has_location"`
	Rating         float64        `json:"rating"`
	TotalRatings   int            `json:"total_ratings"`
	AcceptanceRate float64        `json:"acceptance_rate"`
	PriceTier      string         `json:"price_tier"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ServesArea reports whether the vendor covers the given postal code.
func (v *Vendor) ServesArea(postalCode string) bool {
	return contains(v.ServiceAreas, postalCode)
}

// OffersCategory reports whether the vendor offers the category.
func (v *Vendor) OffersCategory(category string) bool {
	return contains(v.Categories, category)
}

// OffersSubcategory reports whether the vendor offers the subcategory.
func (v *Vendor) OffersSubcategory(subcategory string) bool {
	return contains(v.Subcategories, subcategory)
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
