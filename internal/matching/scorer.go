// Package matching ranks vendors against a booking request.
package matching

import (
	"github.com/citimaster/booking-platform/internal/geo"
	"github.com/citimaster/booking-platform/internal/vendors"
)

// Request carries the matching criteria built from a lead at match time.
type Request struct {
	Category    string
	Subcategory string
	PostalCode  string
	Location    geo.Coordinate
}

// Match is one ranked result. It is derived output, never persisted as-is.
type Match struct {
	VendorID     string  `json:"vendor_id"`
	BusinessName string  `json:"business_name"`
	Rating       float64 `json:"rating"`
	DistanceKm   float64 `json:"distance_km"`
	PriceTier    string  `json:"price_tier"`
	Score        float64 `json:"score"`
}

// sentinelDistanceKm stands in for "unknown vendor location": far enough that
// the proximity term bottoms out at zero.
const sentinelDistanceKm = 999999

// Score weights. They must sum to 1.0; the scorer test pins this.
const (
	weightProximity  = 0.35
	weightRating     = 0.25
	weightPrice      = 0.20
	weightAcceptance = 0.20

	// Price fit is a fixed neutral value until request-side price
	// sensitivity exists. Placeholder, not a defect.
	neutralPriceScore = 70
)

// Distance computes the request-to-vendor distance in kilometers, or the
// sentinel when the vendor has no stored location.
func Distance(vendor *vendors.Vendor, req Request) float64 {
	if !vendor.HasLocation {
		return sentinelDistanceKm
	}
	return geo.DistanceKm(req.Location, vendor.Location)
}

// Score computes the composite match score for one vendor, in [0, 100].
// It is pure: same inputs, same score.
func Score(vendor *vendors.Vendor, req Request) float64 {
	distanceKm := Distance(vendor, req)

	proximity := 100 - distanceKm*10 // zero at 10 km and beyond
	if proximity < 0 {
		proximity = 0
	}

	rating := vendor.Rating / 5 * 100
	acceptance := vendor.AcceptanceRate * 100

	return weightProximity*proximity +
		weightRating*rating +
		weightPrice*neutralPriceScore +
		weightAcceptance*acceptance
}

// WeightSum exposes the weight total so a test can pin it at exactly 1.0.
func WeightSum() float64 {
	return weightProximity + weightRating + weightPrice + weightAcceptance
}
