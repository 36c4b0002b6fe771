package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citimaster/booking-platform/internal/geo"
	"github.com/citimaster/booking-platform/internal/vendors"
)

// requestAtConnaught is a booking request around Connaught Place, Delhi.
var requestAtConnaught = Request{
	Category:    "CLEANING",
	Subcategory: "DEEP_CLEANING",
	PostalCode:  "110001",
	Location:    geo.Coordinate{Lat: 28.6139, Lng: 77.2090},
}

// vendorAtKm returns a vendor positioned roughly km kilometers due north of
// the request location. One degree of latitude is ~111.195 km under R=6371.
func vendorAtKm(km float64) *vendors.Vendor {
	return &vendors.Vendor{
		ID:             "v1",
		BusinessName:   "SparkClean Services",
		Categories:     []string{"CLEANING"},
		Subcategories:  []string{"DEEP_CLEANING"},
		ServiceAreas:   []string{"110001"},
		Location:       geo.Coordinate{Lat: 28.6139 + km/111.195, Lng: 77.2090},
		HasLocation:    true,
		Rating:         4.8,
		AcceptanceRate: 0.92,
		PriceTier:      vendors.PriceTierHigh,
		IsActive:       true,
	}
}

func TestWeightsSumToOne(t *testing.T) {
	// Pins the scoring contract so a future weight edit cannot silently
	// skew the composite out of the [0,100] range.
	assert.Equal(t, 1.0, WeightSum())
}

func TestScoreCompositeAtTwoKm(t *testing.T) {
	// 0.35*(100-20) + 0.25*96 + 0.20*70 + 0.20*92 = 84.4
	score := Score(vendorAtKm(2), requestAtConnaught)
	assert.InDelta(t, 84.4, score, 0.05)
}

func TestScoreZeroProximityBeyondTenKm(t *testing.T) {
	near := Score(vendorAtKm(10), requestAtConnaught)
	far := Score(vendorAtKm(250), requestAtConnaught)
	assert.InDelta(t, near, far, 1e-9, "proximity must bottom out at 10 km")
}

func TestScoreMissingLocationTreatedAsMaxDistance(t *testing.T) {
	v := vendorAtKm(2)
	v.HasLocation = false
	withLoc := Score(vendorAtKm(999), requestAtConnaught)
	withoutLoc := Score(v, requestAtConnaught)
	assert.InDelta(t, withLoc, withoutLoc, 1e-9)

	require.Equal(t, float64(sentinelDistanceKm), Distance(v, requestAtConnaught))
}

func TestScoreDeterministic(t *testing.T) {
	v := vendorAtKm(3.7)
	first := Score(v, requestAtConnaught)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(v, requestAtConnaught))
	}
}

func TestScoreBounds(t *testing.T) {
	perfect := vendorAtKm(0)
	perfect.Rating = 5
	perfect.AcceptanceRate = 1
	assert.LessOrEqual(t, Score(perfect, requestAtConnaught), 100.0)

	worst := vendorAtKm(0)
	worst.HasLocation = false
	worst.Rating = 0
	worst.AcceptanceRate = 0
	assert.GreaterOrEqual(t, Score(worst, requestAtConnaught), 0.0)
}
