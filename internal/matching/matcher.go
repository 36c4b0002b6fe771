package matching

import (
	"sort"

	"github.com/citimaster/booking-platform/internal/vendors"
)

// DefaultMaxResults caps the ranked list when the caller does not say otherwise.
const DefaultMaxResults = 3

// Matcher filters and ranks a vendor pool. It holds no state and performs no
// I/O; the caller supplies the pool snapshot.
type Matcher struct {
	maxResults int
}

// NewMatcher creates a matcher returning at most maxResults matches per call.
func NewMatcher(maxResults int) *Matcher {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Matcher{maxResults: maxResults}
}

// FindMatches filters pool by active status, category, subcategory and service
// area, scores the survivors, and returns the top matches ordered by
// descending score, then ascending distance, then vendor id. An empty result
// is a valid outcome, not an error.
func (m *Matcher) FindMatches(req Request, pool []vendors.Vendor) []Match {
	matches := make([]Match, 0, len(pool))
	for i := range pool {
		v := &pool[i]
		if !v.IsActive {
			continue
		}
		if !v.OffersCategory(req.Category) || !v.OffersSubcategory(req.Subcategory) || !v.ServesArea(req.PostalCode) {
			continue
		}
		matches = append(matches, Match{
			VendorID:     v.ID,
			BusinessName: v.BusinessName,
			Rating:       v.Rating,
			DistanceKm:   Distance(v, req),
			PriceTier:    v.PriceTier,
			Score:        Score(v, req),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].VendorID < matches[j].VendorID
	})

	if len(matches) > m.maxResults {
		matches = matches[:m.maxResults]
	}
	return matches
}
