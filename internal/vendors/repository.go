package vendors

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for vendor storage.
type Repository interface {
	Create(ctx context.Context, vendor *Vendor) (*Vendor, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*Vendor, error)
	// Query returns the vendor pool for a match request. The result is a
	// read-only snapshot; callers never cache it across turns.
	Query(ctx context.Context, category, subcategory, postalCode string, activeOnly bool) ([]Vendor, error)
	CountActive(ctx context.Context) (int, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development without Postgres.
type InMemoryRepository struct {
	mu      sync.RWMutex
	vendors map[string]*Vendor
}

// NewInMemoryRepository creates an empty in-memory vendor repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{vendors: make(map[string]*Vendor)}
}

// Create stores a vendor, assigning an ID when absent.
func (r *InMemoryRepository) Create(ctx context.Context, vendor *Vendor) (*Vendor, error) {
	if vendor.BusinessName == "" {
		return nil, ErrMissingBusinessName
	}
	if vendor.PhoneNumber == "" {
		return nil, ErrMissingPhone
	}

	stored := *vendor
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.vendors[stored.ID] = &stored
	r.mu.Unlock()

	out := stored
	return &out, nil
}

// GetByPhone returns the vendor registered under the phone number.
func (r *InMemoryRepository) GetByPhone(ctx context.Context, phoneNumber string) (*Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.vendors {
		if v.PhoneNumber == phoneNumber {
			out := *v
			return &out, nil
		}
	}
	return nil, ErrVendorNotFound
}

// Query filters the stored vendors by category, subcategory and service area.
func (r *InMemoryRepository) Query(ctx context.Context, category, subcategory, postalCode string, activeOnly bool) ([]Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Vendor
	for _, v := range r.vendors {
		if activeOnly && !v.IsActive {
			continue
		}
		if !v.OffersCategory(category) || !v.OffersSubcategory(subcategory) || !v.ServesArea(postalCode) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CountActive returns the number of active vendors.
func (r *InMemoryRepository) CountActive(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, v := range r.vendors {
		if v.IsActive {
			n++
		}
	}
	return n, nil
}
