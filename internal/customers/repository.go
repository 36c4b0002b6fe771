package customers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCustomerNotFound is returned when no customer matches the lookup.
var ErrCustomerNotFound = errors.New("customers: customer not found")

// ErrMissingPhone is returned when a customer record has no phone number.
var ErrMissingPhone = errors.New("customers: phone number is required")

// Repository defines the interface for customer storage.
type Repository interface {
	GetByPhone(ctx context.Context, phoneNumber string) (*Customer, error)
	// GetOrCreate returns the customer for the phone number, creating an
	// empty record on first contact.
	GetOrCreate(ctx context.Context, phoneNumber string) (*Customer, error)
}

// InMemoryRepository is a Repository backed by a map for tests and local dev.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byPhone map[string]*Customer
}

// NewInMemoryRepository creates an empty in-memory customer repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byPhone: make(map[string]*Customer)}
}

// GetByPhone returns the stored customer for the phone number.
func (r *InMemoryRepository) GetByPhone(ctx context.Context, phoneNumber string) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byPhone[phoneNumber]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	out := *c
	return &out, nil
}

// GetOrCreate returns the customer, creating one on first contact.
func (r *InMemoryRepository) GetOrCreate(ctx context.Context, phoneNumber string) (*Customer, error) {
	if phoneNumber == "" {
		return nil, ErrMissingPhone
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byPhone[phoneNumber]; ok {
		out := *c
		return &out, nil
	}
	c := &Customer{
		ID:          uuid.New().String(),
		PhoneNumber: phoneNumber,
		CreatedAt:   time.Now().UTC(),
	}
	r.byPhone[phoneNumber] = c
	out := *c
	return &out, nil
}
