package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead and assignment storage.
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	SetSlot(ctx context.Context, id, slot string) error
	UpdateStatus(ctx context.Context, id, status string) error
	ListRecent(ctx context.Context, limit int) ([]Lead, error)
	CountActive(ctx context.Context) (int, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int, error)
	CreateAssignment(ctx context.Context, leadID, vendorID string, matchScore float64) (*Assignment, error)
}

// InMemoryRepository is a Repository backed by maps, used in tests and local
// development without Postgres.
type InMemoryRepository struct {
	mu          sync.RWMutex
	leads       map[string]*Lead
	assignments map[string]*Assignment
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads:       make(map[string]*Lead),
		assignments: make(map[string]*Assignment),
	}
}

// Create creates a new lead in memory.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lead := &Lead{
		ID:          uuid.New().String(),
		CustomerID:  req.CustomerID,
		Phone:       req.Phone,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Address:     req.Address,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	out := *lead
	return &out, nil
}

// GetByID retrieves a lead by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	out := *lead
	return &out, nil
}

// SetSlot records the requested service slot on the lead.
func (r *InMemoryRepository) SetSlot(ctx context.Context, id, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	lead.Slot = slot
	lead.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStatus moves the lead to a new lifecycle status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	lead.Status = status
	lead.UpdatedAt = time.Now().UTC()
	return nil
}

// ListRecent returns the newest leads first.
func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int) ([]Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountActive counts leads in a pre-completion status.
func (r *InMemoryRepository) CountActive(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, l := range r.leads {
		switch l.Status {
		case StatusPending, StatusAssigned, StatusAccepted:
			n++
		}
	}
	return n, nil
}

// CountCompletedSince counts leads completed at or after the given time.
func (r *InMemoryRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, l := range r.leads {
		if l.Status == StatusCompleted && !l.UpdatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// CreateAssignment binds a lead to a vendor and marks the lead assigned.
func (r *InMemoryRepository) CreateAssignment(ctx context.Context, leadID, vendorID string, matchScore float64) (*Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[leadID]
	if !ok {
		return nil, ErrLeadNotFound
	}

	a := &Assignment{
		ID:         uuid.New().String(),
		LeadID:     leadID,
		VendorID:   vendorID,
		MatchScore: matchScore,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	r.assignments[a.ID] = a
	lead.Status = StatusAssigned
	lead.UpdatedAt = time.Now().UTC()

	out := *a
	return &out, nil
}
