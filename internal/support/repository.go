package support

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository stores callback requests.
type Repository interface {
	Create(ctx context.Context, req *CreateCallbackRequest) (*CallbackRequest, error)
	GetByID(ctx context.Context, id string) (*CallbackRequest, error)
	ListRecent(ctx context.Context, limit int) ([]CallbackRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusContacted, StatusResolved:
		return true
	}
	return false
}

// InMemoryRepository keeps callback requests in memory for tests and
// local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	requests map[string]*CallbackRequest
}

// NewInMemoryRepository builds an empty in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{requests: make(map[string]*CallbackRequest)}
}

func (r *InMemoryRepository) Create(_ context.Context, req *CreateCallbackRequest) (*CallbackRequest, error) {
	if req.Phone == "" {
		return nil, ErrMissingPhone
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	cb := &CallbackRequest{
		ID:        uuid.NewString(),
		Phone:     req.Phone,
		Email:     req.Email,
		Message:   req.Message,
		History:   req.History,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.requests[cb.ID] = cb

	out := *cb
	return &out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*CallbackRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cb, ok := r.requests[id]
	if !ok {
		return nil, ErrCallbackNotFound
	}
	out := *cb
	return &out, nil
}

func (r *InMemoryRepository) ListRecent(_ context.Context, limit int) ([]CallbackRequest, error) {
	if limit <= 0 {
		limit = 10
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CallbackRequest, 0, len(r.requests))
	for _, cb := range r.requests {
		out = append(out, *cb)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.requests[id]
	if !ok {
		return ErrCallbackNotFound
	}
	cb.Status = status
	cb.UpdatedAt = time.Now().UTC()
	return nil
}
