package customers

import (
	"context"
	"testing"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "919812345678")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	second, err := repo.GetOrCreate(ctx, "919812345678")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected stable customer id, got %s then %s", first.ID, second.ID)
	}
}

func TestGetByPhoneMissing(t *testing.T) {
	repo := NewInMemoryRepository()
	if _, err := repo.GetByPhone(context.Background(), "910000000000"); err != ErrCustomerNotFound {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestGetOrCreateRequiresPhone(t *testing.T) {
	repo := NewInMemoryRepository()
	if _, err := repo.GetOrCreate(context.Background(), ""); err != ErrMissingPhone {
		t.Fatalf("expected ErrMissingPhone, got %v", err)
	}
}
