package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores customers in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("customers: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q rowQuerier) *PostgresRepository {
	if q == nil {
		panic("customers: querier required")
	}
	return &PostgresRepository{pool: q}
}

// GetByPhone fetches the customer registered under the phone number.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phoneNumber string) (*Customer, error) {
	query := `SELECT id, phone_number, name, created_at FROM customers WHERE phone_number = $1`
	var c Customer
	if err := r.pool.QueryRow(ctx, query, phoneNumber).Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("customers: select failed: %w", err)
	}
	return &c, nil
}

// GetOrCreate returns the customer, inserting an empty record on first contact.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, phoneNumber string) (*Customer, error) {
	if phoneNumber == "" {
		return nil, ErrMissingPhone
	}

	query := `
		INSERT INTO customers (id, phone_number)
		VALUES ($1, $2)
		ON CONFLICT (phone_number) DO UPDATE SET phone_number = EXCLUDED.phone_number
		RETURNING id, phone_number, name, created_at
	`
	var c Customer
	if err := r.pool.QueryRow(ctx, query, uuid.New().String(), phoneNumber).Scan(
		&c.ID, &c.PhoneNumber, &c.Name, &c.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("customers: upsert failed: %w", err)
	}
	return &c, nil
}
