package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Message directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Message is one logged WhatsApp message.
type Message struct {
	ID                string    `json:"id"`
	Phone             string    `json:"phone"`
	Direction         string    `json:"direction"`
	Body              string    `json:"body"`
	ProviderMessageID string    `json:"providerMessageId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type storeQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store logs message traffic to postgres for the admin dashboard.
type Store struct {
	pool storeQuerier
}

// NewStore builds a message log over pgxpool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("messaging: pgx pool required")
	}
	return &Store{pool: pool}
}

func newStoreWithQuerier(q storeQuerier) *Store {
	if q == nil {
		panic("messaging: querier required")
	}
	return &Store{pool: q}
}

// LogInbound records a customer message.
func (s *Store) LogInbound(ctx context.Context, phone, messageID, body string) error {
	return s.insert(ctx, phone, DirectionInbound, body, messageID)
}

// LogOutbound records a platform message.
func (s *Store) LogOutbound(ctx context.Context, phone, body string) error {
	return s.insert(ctx, phone, DirectionOutbound, body, "")
}

func (s *Store) insert(ctx context.Context, phone, direction, body, providerMessageID string) error {
	query := `
		INSERT INTO messages (id, phone, direction, body, provider_message_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	`
	if _, err := s.pool.Exec(ctx, query, uuid.New(), phone, direction, body, providerMessageID); err != nil {
		return fmt.Errorf("messaging: log message: %w", err)
	}
	return nil
}

// CountTotal returns the number of logged messages.
func (s *Store) CountTotal(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("messaging: count messages: %w", err)
	}
	return n, nil
}

// ListRecent returns the newest messages for a phone number.
func (s *Store) ListRecent(ctx context.Context, phone string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, phone, direction, body, provider_message_id, created_at
		FROM messages
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("messaging: list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var providerID *string
		if err := rows.Scan(&m.ID, &m.Phone, &m.Direction, &m.Body, &providerID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("messaging: scan message: %w", err)
		}
		if providerID != nil {
			m.ProviderMessageID = *providerID
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("messaging: iterate messages: %w", err)
	}
	return out, nil
}
