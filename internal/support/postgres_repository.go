package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores callback requests in postgres.
type PostgresRepository struct {
	pool querier
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("support: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q querier) *PostgresRepository {
	if q == nil {
		panic("support: querier required")
	}
	return &PostgresRepository{pool: q}
}

func (r *PostgresRepository) Create(ctx context.Context, req *CreateCallbackRequest) (*CallbackRequest, error) {
	if req.Phone == "" {
		return nil, ErrMissingPhone
	}

	historyJSON, err := json.Marshal(req.History)
	if err != nil {
		return nil, fmt.Errorf("support: encode history: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO callback_requests (id, phone, email, message, chat_history, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, req.Phone, req.Email, req.Message, historyJSON, StatusPending).
		Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("support: insert failed: %w", err)
	}

	return &CallbackRequest{
		ID:        id.String(),
		Phone:     req.Phone,
		Email:     req.Email,
		Message:   req.Message,
		History:   req.History,
		Status:    StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*CallbackRequest, error) {
	query := `
		SELECT id, phone, email, message, chat_history, status, created_at, updated_at
		FROM callback_requests
		WHERE id = $1
	`
	cb, err := scanCallback(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCallbackNotFound
		}
		return nil, fmt.Errorf("support: select failed: %w", err)
	}
	return cb, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]CallbackRequest, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, phone, email, message, chat_history, status, created_at, updated_at
		FROM callback_requests
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("support: list failed: %w", err)
	}
	defer rows.Close()

	var out []CallbackRequest
	for rows.Next() {
		cb, err := scanCallback(rows)
		if err != nil {
			return nil, fmt.Errorf("support: scan failed: %w", err)
		}
		out = append(out, *cb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("support: iterate failed: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}
	ct, err := r.pool.Exec(ctx, `UPDATE callback_requests SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("support: update status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrCallbackNotFound
	}
	return nil
}

func scanCallback(row pgx.Row) (*CallbackRequest, error) {
	var cb CallbackRequest
	var email, message *string
	var historyJSON []byte
	if err := row.Scan(
		&cb.ID,
		&cb.Phone,
		&email,
		&message,
		&historyJSON,
		&cb.Status,
		&cb.CreatedAt,
		&cb.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if email != nil {
		cb.Email = *email
	}
	if message != nil {
		cb.Message = *message
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &cb.History); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
	}
	return &cb, nil
}
