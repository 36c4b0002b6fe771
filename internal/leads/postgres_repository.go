package leads

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

// PostgresRepository stores leads and assignments in the relational database.
type PostgresRepository struct {
	pool pgxIface
}

type pgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithIface(p pgxIface) *PostgresRepository {
	if p == nil {
		panic("leads: pgx iface required")
	}
	return &PostgresRepository{pool: p}
}

// Create inserts a new lead row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	addressJSON, err := json.Marshal(req.Address)
	if err != nil {
		return nil, fmt.Errorf("leads: encode address: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, customer_id, phone, category, subcategory, address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.CustomerID,
		req.Phone,
		req.Category,
		req.Subcategory,
		addressJSON,
		StatusPending,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:          id.String(),
		CustomerID:  req.CustomerID,
		Phone:       req.Phone,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Address:     req.Address,
		Status:      StatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// GetByID fetches a lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT id, customer_id, phone, category, subcategory, address, slot, status, created_at, updated_at
		FROM leads
		WHERE id = $1
	`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// SetSlot records the requested service slot on the lead.
func (r *PostgresRepository) SetSlot(ctx context.Context, id, slot string) error {
	ct, err := r.pool.Exec(ctx, `UPDATE leads SET slot = $2, updated_at = now() WHERE id = $1`, id, slot)
	if err != nil {
		return fmt.Errorf("leads: set slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UpdateStatus moves the lead to a new lifecycle status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	ct, err := r.pool.Exec(ctx, `UPDATE leads SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("leads: update status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// ListRecent returns the newest leads first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, customer_id, phone, category, subcategory, address, slot, status, created_at, updated_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: iterate failed: %w", err)
	}
	return out, nil
}

// CountActive counts leads in a pre-completion status.
func (r *PostgresRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM leads WHERE status IN ($1, $2, $3)`
	if err := r.pool.QueryRow(ctx, query, StatusPending, StatusAssigned, StatusAccepted).Scan(&n); err != nil {
		return 0, fmt.Errorf("leads: count active failed: %w", err)
	}
	return n, nil
}

// CountCompletedSince counts leads completed at or after the given time.
func (r *PostgresRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM leads WHERE status = $1 AND updated_at >= $2`
	if err := r.pool.QueryRow(ctx, query, StatusCompleted, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("leads: count completed failed: %w", err)
	}
	return n, nil
}

// CreateAssignment binds a lead to a vendor and marks the lead assigned, in
// one transaction.
func (r *PostgresRepository) CreateAssignment(ctx context.Context, leadID, vendorID string, matchScore float64) (*Assignment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("leads: begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.New()
	var createdAt time.Time
	insert := `
		INSERT INTO assignments (id, lead_id, vendor_id, match_score, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := tx.QueryRow(ctx, insert, id, leadID, vendorID, matchScore, StatusPending).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert assignment failed: %w", err)
	}

	update := `UPDATE leads SET status = $2, updated_at = now() WHERE id = $1`
	ct, err := tx.Exec(ctx, update, leadID, StatusAssigned)
	if err != nil {
		return nil, fmt.Errorf("leads: mark assigned failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrLeadNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("leads: commit failed: %w", err)
	}

	return &Assignment{
		ID:         id.String(),
		LeadID:     leadID,
		VendorID:   vendorID,
		MatchScore: matchScore,
		Status:     StatusPending,
		CreatedAt:  createdAt,
	}, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	var addressJSON []byte
	var slot *string
	if err := row.Scan(
		&l.ID,
		&l.CustomerID,
		&l.Phone,
		&l.Category,
		&l.Subcategory,
		&addressJSON,
		&slot,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(addressJSON) > 0 {
		if err := json.Unmarshal(addressJSON, &l.Address); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
	}
	if slot != nil {
		l.Slot = *slot
	}
	return &l, nil
}
