package vendors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores vendors in the relational database.
type PostgresRepository struct {
	pool querier
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("vendors: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q querier) *PostgresRepository {
	if q == nil {
		panic("vendors: querier required")
	}
	return &PostgresRepository{pool: q}
}

const vendorColumns = `id, phone_number, business_name, owner_name, categories, subcategories,
	service_areas, lat, lng, rating, total_ratings, acceptance_rate, price_tier, is_active, created_at`

// Create inserts a new vendor row.
func (r *PostgresRepository) Create(ctx context.Context, vendor *Vendor) (*Vendor, error) {
	if vendor.BusinessName == "" {
		return nil, ErrMissingBusinessName
	}
	if vendor.PhoneNumber == "" {
		return nil, ErrMissingPhone
	}

	id := vendor.ID
	if id == "" {
		id = uuid.New().String()
	}

	var lat, lng *float64
	if vendor.HasLocation {
		lat, lng = &vendor.Location.Lat, &vendor.Location.Lng
	}

	query := `
		INSERT INTO vendors (id, phone_number, business_name, owner_name, categories,
			subcategories, service_areas, lat, lng, rating, total_ratings,
			acceptance_rate, price_tier, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		vendor.PhoneNumber,
		vendor.BusinessName,
		vendor.OwnerName,
		vendor.Categories,
		vendor.Subcategories,
		vendor.ServiceAreas,
		lat,
		lng,
		vendor.Rating,
		vendor.TotalRatings,
		vendor.AcceptanceRate,
		vendor.PriceTier,
		vendor.IsActive,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("vendors: insert failed: %w", err)
	}

	out := *vendor
	out.ID = id
	out.CreatedAt = createdAt
	return &out, nil
}

// GetByPhone fetches the vendor registered under the phone number.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phoneNumber string) (*Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE phone_number = $1`
	vendor, err := scanVendor(r.pool.QueryRow(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("vendors: select failed: %w", err)
	}
	return vendor, nil
}

// Query returns the vendor pool matching category, subcategory and service area.
func (r *PostgresRepository) Query(ctx context.Context, category, subcategory, postalCode string, activeOnly bool) ([]Vendor, error) {
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE $1 = ANY(categories)
		  AND $2 = ANY(subcategories)
		  AND $3 = ANY(service_areas)
		  AND (NOT $4 OR is_active)
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, category, subcategory, postalCode, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("vendors: query failed: %w", err)
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("vendors: scan failed: %w", err)
		}
		out = append(out, *vendor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vendors: iterate failed: %w", err)
	}
	return out, nil
}

// CountActive returns the number of active vendors.
func (r *PostgresRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vendors WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("vendors: count failed: %w", err)
	}
	return n, nil
}

func scanVendor(row pgx.Row) (*Vendor, error) {
	var v Vendor
	var lat, lng *float64
	if err := row.Scan(
		&v.ID,
		&v.PhoneNumber,
		&v.BusinessName,
		&v.OwnerName,
		&v.Categories,
		&v.Subcategories,
		&v.ServiceAreas,
		&lat,
		&lng,
		&v.Rating,
		&v.TotalRatings,
		&v.AcceptanceRate,
		&v.PriceTier,
		&v.IsActive,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		v.Location.Lat = *lat
		v.Location.Lng = *lng
		v.HasLocation = true
	}
	return &v, nil
}
