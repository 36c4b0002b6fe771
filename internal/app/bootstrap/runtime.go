package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/citimaster/booking-platform/internal/config"
	"github.com/citimaster/booking-platform/internal/customers"
	"github.com/citimaster/booking-platform/internal/events"
	"github.com/citimaster/booking-platform/internal/leads"
	"github.com/citimaster/booking-platform/internal/messaging"
	"github.com/citimaster/booking-platform/internal/support"
	"github.com/citimaster/booking-platform/internal/vendors"
	"github.com/citimaster/booking-platform/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildDatabasePool opens a pgx pool when DATABASE_URL is set. Returns
// nil with no error when the URL is empty so callers can fall back to
// in-memory repositories for local development.
func BuildDatabasePool(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping database: %w", err)
	}
	if logger != nil {
		logger.Info("database pool ready")
	}
	return pool, nil
}

// Repositories bundles the persistence layer shared by the API and the
// worker binaries.
type Repositories struct {
	Customers customers.Repository
	Vendors   vendors.Repository
	Leads     leads.Repository
	Callbacks support.Repository

	// Postgres-only collaborators; nil when running in-memory.
	Messages  *messaging.Store
	Processed *events.ProcessedStore
}

// BuildRepositories selects Postgres-backed repositories when a pool is
// available and in-memory ones otherwise.
func BuildRepositories(pool *pgxpool.Pool, logger *logging.Logger) *Repositories {
	if pool == nil {
		if logger != nil {
			logger.Warn("no database configured; using in-memory repositories")
		}
		return &Repositories{
			Customers: customers.NewInMemoryRepository(),
			Vendors:   vendors.NewInMemoryRepository(),
			Leads:     leads.NewInMemoryRepository(),
			Callbacks: support.NewInMemoryRepository(),
		}
	}
	return &Repositories{
		Customers: customers.NewPostgresRepository(pool),
		Vendors:   vendors.NewPostgresRepository(pool),
		Leads:     leads.NewPostgresRepository(pool),
		Callbacks: support.NewPostgresRepository(pool),
		Messages:  messaging.NewStore(pool),
		Processed: events.NewProcessedStore(pool),
	}
}
