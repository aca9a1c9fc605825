// Package database is the Postgres implementation of the repository
// contracts in the services package. Repositories never commit: they run
// against the transaction owned by the unit of work so multi-step writes
// stay atomic.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/aieng/conversations-api/internal/services"
)

// DB wraps the connection pool and implements services.UnitOfWork.
type DB struct {
	pool *sql.DB
}

var _ services.UnitOfWork = (*DB)(nil)

// New opens a Postgres connection pool and verifies connectivity.
func New(databaseURL string) (*DB, error) {
	pool, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.pool.Close()
}

// Ping verifies the database is reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.PingContext(ctx)
}

// querier is satisfied by *sql.Tx and *sql.DB.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Do runs fn inside a single transaction, committing on nil and rolling
// back on error or panic.
func (db *DB) Do(ctx context.Context, fn func(services.Repositories) error) error {
	tx, err := db.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&repositories{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// repositories bundles the per-entity repositories bound to one transaction.
type repositories struct {
	q querier
}

var _ services.Repositories = (*repositories)(nil)

func (r *repositories) Users() services.UserRepository {
	return &UserRepository{q: r.q}
}

func (r *repositories) ModelVersions() services.ModelVersionRepository {
	return &ModelVersionRepository{q: r.q}
}

func (r *repositories) Conversations() services.ConversationRepository {
	return &ConversationRepository{q: r.q}
}
