package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/aieng/conversations-api/internal/models"
	"github.com/aieng/conversations-api/internal/services"
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// UserRepository handles user database operations.
type UserRepository struct {
	q querier
}

// Create inserts a new user with a fresh id and active flag. A duplicate
// email, whether the existing row is active or soft-deleted, fails with
// services.ErrEmailConflict because uniqueness is a storage-level
// constraint.
func (r *UserRepository) Create(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		IsActive: true,
	}

	query := `
		INSERT INTO users (id, email, created_at, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.q.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		time.Now().UTC(),
		user.IsActive,
	).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.ErrEmailConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetActiveByID retrieves an active user, or nil when the row is absent or
// soft-deleted.
func (r *UserRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, created_at, is_active
		FROM users
		WHERE id = $1 AND is_active = TRUE
	`
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.CreatedAt,
		&user.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ListActive returns active users within the pagination window.
func (r *UserRepository) ListActive(ctx context.Context, p services.ListParams) ([]*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, created_at, is_active
		FROM users
		WHERE is_active = TRUE
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, userOrderClause(p.OrderBy))

	rows, err := r.q.QueryContext(ctx, query, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.CreatedAt, &user.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Update flushes the user's mutable fields inside the current transaction.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $2, is_active = $3
		WHERE id = $1
	`
	if _, err := r.q.ExecContext(ctx, query, user.ID, user.Email, user.IsActive); err != nil {
		if isUniqueViolation(err) {
			return services.ErrEmailConflict
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// userOrderClause maps a whitelisted order_by value onto a SQL clause.
// Unknown values fall back to newest first; values are validated at the
// HTTP boundary so the fallback is a safety net, not a contract.
func userOrderClause(orderBy string) string {
	switch orderBy {
	case "created_at_asc":
		return "created_at ASC"
	case "email_asc":
		return "email ASC"
	case "email_desc":
		return "email DESC"
	default:
		return "created_at DESC"
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
