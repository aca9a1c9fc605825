package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aieng/conversations-api/internal/models"
	"github.com/aieng/conversations-api/internal/services"
)

// ModelVersionRepository handles model version database operations.
type ModelVersionRepository struct {
	q querier
}

// Create inserts a new model version with a fresh id and active flag.
func (r *ModelVersionRepository) Create(ctx context.Context, provider, modelName, versionTag string) (*models.ModelVersion, error) {
	mv := &models.ModelVersion{
		ID:         uuid.New(),
		Provider:   provider,
		ModelName:  modelName,
		VersionTag: versionTag,
		IsActive:   true,
	}

	query := `
		INSERT INTO model_versions (id, provider, model_name, version_tag, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.q.QueryRowContext(ctx, query,
		mv.ID,
		mv.Provider,
		mv.ModelName,
		mv.VersionTag,
		time.Now().UTC(),
		mv.IsActive,
	).Scan(&mv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create model version: %w", err)
	}

	return mv, nil
}

// GetActiveByID retrieves an active model version, or nil when the row is
// absent or soft-deleted.
func (r *ModelVersionRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.ModelVersion, error) {
	mv := &models.ModelVersion{}
	query := `
		SELECT id, provider, model_name, version_tag, created_at, is_active
		FROM model_versions
		WHERE id = $1 AND is_active = TRUE
	`
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&mv.ID,
		&mv.Provider,
		&mv.ModelName,
		&mv.VersionTag,
		&mv.CreatedAt,
		&mv.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model version: %w", err)
	}

	return mv, nil
}

// ListActive returns active model versions within the pagination window.
func (r *ModelVersionRepository) ListActive(ctx context.Context, p services.ListParams) ([]*models.ModelVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, provider, model_name, version_tag, created_at, is_active
		FROM model_versions
		WHERE is_active = TRUE
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, modelVersionOrderClause(p.OrderBy))

	rows, err := r.q.QueryContext(ctx, query, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list model versions: %w", err)
	}
	defer rows.Close()

	versions := make([]*models.ModelVersion, 0)
	for rows.Next() {
		mv := &models.ModelVersion{}
		if err := rows.Scan(&mv.ID, &mv.Provider, &mv.ModelName, &mv.VersionTag, &mv.CreatedAt, &mv.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan model version: %w", err)
		}
		versions = append(versions, mv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate model versions: %w", err)
	}

	return versions, nil
}

// Update flushes the model version's mutable fields inside the current
// transaction.
func (r *ModelVersionRepository) Update(ctx context.Context, mv *models.ModelVersion) error {
	query := `
		UPDATE model_versions
		SET provider = $2, model_name = $3, version_tag = $4, is_active = $5
		WHERE id = $1
	`
	if _, err := r.q.ExecContext(ctx, query, mv.ID, mv.Provider, mv.ModelName, mv.VersionTag, mv.IsActive); err != nil {
		return fmt.Errorf("failed to update model version: %w", err)
	}
	return nil
}

func modelVersionOrderClause(orderBy string) string {
	switch orderBy {
	case "created_at_asc":
		return "created_at ASC"
	case "model_name_asc":
		return "model_name ASC"
	case "model_name_desc":
		return "model_name DESC"
	default:
		return "created_at DESC"
	}
}
