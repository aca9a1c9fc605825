// Package services implements the workflow layer between the HTTP handlers
// and the persistence/LLM collaborators. Services depend on the repository
// interfaces below so tests can run against in-memory fakes.
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aieng/conversations-api/internal/models"
)

// ListParams is the pagination/sort window for list operations. Values are
// validated at the HTTP boundary; repositories may assume they are in range.
// An order-by value outside the entity's whitelist falls back to newest
// first.
type ListParams struct {
	Limit   int
	Offset  int
	OrderBy string
}

// ConversationListParams adds the optional owning-user filter.
type ConversationListParams struct {
	ListParams
	UserID *uuid.UUID
}

// UserRepository is the data access contract for users. GetActiveByID
// returns (nil, nil) when the row is absent or soft-deleted.
type UserRepository interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListActive(ctx context.Context, p ListParams) ([]*models.User, error)
	Create(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// ModelVersionRepository is the data access contract for model versions.
type ModelVersionRepository interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.ModelVersion, error)
	ListActive(ctx context.Context, p ListParams) ([]*models.ModelVersion, error)
	Create(ctx context.Context, provider, modelName, versionTag string) (*models.ModelVersion, error)
	Update(ctx context.Context, mv *models.ModelVersion) error
}

// ConversationRepository is the data access contract for conversations.
// Create assigns the id, creation timestamp and active flag on the passed
// struct. The Deactivate methods implement the soft-delete cascades.
type ConversationRepository interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListActive(ctx context.Context, p ConversationListParams) ([]*models.Conversation, error)
	Create(ctx context.Context, c *models.Conversation) error
	Update(ctx context.Context, c *models.Conversation) error
	DeactivateByUserID(ctx context.Context, userID uuid.UUID) error
	DeactivateByModelVersionID(ctx context.Context, modelVersionID uuid.UUID) error
}

// Repositories bundles the per-entity repositories bound to one transaction.
type Repositories interface {
	Users() UserRepository
	ModelVersions() ModelVersionRepository
	Conversations() ConversationRepository
}

// UnitOfWork runs fn inside a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise, so a multi-step
// write (entity creation plus cascading soft-deletes) is atomic and a failed
// workflow leaves zero rows behind.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Repositories) error) error
}
