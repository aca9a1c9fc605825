package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aieng/conversations-api/internal/models"
)

// ModelVersionPatch carries the caller-supplied fields of a partial model
// version update. Nil means the field was not supplied.
type ModelVersionPatch struct {
	Provider   *string
	ModelName  *string
	VersionTag *string
}

// ModelVersionService implements the model version lifecycle.
type ModelVersionService struct {
	uow UnitOfWork
}

// NewModelVersionService creates a new model version service.
func NewModelVersionService(uow UnitOfWork) *ModelVersionService {
	return &ModelVersionService{uow: uow}
}

// Create registers a provider/model/version triple.
func (s *ModelVersionService) Create(ctx context.Context, provider, modelName, versionTag string) (*models.ModelVersion, error) {
	var mv *models.ModelVersion
	err := s.uow.Do(ctx, func(r Repositories) error {
		created, err := r.ModelVersions().Create(ctx, provider, modelName, versionTag)
		if err != nil {
			return err
		}
		mv = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// List returns active model versions within the requested window.
func (s *ModelVersionService) List(ctx context.Context, p ListParams) ([]*models.ModelVersion, error) {
	var versions []*models.ModelVersion
	err := s.uow.Do(ctx, func(r Repositories) error {
		listed, err := r.ModelVersions().ListActive(ctx, p)
		if err != nil {
			return err
		}
		versions = listed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// Get returns an active model version or ErrModelVersionNotFound.
func (s *ModelVersionService) Get(ctx context.Context, id uuid.UUID) (*models.ModelVersion, error) {
	var mv *models.ModelVersion
	err := s.uow.Do(ctx, func(r Repositories) error {
		found, err := getActiveModelVersion(ctx, r, id)
		if err != nil {
			return err
		}
		mv = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// Patch applies the supplied fields to an active model version. An empty
// patch is a no-op.
func (s *ModelVersionService) Patch(ctx context.Context, id uuid.UUID, patch ModelVersionPatch) (*models.ModelVersion, error) {
	var mv *models.ModelVersion
	err := s.uow.Do(ctx, func(r Repositories) error {
		found, err := getActiveModelVersion(ctx, r, id)
		if err != nil {
			return err
		}
		mv = found

		if patch.Provider == nil && patch.ModelName == nil && patch.VersionTag == nil {
			return nil
		}
		if patch.Provider != nil {
			mv.Provider = *patch.Provider
		}
		if patch.ModelName != nil {
			mv.ModelName = *patch.ModelName
		}
		if patch.VersionTag != nil {
			mv.VersionTag = *patch.VersionTag
		}
		return r.ModelVersions().Update(ctx, mv)
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// Delete soft-deletes a model version and every active conversation that
// references it, atomically in one transaction.
func (s *ModelVersionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(r Repositories) error {
		mv, err := getActiveModelVersion(ctx, r, id)
		if err != nil {
			return err
		}

		mv.IsActive = false
		if err := r.ModelVersions().Update(ctx, mv); err != nil {
			return err
		}
		return r.Conversations().DeactivateByModelVersionID(ctx, id)
	})
}

func getActiveModelVersion(ctx context.Context, r Repositories, id uuid.UUID) (*models.ModelVersion, error) {
	mv, err := r.ModelVersions().GetActiveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up model version: %w", err)
	}
	if mv == nil {
		return nil, ErrModelVersionNotFound
	}
	return mv, nil
}
