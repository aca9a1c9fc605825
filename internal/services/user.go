package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aieng/conversations-api/internal/models"
)

// UserPatch carries the caller-supplied fields of a partial user update.
// Nil means the field was not supplied.
type UserPatch struct {
	Email *string
}

// UserService implements the user lifecycle: signup, listing, partial
// update, and soft delete with conversation cascade.
type UserService struct {
	uow UnitOfWork
}

// NewUserService creates a new user service.
func NewUserService(uow UnitOfWork) *UserService {
	return &UserService{uow: uow}
}

// Create registers a new user. A duplicate email, active or soft-deleted,
// fails with ErrEmailConflict.
func (s *UserService) Create(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := s.uow.Do(ctx, func(r Repositories) error {
		created, err := r.Users().Create(ctx, email)
		if err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns active users within the requested window.
func (s *UserService) List(ctx context.Context, p ListParams) ([]*models.User, error) {
	var users []*models.User
	err := s.uow.Do(ctx, func(r Repositories) error {
		listed, err := r.Users().ListActive(ctx, p)
		if err != nil {
			return err
		}
		users = listed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns an active user or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := s.uow.Do(ctx, func(r Repositories) error {
		found, err := getActiveUser(ctx, r, id)
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Patch applies the supplied fields to an active user. An empty patch is a
// no-op that returns the unmodified row.
func (s *UserService) Patch(ctx context.Context, id uuid.UUID, patch UserPatch) (*models.User, error) {
	var user *models.User
	err := s.uow.Do(ctx, func(r Repositories) error {
		found, err := getActiveUser(ctx, r, id)
		if err != nil {
			return err
		}
		user = found

		if patch.Email == nil {
			return nil
		}
		user.Email = *patch.Email
		return r.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft-deletes a user and every active conversation the user owns,
// atomically in one transaction.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(r Repositories) error {
		user, err := getActiveUser(ctx, r, id)
		if err != nil {
			return err
		}

		user.IsActive = false
		if err := r.Users().Update(ctx, user); err != nil {
			return err
		}
		return r.Conversations().DeactivateByUserID(ctx, id)
	})
}

func getActiveUser(ctx context.Context, r Repositories, id uuid.UUID) (*models.User, error) {
	user, err := r.Users().GetActiveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
