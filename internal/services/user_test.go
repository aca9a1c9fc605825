package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestUserCreate(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	service := NewUserService(uow)

	user, err := service.Create(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.Email != "new@example.com" {
		t.Errorf("email = %q, want new@example.com", user.Email)
	}
	if !user.IsActive {
		t.Error("user not active after create")
	}
	if user.ID == uuid.Nil {
		t.Error("user id not assigned")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	uow.repos.users.createErr = ErrEmailConflict
	service := NewUserService(uow)

	_, err := service.Create(context.Background(), "taken@example.com")
	if !errors.Is(err, ErrEmailConflict) {
		t.Errorf("Create() error = %v, want ErrEmailConflict", err)
	}
}

func TestUserGet(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	seeded := uow.repos.users.seed("a@example.com")
	deleted := uow.repos.users.seed("gone@example.com")
	deleted.IsActive = false

	service := NewUserService(uow)

	got, err := service.Get(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != seeded.ID {
		t.Errorf("Get() id = %v, want %v", got.ID, seeded.ID)
	}

	if _, err := service.Get(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrUserNotFound", err)
	}
	if _, err := service.Get(context.Background(), deleted.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Get(soft-deleted) error = %v, want ErrUserNotFound", err)
	}
}

func TestUserPatch(t *testing.T) {
	t.Parallel()

	t.Run("empty patch is a read-only no-op", func(t *testing.T) {
		t.Parallel()

		uow := newFakeUnitOfWork()
		seeded := uow.repos.users.seed("a@example.com")
		service := NewUserService(uow)

		got, err := service.Patch(context.Background(), seeded.ID, UserPatch{})
		if err != nil {
			t.Fatalf("Patch() error = %v", err)
		}
		if got.Email != "a@example.com" {
			t.Errorf("email = %q, want unchanged", got.Email)
		}
		if uow.repos.users.updateCalls != 0 {
			t.Errorf("update calls = %d, want 0 for empty patch", uow.repos.users.updateCalls)
		}
	})

	t.Run("email change is applied", func(t *testing.T) {
		t.Parallel()

		uow := newFakeUnitOfWork()
		seeded := uow.repos.users.seed("a@example.com")
		service := NewUserService(uow)

		got, err := service.Patch(context.Background(), seeded.ID, UserPatch{Email: strPtr("b@example.com")})
		if err != nil {
			t.Fatalf("Patch() error = %v", err)
		}
		if got.Email != "b@example.com" {
			t.Errorf("email = %q, want b@example.com", got.Email)
		}
		if uow.repos.users.updateCalls != 1 {
			t.Errorf("update calls = %d, want 1", uow.repos.users.updateCalls)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		uow := newFakeUnitOfWork()
		service := NewUserService(uow)

		_, err := service.Patch(context.Background(), uuid.New(), UserPatch{Email: strPtr("b@example.com")})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Patch() error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestUserDeleteCascadesToConversations(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	user := uow.repos.users.seed("a@example.com")
	other := uow.repos.users.seed("b@example.com")
	mv := uow.repos.modelVersions.seed("ollama", "llama3.2:3b", "v1")
	owned := uow.repos.conversations.seed(user.ID, mv.ID)
	unrelated := uow.repos.conversations.seed(other.ID, mv.ID)

	service := NewUserService(uow)
	if err := service.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if user.IsActive {
		t.Error("user still active after delete")
	}
	if owned.IsActive {
		t.Error("owned conversation still active after cascade")
	}
	if !unrelated.IsActive {
		t.Error("unrelated conversation was deactivated")
	}
	if len(uow.repos.conversations.deactivatedUsers) != 1 || uow.repos.conversations.deactivatedUsers[0] != user.ID {
		t.Errorf("cascade targets = %v, want [%v]", uow.repos.conversations.deactivatedUsers, user.ID)
	}

	if err := service.Delete(context.Background(), user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second Delete() error = %v, want ErrUserNotFound", err)
	}
}
