package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aieng/conversations-api/internal/api"
	"github.com/aieng/conversations-api/internal/models"
	"github.com/aieng/conversations-api/internal/services"
	"github.com/aieng/conversations-api/internal/validation"
)

// UserService is the workflow surface the user handler depends on.
type UserService interface {
	Create(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, p services.ListParams) ([]*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Patch(ctx context.Context, id uuid.UUID, patch services.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles user-related requests.
type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// RegisterRoutes registers user routes on the given router. The router
// should already carry the /users prefix.
func (h *UserHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}", h.Patch).Methods("PATCH")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateUserRequest represents a signup request.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email,max=320"`
}

// PatchUserRequest represents a partial user update.
type PatchUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email,max=320"`
}

// Create registers a new user from a unique email address.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, user)
}

// List returns active users with pagination and sorting.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params, ok := parseListQuery(w, r, validation.UsersOrderBy)
	if !ok {
		return
	}

	users, err := h.users.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, users)
}

// Get fetches a single active user by id.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, user)
}

// Patch partially updates a user. An empty change-set returns the entity
// unchanged.
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req PatchUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Patch(r.Context(), id, services.UserPatch{Email: req.Email})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, user)
}

// Delete soft-deletes a user. Related active conversations are also soft
// deleted.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
