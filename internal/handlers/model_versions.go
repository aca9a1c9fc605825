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

// ModelVersionService is the workflow surface the model version handler
// depends on.
type ModelVersionService interface {
	Create(ctx context.Context, provider, modelName, versionTag string) (*models.ModelVersion, error)
	List(ctx context.Context, p services.ListParams) ([]*models.ModelVersion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ModelVersion, error)
	Patch(ctx context.Context, id uuid.UUID, patch services.ModelVersionPatch) (*models.ModelVersion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ModelVersionHandler handles model version requests.
type ModelVersionHandler struct {
	versions ModelVersionService
	logger   *zap.Logger
}

// NewModelVersionHandler creates a new model version handler.
func NewModelVersionHandler(versions ModelVersionService, logger *zap.Logger) *ModelVersionHandler {
	return &ModelVersionHandler{versions: versions, logger: logger}
}

// RegisterRoutes registers model version routes on the given router.
func (h *ModelVersionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}", h.Patch).Methods("PATCH")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateModelVersionRequest represents a model version create request.
type CreateModelVersionRequest struct {
	Provider   string `json:"provider" validate:"required,min=1,max=128"`
	ModelName  string `json:"model_name" validate:"required,min=1,max=128"`
	VersionTag string `json:"version_tag" validate:"required,min=1,max=128"`
}

// PatchModelVersionRequest represents a partial model version update.
type PatchModelVersionRequest struct {
	Provider   *string `json:"provider" validate:"omitempty,min=1,max=128"`
	ModelName  *string `json:"model_name" validate:"omitempty,min=1,max=128"`
	VersionTag *string `json:"version_tag" validate:"omitempty,min=1,max=128"`
}

// Create registers a provider/model/version triple.
func (h *ModelVersionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateModelVersionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	mv, err := h.versions.Create(r.Context(), req.Provider, req.ModelName, req.VersionTag)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mv)
}

// List returns active model versions with pagination and sorting.
func (h *ModelVersionHandler) List(w http.ResponseWriter, r *http.Request) {
	params, ok := parseListQuery(w, r, validation.ModelVersionsOrderBy)
	if !ok {
		return
	}

	versions, err := h.versions.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, versions)
}

// Get fetches a single active model version by id.
func (h *ModelVersionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	mv, err := h.versions.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mv)
}

// Patch partially updates a model version.
func (h *ModelVersionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req PatchModelVersionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	mv, err := h.versions.Patch(r.Context(), id, services.ModelVersionPatch{
		Provider:   req.Provider,
		ModelName:  req.ModelName,
		VersionTag: req.VersionTag,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mv)
}

// Delete soft-deletes a model version. Related active conversations are
// also soft deleted.
func (h *ModelVersionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.versions.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
