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

// ConversationService is the workflow surface the conversation handler
// depends on.
type ConversationService interface {
	Create(ctx context.Context, payload services.ConversationCreate) (*models.Conversation, error)
	List(ctx context.Context, p services.ConversationListParams) ([]*models.Conversation, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	Patch(ctx context.Context, id uuid.UUID, patch services.ConversationPatch) (*models.Conversation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ConversationHandler handles conversation requests.
type ConversationHandler struct {
	conversations ConversationService
	logger        *zap.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(conversations ConversationService, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, logger: logger}
}

// RegisterRoutes registers conversation routes on the given router.
func (h *ConversationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}", h.Patch).Methods("PATCH")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateConversationRequest represents a conversation create request. A
// missing or blank response triggers generation through the model version's
// provider; a non-blank response is persisted verbatim.
type CreateConversationRequest struct {
	UserID         uuid.UUID `json:"user_id" validate:"required"`
	ModelVersionID uuid.UUID `json:"model_version_id" validate:"required"`
	Prompt         string    `json:"prompt" validate:"required,min=1"`
	Response       *string   `json:"response" validate:"omitempty,min=1"`
	Temperature    *float64  `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	TopP           *float64  `json:"top_p" validate:"omitempty,gte=0,lte=1"`
	MaxTokens      *int      `json:"max_tokens" validate:"omitempty,gte=1"`
	InputTokens    *int      `json:"input_tokens" validate:"omitempty,gte=0"`
	OutputTokens   *int      `json:"output_tokens" validate:"omitempty,gte=0"`
	TotalTokens    *int      `json:"total_tokens" validate:"omitempty,gte=0"`
	LatencyMS      *int      `json:"latency_ms" validate:"omitempty,gte=0"`
}

// PatchConversationRequest represents a partial conversation update.
type PatchConversationRequest struct {
	UserID         *uuid.UUID `json:"user_id"`
	ModelVersionID *uuid.UUID `json:"model_version_id"`
	Prompt         *string    `json:"prompt" validate:"omitempty,min=1"`
	Response       *string    `json:"response" validate:"omitempty,min=1"`
	Temperature    *float64   `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	TopP           *float64   `json:"top_p" validate:"omitempty,gte=0,lte=1"`
	MaxTokens      *int       `json:"max_tokens" validate:"omitempty,gte=1"`
	InputTokens    *int       `json:"input_tokens" validate:"omitempty,gte=0"`
	OutputTokens   *int       `json:"output_tokens" validate:"omitempty,gte=0"`
	TotalTokens    *int       `json:"total_tokens" validate:"omitempty,gte=0"`
	LatencyMS      *int       `json:"latency_ms" validate:"omitempty,gte=0"`
}

// Create creates a conversation linked to an existing user and model
// version, generating the response when none was supplied.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	conversation, err := h.conversations.Create(r.Context(), services.ConversationCreate{
		UserID:         req.UserID,
		ModelVersionID: req.ModelVersionID,
		Prompt:         req.Prompt,
		Response:       req.Response,
		Temperature:    req.Temperature,
		TopP:           req.TopP,
		MaxTokens:      req.MaxTokens,
		InputTokens:    req.InputTokens,
		OutputTokens:   req.OutputTokens,
		TotalTokens:    req.TotalTokens,
		LatencyMS:      req.LatencyMS,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, conversation)
}

// List returns active conversations with optional user filter, pagination,
// and sorting.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	params, ok := parseListQuery(w, r, validation.ConversationsOrderBy)
	if !ok {
		return
	}

	listParams := services.ConversationListParams{ListParams: params}
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			api.WriteError(w, http.StatusUnprocessableEntity, "Request validation failed",
				[]api.ValidationIssue{{Field: "user_id", Message: "must be a valid uuid"}})
			return
		}
		listParams.UserID = &userID
	}

	conversations, err := h.conversations.List(r.Context(), listParams)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, conversations)
}

// Get fetches a single active conversation by id.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conversation, err := h.conversations.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, conversation)
}

// Patch partially updates a conversation. Changed references are
// re-validated against active rows before anything is applied.
func (h *ConversationHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req PatchConversationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	conversation, err := h.conversations.Patch(r.Context(), id, services.ConversationPatch{
		UserID:         req.UserID,
		ModelVersionID: req.ModelVersionID,
		Prompt:         req.Prompt,
		Response:       req.Response,
		Temperature:    req.Temperature,
		TopP:           req.TopP,
		MaxTokens:      req.MaxTokens,
		InputTokens:    req.InputTokens,
		OutputTokens:   req.OutputTokens,
		TotalTokens:    req.TotalTokens,
		LatencyMS:      req.LatencyMS,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, conversation)
}

// Delete soft-deletes a conversation.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.conversations.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
