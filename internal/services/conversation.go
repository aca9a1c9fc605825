package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aieng/conversations-api/internal/models"
	"github.com/aieng/conversations-api/internal/services/llm"
)

// ConversationCreate carries the fields of a conversation create request.
// Response is optional: absent or blank means the workflow must generate one
// through the model version's provider before persisting.
type ConversationCreate struct {
	UserID         uuid.UUID
	ModelVersionID uuid.UUID
	Prompt         string
	Response       *string
	Temperature    *float64
	TopP           *float64
	MaxTokens      *int
	InputTokens    *int
	OutputTokens   *int
	TotalTokens    *int
	LatencyMS      *int
}

// ConversationPatch carries the caller-supplied fields of a partial update.
// Nil means the field was not supplied.
type ConversationPatch struct {
	UserID         *uuid.UUID
	ModelVersionID *uuid.UUID
	Prompt         *string
	Response       *string
	Temperature    *float64
	TopP           *float64
	MaxTokens      *int
	InputTokens    *int
	OutputTokens   *int
	TotalTokens    *int
	LatencyMS      *int
}

func (p ConversationPatch) isEmpty() bool {
	return p.UserID == nil && p.ModelVersionID == nil && p.Prompt == nil &&
		p.Response == nil && p.Temperature == nil && p.TopP == nil &&
		p.MaxTokens == nil && p.InputTokens == nil && p.OutputTokens == nil &&
		p.TotalTokens == nil && p.LatencyMS == nil
}

// ConversationService orchestrates reference validation, conditional LLM
// invocation, error translation, and persistence for conversations.
type ConversationService struct {
	uow       UnitOfWork
	providers *llm.Registry
}

// NewConversationService creates a new conversation service.
func NewConversationService(uow UnitOfWork, providers *llm.Registry) *ConversationService {
	return &ConversationService{uow: uow, providers: providers}
}

// Create validates both references, generates a response when none was
// supplied, and persists the conversation. The whole workflow runs in one
// transaction: any failure before the commit leaves zero rows written.
func (s *ConversationService) Create(ctx context.Context, payload ConversationCreate) (*models.Conversation, error) {
	var conversation *models.Conversation
	err := s.uow.Do(ctx, func(r Repositories) error {
		user, err := getActiveUser(ctx, r, payload.UserID)
		if err != nil {
			return err
		}

		modelVersion, err := getActiveModelVersion(ctx, r, payload.ModelVersionID)
		if err != nil {
			return err
		}

		conversation = &models.Conversation{
			UserID:         user.ID,
			ModelVersionID: modelVersion.ID,
			Prompt:         payload.Prompt,
			Temperature:    payload.Temperature,
			TopP:           payload.TopP,
			MaxTokens:      payload.MaxTokens,
			InputTokens:    payload.InputTokens,
			OutputTokens:   payload.OutputTokens,
			TotalTokens:    payload.TotalTokens,
			LatencyMS:      payload.LatencyMS,
		}

		if payload.Response != nil && strings.TrimSpace(*payload.Response) != "" {
			// Supplied responses are persisted verbatim; the adapter is
			// never invoked.
			conversation.Response = *payload.Response
		} else {
			result, err := s.generate(ctx, modelVersion, payload)
			if err != nil {
				return err
			}
			conversation.Response = result.Response
			conversation.InputTokens = result.InputTokens
			conversation.OutputTokens = result.OutputTokens
			conversation.TotalTokens = result.TotalTokens
			conversation.LatencyMS = result.LatencyMS
		}

		return r.Conversations().Create(ctx, conversation)
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// generate resolves the model version's provider and runs the completion.
// Provider resolution happens before any network I/O so an unsupported
// provider never triggers an outbound call.
func (s *ConversationService) generate(ctx context.Context, mv *models.ModelVersion, payload ConversationCreate) (*llm.GenerationResult, error) {
	provider, err := s.providers.Get(mv.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotSupported, mv.Provider)
	}

	result, err := provider.Generate(ctx, llm.GenerationRequest{
		Model:       mv.ModelName,
		Prompt:      payload.Prompt,
		Temperature: payload.Temperature,
		TopP:        payload.TopP,
		MaxTokens:   payload.MaxTokens,
	})
	if err != nil {
		var notFound *llm.ProviderNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrProviderNotSupported, notFound.Name)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return result, nil
}

// List returns active conversations, optionally filtered by owning user.
func (s *ConversationService) List(ctx context.Context, p ConversationListParams) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	err := s.uow.Do(ctx, func(r Repositories) error {
		listed, err := r.Conversations().ListActive(ctx, p)
		if err != nil {
			return err
		}
		conversations = listed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// Get returns an active conversation or ErrConversationNotFound.
func (s *ConversationService) Get(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation *models.Conversation
	err := s.uow.Do(ctx, func(r Repositories) error {
		found, err := getActiveConversation(ctx, r, id)
		if err != nil {
			return err
		}
		conversation = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// Patch applies the supplied fields to an active conversation. A changed
// user or model-version reference is re-validated against an active row
// before anything is applied; all supplied fields land atomically. An empty
// patch is a no-op that returns the unmodified row.
func (s *ConversationService) Patch(ctx context.Context, id uuid.UUID, patch ConversationPatch) (*models.Conversation, error) {
	var conversation *models.Conversation
	err := s.uow.Do(ctx, func(r Repositories) error {
		found, err := getActiveConversation(ctx, r, id)
		if err != nil {
			return err
		}
		conversation = found

		if patch.isEmpty() {
			return nil
		}

		if patch.UserID != nil {
			if _, err := getActiveUser(ctx, r, *patch.UserID); err != nil {
				return err
			}
			conversation.UserID = *patch.UserID
		}
		if patch.ModelVersionID != nil {
			if _, err := getActiveModelVersion(ctx, r, *patch.ModelVersionID); err != nil {
				return err
			}
			conversation.ModelVersionID = *patch.ModelVersionID
		}
		if patch.Prompt != nil {
			conversation.Prompt = *patch.Prompt
		}
		if patch.Response != nil {
			conversation.Response = *patch.Response
		}
		if patch.Temperature != nil {
			conversation.Temperature = patch.Temperature
		}
		if patch.TopP != nil {
			conversation.TopP = patch.TopP
		}
		if patch.MaxTokens != nil {
			conversation.MaxTokens = patch.MaxTokens
		}
		if patch.InputTokens != nil {
			conversation.InputTokens = patch.InputTokens
		}
		if patch.OutputTokens != nil {
			conversation.OutputTokens = patch.OutputTokens
		}
		if patch.TotalTokens != nil {
			conversation.TotalTokens = patch.TotalTokens
		}
		if patch.LatencyMS != nil {
			conversation.LatencyMS = patch.LatencyMS
		}

		return r.Conversations().Update(ctx, conversation)
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// Delete soft-deletes a conversation. Conversations own nothing, so there is
// no cascade.
func (s *ConversationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(r Repositories) error {
		conversation, err := getActiveConversation(ctx, r, id)
		if err != nil {
			return err
		}

		conversation.IsActive = false
		return r.Conversations().Update(ctx, conversation)
	})
}

func getActiveConversation(ctx context.Context, r Repositories, id uuid.UUID) (*models.Conversation, error) {
	conversation, err := r.Conversations().GetActiveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	return conversation, nil
}
