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

// ConversationRepository handles conversation database operations.
type ConversationRepository struct {
	q querier
}

const conversationColumns = `id, user_id, model_version_id, prompt, response,
	temperature, top_p, max_tokens, input_tokens, output_tokens, total_tokens,
	latency_ms, created_at, is_active`

// Create inserts the conversation and fills in the assigned id, creation
// timestamp and active flag on the passed struct.
func (r *ConversationRepository) Create(ctx context.Context, c *models.Conversation) error {
	c.ID = uuid.New()
	c.IsActive = true

	query := `
		INSERT INTO conversations (id, user_id, model_version_id, prompt, response,
			temperature, top_p, max_tokens, input_tokens, output_tokens, total_tokens,
			latency_ms, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`
	err := r.q.QueryRowContext(ctx, query,
		c.ID,
		c.UserID,
		c.ModelVersionID,
		c.Prompt,
		c.Response,
		nullFloat(c.Temperature),
		nullFloat(c.TopP),
		nullInt(c.MaxTokens),
		nullInt(c.InputTokens),
		nullInt(c.OutputTokens),
		nullInt(c.TotalTokens),
		nullInt(c.LatencyMS),
		time.Now().UTC(),
		c.IsActive,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

// GetActiveByID retrieves an active conversation, or nil when the row is
// absent or soft-deleted.
func (r *ConversationRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE id = $1 AND is_active = TRUE
	`
	c, err := scanConversation(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return c, nil
}

// ListActive returns active conversations within the pagination window,
// optionally filtered by owning user.
func (r *ConversationRepository) ListActive(ctx context.Context, p services.ConversationListParams) ([]*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE is_active = TRUE
	`
	args := []any{p.Limit, p.Offset}
	if p.UserID != nil {
		query += ` AND user_id = $3`
		args = append(args, *p.UserID)
	}
	query += fmt.Sprintf(` ORDER BY %s LIMIT $1 OFFSET $2`, conversationOrderClause(p.OrderBy))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*models.Conversation, 0)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return conversations, nil
}

// Update flushes the conversation's mutable fields inside the current
// transaction.
func (r *ConversationRepository) Update(ctx context.Context, c *models.Conversation) error {
	query := `
		UPDATE conversations
		SET user_id = $2, model_version_id = $3, prompt = $4, response = $5,
			temperature = $6, top_p = $7, max_tokens = $8, input_tokens = $9,
			output_tokens = $10, total_tokens = $11, latency_ms = $12, is_active = $13
		WHERE id = $1
	`
	_, err := r.q.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.ModelVersionID,
		c.Prompt,
		c.Response,
		nullFloat(c.Temperature),
		nullFloat(c.TopP),
		nullInt(c.MaxTokens),
		nullInt(c.InputTokens),
		nullInt(c.OutputTokens),
		nullInt(c.TotalTokens),
		nullInt(c.LatencyMS),
		c.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	return nil
}

// DeactivateByUserID soft-deletes every active conversation owned by the
// user. Runs in the caller's transaction as part of the user delete cascade.
func (r *ConversationRepository) DeactivateByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE conversations SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE`
	if _, err := r.q.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to deactivate conversations for user: %w", err)
	}
	return nil
}

// DeactivateByModelVersionID soft-deletes every active conversation
// referencing the model version.
func (r *ConversationRepository) DeactivateByModelVersionID(ctx context.Context, modelVersionID uuid.UUID) error {
	query := `UPDATE conversations SET is_active = FALSE WHERE model_version_id = $1 AND is_active = TRUE`
	if _, err := r.q.ExecContext(ctx, query, modelVersionID); err != nil {
		return fmt.Errorf("failed to deactivate conversations for model version: %w", err)
	}
	return nil
}

func conversationOrderClause(orderBy string) string {
	switch orderBy {
	case "created_at_asc":
		return "created_at ASC"
	case "latency_ms_asc":
		return "latency_ms ASC"
	case "latency_ms_desc":
		return "latency_ms DESC"
	default:
		return "created_at DESC"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	c := &models.Conversation{}
	var (
		temperature, topP                                 sql.NullFloat64
		maxTokens, inputTokens, outputTokens, totalTokens sql.NullInt64
		latencyMS                                         sql.NullInt64
	)

	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ModelVersionID,
		&c.Prompt,
		&c.Response,
		&temperature,
		&topP,
		&maxTokens,
		&inputTokens,
		&outputTokens,
		&totalTokens,
		&latencyMS,
		&c.CreatedAt,
		&c.IsActive,
	)
	if err != nil {
		return nil, err
	}

	c.Temperature = floatPtr(temperature)
	c.TopP = floatPtr(topP)
	c.MaxTokens = intPtr(maxTokens)
	c.InputTokens = intPtr(inputTokens)
	c.OutputTokens = intPtr(outputTokens)
	c.TotalTokens = intPtr(totalTokens)
	c.LatencyMS = intPtr(latencyMS)
	return c, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
