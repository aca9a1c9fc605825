package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a single prompt/response exchange owned by a user and a
// model version. Response is never persisted empty: when the caller does not
// supply one, the workflow generates it before the row is written.
// Generation parameters and usage metrics are optional and stored as NULLs
// when absent.
type Conversation struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	ModelVersionID uuid.UUID `json:"model_version_id"`
	Prompt         string    `json:"prompt"`
	Response       string    `json:"response"`

	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`

	InputTokens  *int `json:"input_tokens,omitempty"`
	OutputTokens *int `json:"output_tokens,omitempty"`
	TotalTokens  *int `json:"total_tokens,omitempty"`
	LatencyMS    *int `json:"latency_ms,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}
