package models

import (
	"time"

	"github.com/google/uuid"
)

// ModelVersion pins a provider/model/version triple that conversations
// reference. Provider is matched case-insensitively against the registered
// LLM providers when a response has to be generated.
type ModelVersion struct {
	ID         uuid.UUID `json:"id"`
	Provider   string    `json:"provider"`
	ModelName  string    `json:"model_name"`
	VersionTag string    `json:"version_tag"`
	CreatedAt  time.Time `json:"created_at"`
	IsActive   bool      `json:"is_active"`
}
