package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an API consumer identified by a unique email address.
// Deletes are logical: IsActive flips to false and the row stays behind,
// which keeps conversation foreign keys valid.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}
