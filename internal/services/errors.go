package services

import "errors"

// Workflow errors. The HTTP layer maps these onto the error contract
// exactly once; anything not listed here surfaces as an internal error.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrModelVersionNotFound = errors.New("model version not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmailConflict        = errors.New("email already exists")

	// ErrProviderNotSupported maps to a client-request error: the model
	// version names a provider no adapter is registered for.
	ErrProviderNotSupported = errors.New("llm provider not supported")

	// ErrProviderUnavailable wraps transport or response-validation
	// failures from the generation adapter.
	ErrProviderUnavailable = errors.New("llm provider unavailable")
)
