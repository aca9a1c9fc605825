// Package llm holds the provider-agnostic text generation abstraction and
// the concrete provider adapters. Adapters translate a GenerationRequest
// into a provider-specific call and normalize the result or failure into a
// common shape.
package llm

import (
	"errors"
	"fmt"
)

// GenerationRequest is the provider-agnostic input for a single completion.
// Optional parameters that are nil are omitted from the provider call, never
// defaulted by the adapter.
type GenerationRequest struct {
	Model       string
	Prompt      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// GenerationResult is the normalized output of a completion. Token counts
// are taken from the provider's report when present; TotalTokens is filled
// only when both input and output counts are known.
type GenerationResult struct {
	Response     string
	InputTokens  *int
	OutputTokens *int
	TotalTokens  *int
	LatencyMS    *int
}

// TransportError indicates the provider could not be reached or returned a
// non-2xx status. Retrying the whole request may succeed.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm provider %s unreachable: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retriable reports whether the failure is worth retrying.
func (e *TransportError) Retriable() bool { return true }

// ResponseValidationError indicates the provider answered but the body did
// not match the expected shape. This is a permanent failure.
type ResponseValidationError struct {
	Provider string
	Err      error
}

func (e *ResponseValidationError) Error() string {
	return fmt.Sprintf("invalid response from llm provider %s: %v", e.Provider, e.Err)
}

func (e *ResponseValidationError) Unwrap() error { return e.Err }

// Retriable reports whether the failure is worth retrying.
func (e *ResponseValidationError) Retriable() bool { return false }

// ProviderNotFoundError is returned when no adapter is registered for a
// provider name. It is raised before any network I/O.
type ProviderNotFoundError struct {
	Name string
}

func (e *ProviderNotFoundError) Error() string {
	return "llm provider not supported: " + e.Name
}

// Retriable reports whether the failure is worth retrying.
func (e *ProviderNotFoundError) Retriable() bool { return false }

// IsRetriable reports whether err is a retriable provider failure.
func IsRetriable(err error) bool {
	var r interface{ Retriable() bool }
	if errors.As(err, &r) {
		return r.Retriable()
	}
	return false
}
