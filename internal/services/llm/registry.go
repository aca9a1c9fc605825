package llm

import (
	"context"
	"strings"
)

// Provider is the interface implemented by concrete LLM adapters.
type Provider interface {
	// Generate runs a single non-streaming completion.
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)

	// ListModels returns the model names available from the provider. Used
	// by the startup readiness check, not by the request path.
	ListModels(ctx context.Context) ([]string, error)
}

// Registry maps provider names to adapters. Lookup is case-insensitive so a
// model version declaring "Ollama" resolves the same adapter as "ollama".
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register registers a provider under the given name.
func (r *Registry) Register(name string, provider Provider) {
	r.providers[strings.ToLower(name)] = provider
}

// Get resolves a provider by name. Unknown names fail with
// *ProviderNotFoundError without any network call.
func (r *Registry) Get(name string) (Provider, error) {
	provider, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, &ProviderNotFoundError{Name: name}
	}
	return provider, nil
}
