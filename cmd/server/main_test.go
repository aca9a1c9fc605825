package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aieng/conversations-api/internal/services/llm"
)

type stubProvider struct {
	models []string
	err    error
}

func (s stubProvider) Generate(ctx context.Context, req llm.GenerationRequest) (*llm.GenerationResult, error) {
	return nil, errors.New("not used")
}

func (s stubProvider) ListModels(ctx context.Context) ([]string, error) {
	return s.models, s.err
}

func TestCheckDefaultProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		register map[string]stubProvider
		provider string
		model    string
		wantErr  bool
	}{
		{
			name:     "default provider ready",
			register: map[string]stubProvider{"ollama": {models: []string{"llama3.2:3b", "mistral:7b"}}},
			provider: "ollama",
			model:    "llama3.2:3b",
		},
		{
			name: "gate follows the configured provider",
			register: map[string]stubProvider{
				"ollama": {err: errors.New("connection refused")},
				"openai": {models: []string{"gpt-4o-mini"}},
			},
			provider: "openai",
			model:    "gpt-4o-mini",
		},
		{
			name:     "unregistered provider",
			register: map[string]stubProvider{"ollama": {models: []string{"llama3.2:3b"}}},
			provider: "openai",
			model:    "gpt-4o-mini",
			wantErr:  true,
		},
		{
			name:     "provider unreachable",
			register: map[string]stubProvider{"ollama": {err: errors.New("connection refused")}},
			provider: "ollama",
			model:    "llama3.2:3b",
			wantErr:  true,
		},
		{
			name:     "default model not served",
			register: map[string]stubProvider{"ollama": {models: []string{"mistral:7b"}}},
			provider: "ollama",
			model:    "llama3.2:3b",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := llm.NewRegistry()
			for name, provider := range tt.register {
				registry.Register(name, provider)
			}

			_, err := checkDefaultProvider(context.Background(), registry, tt.provider, tt.model)
			if tt.wantErr && err == nil {
				t.Error("checkDefaultProvider() error = nil, want failure")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("checkDefaultProvider() error = %v", err)
			}
		})
	}
}

func TestContainsModel(t *testing.T) {
	t.Parallel()

	names := []string{"llama3.2:3b", "mistral:7b"}
	if !containsModel(names, "mistral:7b") {
		t.Error("containsModel() = false for a listed model")
	}
	if containsModel(names, "gpt-4o-mini") {
		t.Error("containsModel() = true for an unlisted model")
	}
	if containsModel(nil, "llama3.2:3b") {
		t.Error("containsModel() = true for an empty list")
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	healthCheck(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status field = %q, want healthy", body.Status)
	}
}
