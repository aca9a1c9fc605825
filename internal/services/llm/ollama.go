package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const ollamaProviderName = "ollama"

// OllamaProvider calls a local or remote Ollama server through its native
// REST API (/api/generate, /api/tags).
type OllamaProvider struct {
	baseURL      string
	defaultModel string
	client       *http.Client
}

// NewOllamaProvider creates an Ollama adapter. The timeout bounds every
// outbound call, including response generation.
func NewOllamaProvider(baseURL, defaultModel string, timeout time.Duration) *OllamaProvider {
	return &OllamaProvider{
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: timeout},
	}
}

type ollamaOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount *int   `json:"prompt_eval_count"`
	EvalCount       *int   `json:"eval_count"`
	TotalDuration   *int64 `json:"total_duration"`
}

// Generate runs a non-streaming completion against /api/generate.
func (p *OllamaProvider) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = p.defaultModel
	}

	payload := ollamaGenerateRequest{
		Model:  model,
		Prompt: req.Prompt,
	}
	if req.Temperature != nil || req.TopP != nil || req.MaxTokens != nil {
		payload.Options = &ollamaOptions{
			Temperature: req.Temperature,
			TopP:        req.TopP,
			NumPredict:  req.MaxTokens,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Provider: ollamaProviderName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Provider: ollamaProviderName,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var parsed ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ResponseValidationError{Provider: ollamaProviderName, Err: err}
	}
	if parsed.Response == "" {
		return nil, &ResponseValidationError{
			Provider: ollamaProviderName,
			Err:      fmt.Errorf("response field missing or empty"),
		}
	}

	result := &GenerationResult{
		Response:     parsed.Response,
		InputTokens:  parsed.PromptEvalCount,
		OutputTokens: parsed.EvalCount,
	}
	if parsed.PromptEvalCount != nil && parsed.EvalCount != nil {
		total := *parsed.PromptEvalCount + *parsed.EvalCount
		result.TotalTokens = &total
	}
	if parsed.TotalDuration != nil {
		// Ollama reports wall time in nanoseconds.
		latency := int(*parsed.TotalDuration / 1_000_000)
		result.LatencyMS = &latency
	}

	return result, nil
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the models installed on the Ollama server.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ollama request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Provider: ollamaProviderName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Provider: ollamaProviderName,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var parsed ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ResponseValidationError{Provider: ollamaProviderName, Err: err}
	}

	names := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
