package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const openAIProviderName = "openai"

// OpenAIProvider adapts any OpenAI-compatible chat completion endpoint.
type OpenAIProvider struct {
	client       openai.Client
	defaultModel string
}

// NewOpenAIProvider creates an OpenAI adapter. baseURL may be empty for the
// public API or point at a compatible gateway.
func NewOpenAIProvider(apiKey, baseURL, defaultModel string, timeout time.Duration) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIProvider{
		client:       openai.NewClient(opts...),
		defaultModel: defaultModel,
	}
}

// Generate runs a single-turn chat completion. Optional sampling parameters
// are forwarded only when the caller supplied them.
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.resolveModel(req.Model)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	if req.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*req.MaxTokens))
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	latency := int(time.Since(start).Milliseconds())
	if err != nil {
		return nil, &TransportError{Provider: openAIProviderName, Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &ResponseValidationError{
			Provider: openAIProviderName,
			Err:      fmt.Errorf("no choices in response"),
		}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, &ResponseValidationError{
			Provider: openAIProviderName,
			Err:      fmt.Errorf("empty message content"),
		}
	}

	result := &GenerationResult{
		Response:  content,
		LatencyMS: &latency,
	}
	if resp.JSON.Usage.Valid() {
		input := int(resp.Usage.PromptTokens)
		output := int(resp.Usage.CompletionTokens)
		total := input + output
		result.InputTokens = &input
		result.OutputTokens = &output
		result.TotalTokens = &total
	}

	return result, nil
}

// resolveModel falls back to the configured default when the model version
// carries a blank model name, matching the Ollama adapter's behavior.
func (p *OpenAIProvider) resolveModel(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return p.defaultModel
	}
	return requested
}

// ListModels returns the model ids visible to the configured API key.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	page, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, &TransportError{Provider: openAIProviderName, Err: err}
	}

	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}
