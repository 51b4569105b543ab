// Package llm — any-llm-go adapter.
// AnyLLMProvider wraps github.com/mozilla-ai/any-llm-go, a unified multi-provider
// client covering the backends agentgate can be configured with.
package llm

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
)

// AnyLLMProvider implements Provider by delegating to an any-llm-go backend.
type AnyLLMProvider struct {
	backend anyllmlib.Provider
	name    string
	model   string
}

// NewAnyLLM creates a provider for the given backend name.
//
// providerName is one of: "openai", "anthropic", "mistral", "gemini", "ollama".
// model is the default model (e.g. "gpt-4o", "claude-3-5-sonnet-latest").
// opts are any-llm-go options such as anyllmlib.WithAPIKey or anyllmlib.WithBaseURL;
// without an API key option the backend falls back to its usual env variable.
func NewAnyLLM(providerName, model string, opts ...anyllmlib.Option) (*AnyLLMProvider, error) {
	if providerName == "" {
		return nil, fmt.Errorf("llm: provider name must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("llm: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("llm: create %q backend: %w", providerName, err)
	}
	return &AnyLLMProvider{backend: backend, name: strings.ToLower(providerName), model: model}, nil
}

// createBackend instantiates the underlying any-llm-go provider.
func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, mistral, gemini, ollama", providerName)
	}
}

// ChatCompletion implements Provider.
func (p *AnyLLMProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	params := p.buildParams(req)

	resp, err := p.backend.Completion(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("llm: %s completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm: %s returned no choices", p.name)
	}

	choice := resp.Choices[0]
	out := &ChatResponse{
		Content:    choice.Message.ContentString(),
		StopReason: string(choice.FinishReason),
	}
	if resp.Usage != nil {
		out.Tokens = resp.Usage.TotalTokens
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

// ModelInfo implements Provider.
func (p *AnyLLMProvider) ModelInfo() ModelMeta {
	return ModelMeta{ID: p.model, Provider: p.name}
}

// buildParams converts a ChatRequest into any-llm-go CompletionParams.
func (p *AnyLLMProvider) buildParams(req ChatRequest) anyllmlib.CompletionParams {
	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]anyllmlib.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, convertMessage(m))
	}

	params := anyllmlib.CompletionParams{
		Model:    model,
		Messages: messages,
	}
	if req.Temperature != 0 {
		t := req.Temperature
		params.Temperature = &t
	}
	if req.MaxTokens > 0 {
		mt := req.MaxTokens
		params.MaxTokens = &mt
	}
	for _, td := range req.Tools {
		params.Tools = append(params.Tools, anyllmlib.Tool{
			Type: "function",
			Function: anyllmlib.Function{
				Name:        td.Name,
				Description: td.Description,
				Parameters:  td.Parameters,
			},
		})
	}
	return params
}

// convertMessage converts a Message to an any-llm-go message.
func convertMessage(m Message) anyllmlib.Message {
	msg := anyllmlib.Message{
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, anyllmlib.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: anyllmlib.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return msg
}
