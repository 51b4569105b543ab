// Package llm — Provider interface.
// Adapters implement this interface so the application is never coupled to a
// specific LLM vendor SDK.
package llm

import "context"

// Provider is the model-agnostic interface for LLM operations.
// Implementations must be safe for concurrent use.
type Provider interface {
	// ChatCompletion performs a non-streaming chat completion, optionally
	// offering tools the model may call.
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ModelInfo returns static metadata about the provider/model.
	ModelInfo() ModelMeta
}
