// Package tool defines the tool model for agentgate: executable tools, the
// sources that provide them, and the catalog that merges sources into the
// identifier-to-tool mapping consulted on every request.
package tool

import (
	"context"
	"encoding/json"
)

// Executor is the runtime contract for executable tools.
type Executor interface {
	Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	return f(ctx, args)
}

// Tool is a named callable capability offered to the agent runtime.
type Tool struct {
	ID          string
	Description string
	InputSchema json.RawMessage // JSON Schema for the tool arguments
	Exec        Executor
}

// Source provides a set of tools. Sources are queried on every catalog fetch;
// implementations decide whether to cache underneath.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Tools returns the source's current tool set.
	Tools(ctx context.Context) ([]Tool, error)
}
