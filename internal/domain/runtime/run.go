// Package runtime executes queries against a language model with a fixed set
// of tools, and records each execution as a Run.
package runtime

import (
	"encoding/json"
	"time"
)

// State is the lifecycle state of a Run.
type State string

const (
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateFailed   State = "failed"
)

// ToolInvocation records one tool call made during a run.
type ToolInvocation struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Output    json.RawMessage `json:"output,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Run is the persisted record of one query execution.
type Run struct {
	ID          string           `json:"id"`
	Query       string           `json:"query"`
	ToolIDs     []string         `json:"tool_ids"`
	State       State            `json:"state"`
	Output      string           `json:"output,omitempty"`
	Error       string           `json:"error,omitempty"`
	ToolCalls   []ToolInvocation `json:"tool_calls"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}
