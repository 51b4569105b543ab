package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/matiasleandrokruk/agentgate/internal/domain/tool"
	"github.com/matiasleandrokruk/agentgate/internal/infra/llm"
)

const systemPrompt = "You are a helpful assistant. Use the available tools when they help answer the query. " +
	"When you have enough information, answer directly without calling more tools."

// Client runs queries through a plan-execute loop: the model is offered the
// client's tool set, requested tool calls are executed locally, and their
// results are fed back until the model answers in plain text or the step
// bound is reached.
//
// A Client is immutable after construction and safe for concurrent use.
type Client struct {
	router   *llm.Router
	model    string
	maxSteps int
	tools    map[string]tool.Tool
	defs     []llm.ToolDefinition
	logger   *slog.Logger
}

// Result is the outcome of a successful client run.
type Result struct {
	Output    string
	ToolCalls []ToolInvocation
}

// NewClient builds a Client over the given tool set. maxSteps bounds the
// number of model round-trips per run; values below 1 are clamped to 1.
func NewClient(router *llm.Router, model string, maxSteps int, tools []tool.Tool, logger *slog.Logger) *Client {
	if maxSteps < 1 {
		maxSteps = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	byID := make(map[string]tool.Tool, len(tools))
	defs := make([]llm.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		byID[t.ID] = t
		defs = append(defs, llm.ToolDefinition{
			Name:        t.ID,
			Description: t.Description,
			Parameters:  schemaToMap(t.InputSchema),
		})
	}
	// Deterministic tool order keeps prompts stable across runs.
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return &Client{
		router:   router,
		model:    model,
		maxSteps: maxSteps,
		tools:    byID,
		defs:     defs,
		logger:   logger,
	}
}

// ToolIDs returns the identifiers of the client's tool set, sorted.
func (c *Client) ToolIDs() []string {
	ids := make([]string, 0, len(c.defs))
	for _, d := range c.defs {
		ids = append(ids, d.Name)
	}
	return ids
}

// Run executes query and returns the final model answer along with the tool
// calls made on the way.
func (c *Client) Run(ctx context.Context, query string) (*Result, error) {
	provider, err := c.router.Route(ctx)
	if err != nil {
		return nil, err
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: query},
	}
	var invocations []ToolInvocation

	for step := 0; step < c.maxSteps; step++ {
		resp, err := provider.ChatCompletion(ctx, llm.ChatRequest{
			Model:    c.model,
			Messages: messages,
			Tools:    c.defs,
		})
		if err != nil {
			return nil, fmt.Errorf("completion step %d: %w", step+1, err)
		}

		if len(resp.ToolCalls) == 0 {
			return &Result{Output: resp.Content, ToolCalls: invocations}, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			inv := c.execute(ctx, call)
			invocations = append(invocations, inv)

			content := string(inv.Output)
			if inv.Error != "" {
				content = fmt.Sprintf(`{"error":%q}`, inv.Error)
			}
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	return nil, fmt.Errorf("no final answer after %d steps", c.maxSteps)
}

// execute runs one requested tool call. Tool failures are captured in the
// invocation record rather than aborting the run, so the model can recover.
func (c *Client) execute(ctx context.Context, call llm.ToolCall) ToolInvocation {
	inv := ToolInvocation{Tool: call.Name, Arguments: json.RawMessage(call.Arguments)}

	t, ok := c.tools[call.Name]
	if !ok {
		inv.Error = fmt.Sprintf("unknown tool %q", call.Name)
		c.logger.Warn("model requested unknown tool", "tool", call.Name)
		return inv
	}

	out, err := t.Exec.Execute(ctx, json.RawMessage(call.Arguments))
	if err != nil {
		inv.Error = err.Error()
		c.logger.Warn("tool call failed", "tool", call.Name, "error", err)
		return inv
	}
	inv.Output = out
	return inv
}

func schemaToMap(schema json.RawMessage) map[string]any {
	var m map[string]any
	if len(schema) == 0 || json.Unmarshal(schema, &m) != nil {
		return map[string]any{"type": "object"}
	}
	return m
}
