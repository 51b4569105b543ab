package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/agentgate/internal/version"
)

// MCPSource exposes the extended tool registry: a remote MCP server reached
// over streamable HTTP with a Bearer credential. It is only wired into the
// catalog when both endpoint and credential are configured.
//
// The session is established lazily on the first Tools call and reused
// afterwards; executors share it. Safe for concurrent use.
type MCPSource struct {
	endpoint   string
	credential string

	mu      sync.Mutex
	client  *mcpsdk.Client
	session *mcpsdk.ClientSession
}

// NewMCPSource creates a source for the MCP server at endpoint, authenticating
// with credential as a Bearer token.
func NewMCPSource(endpoint, credential string) *MCPSource {
	client := mcpsdk.NewClient(
		&mcpsdk.Implementation{Name: "agentgate", Version: version.Version},
		nil,
	)
	return &MCPSource{
		endpoint:   endpoint,
		credential: credential,
		client:     client,
	}
}

// Name implements Source.
func (s *MCPSource) Name() string { return "cloud-mcp" }

// Tools implements Source: lists the remote server's tools and wraps each as a
// Tool whose executor calls the tool over the shared session.
func (s *MCPSource) Tools(ctx context.Context) ([]Tool, error) {
	session, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	var out []Tool
	for t, err := range session.Tools(ctx, nil) {
		if err != nil {
			// Drop the session so the next fetch reconnects.
			s.reset()
			return nil, fmt.Errorf("mcp: list tools from %q: %w", s.endpoint, err)
		}
		schema, marshalErr := json.Marshal(t.InputSchema)
		if marshalErr != nil {
			schema = json.RawMessage(`{"type":"object"}`)
		}
		out = append(out, Tool{
			ID:          t.Name,
			Description: t.Description,
			InputSchema: schema,
			Exec:        &mcpExecutor{source: s, name: t.Name},
		})
	}
	return out, nil
}

// Close terminates the server session, if any.
func (s *MCPSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	return err
}

// connect returns the live session, establishing it on first use.
func (s *MCPSource) connect(ctx context.Context) (*mcpsdk.ClientSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return s.session, nil
	}

	transport := &mcpsdk.StreamableClientTransport{
		Endpoint: s.endpoint,
		HTTPClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: &bearerTransport{token: s.credential, base: http.DefaultTransport},
		},
	}
	session, err := s.client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcp: connect to %q: %w", s.endpoint, err)
	}
	s.session = session
	return session, nil
}

func (s *MCPSource) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		_ = s.session.Close()
		s.session = nil
	}
}

// mcpExecutor executes one named remote tool through the shared session.
type mcpExecutor struct {
	source *MCPSource
	name   string
}

// Execute implements Executor. An application-level tool error (IsError) is
// surfaced as a Go error so callers treat remote and builtin failures alike.
func (e *mcpExecutor) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	session, err := e.source.connect(ctx)
	if err != nil {
		return nil, err
	}

	var argsMap map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &argsMap); err != nil {
			return nil, fmt.Errorf("mcp: tool %q: invalid args JSON: %w", e.name, err)
		}
	}

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      e.name,
		Arguments: argsMap,
	})
	if err != nil {
		return nil, fmt.Errorf("mcp: call tool %q: %w", e.name, err)
	}

	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	text := sb.String()

	if result.IsError {
		return nil, fmt.Errorf("mcp: tool %q: %s", e.name, text)
	}

	// Pass JSON payloads through untouched; wrap plain text as a JSON string.
	if json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}
	return json.Marshal(text)
}

// bearerTransport injects the Authorization header on every request.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(clone)
}
