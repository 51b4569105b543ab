package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matiasleandrokruk/agentgate/internal/infra/llm"
)

// Builtin tool identifiers.
const (
	BuiltinCalculator = "calculator_tool"
	BuiltinClock      = "clock_tool"
	BuiltinWeather    = "weather_tool"
	BuiltinLLM        = "llm_tool"
)

// BuiltinConfig wires the dependencies of the builtin tool set.
type BuiltinConfig struct {
	// LLM routes llm_tool completions. llm_tool is omitted when nil.
	LLM *llm.Router

	// OpenWeatherMapAPIKey gates weather_tool; the tool is omitted when empty.
	OpenWeatherMapAPIKey string

	// HTTPClient is used by network-backed tools. Defaults to a 15s-timeout client.
	HTTPClient *http.Client

	// Now supplies the current time for clock_tool. Defaults to time.Now.
	Now func() time.Time
}

// BuiltinSource is the default tool registry: in-process tools that need no
// external tool server.
type BuiltinSource struct {
	llm        *llm.Router
	weatherKey string
	httpClient *http.Client
	now        func() time.Time
}

// NewBuiltinSource creates the default registry from cfg.
func NewBuiltinSource(cfg BuiltinConfig) *BuiltinSource {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &BuiltinSource{
		llm:        cfg.LLM,
		weatherKey: cfg.OpenWeatherMapAPIKey,
		httpClient: client,
		now:        now,
	}
}

// Name implements Source.
func (s *BuiltinSource) Name() string { return "builtin" }

// Tools implements Source. Credential-gated tools are listed only when their
// credential is configured, mirroring how the default registry omits tools it
// cannot serve.
func (s *BuiltinSource) Tools(_ context.Context) ([]Tool, error) {
	tools := []Tool{
		{
			ID:          BuiltinCalculator,
			Description: "Evaluate a basic arithmetic expression (+, -, *, /, parentheses)",
			InputSchema: json.RawMessage(`{"type":"object","required":["expression"],"properties":{"expression":{"type":"string"}},"additionalProperties":false}`),
			Exec:        ExecutorFunc(s.execCalculator),
		},
		{
			ID:          BuiltinClock,
			Description: "Get the current date and time, optionally in a named IANA timezone",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"timezone":{"type":"string"}},"additionalProperties":false}`),
			Exec:        ExecutorFunc(s.execClock),
		},
	}

	if s.weatherKey != "" {
		tools = append(tools, Tool{
			ID:          BuiltinWeather,
			Description: "Get current weather conditions for a city",
			InputSchema: json.RawMessage(`{"type":"object","required":["city"],"properties":{"city":{"type":"string"}},"additionalProperties":false}`),
			Exec:        ExecutorFunc(s.execWeather),
		})
	}

	if s.llm != nil {
		tools = append(tools, Tool{
			ID:          BuiltinLLM,
			Description: "Answer a free-form task with the configured language model, without other tools",
			InputSchema: json.RawMessage(`{"type":"object","required":["task"],"properties":{"task":{"type":"string"}},"additionalProperties":false}`),
			Exec:        ExecutorFunc(s.execLLM),
		})
	}

	return tools, nil
}

func (s *BuiltinSource) execCalculator(_ context.Context, args json.RawMessage) (json.RawMessage, error) {
	var in struct {
		Expression string `json:"expression"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("calculator_tool: invalid arguments: %w", err)
	}
	v, err := evalExpression(in.Expression)
	if err != nil {
		return nil, fmt.Errorf("calculator_tool: %w", err)
	}
	return json.Marshal(map[string]float64{"result": v})
}

func (s *BuiltinSource) execClock(_ context.Context, args json.RawMessage) (json.RawMessage, error) {
	var in struct {
		Timezone string `json:"timezone"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("clock_tool: invalid arguments: %w", err)
		}
	}

	now := s.now()
	loc := time.UTC
	if in.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(in.Timezone)
		if err != nil {
			return nil, fmt.Errorf("clock_tool: unknown timezone %q", in.Timezone)
		}
	}
	now = now.In(loc)

	return json.Marshal(map[string]string{
		"time":     now.Format(time.RFC3339),
		"timezone": loc.String(),
	})
}

// openWeatherMapBaseURL is a var so tests can point it at a local server.
var openWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5/weather"

func (s *BuiltinSource) execWeather(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var in struct {
		City string `json:"city"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("weather_tool: invalid arguments: %w", err)
	}
	if in.City == "" {
		return nil, fmt.Errorf("weather_tool: city is required")
	}

	q := url.Values{}
	q.Set("q", in.City)
	q.Set("appid", s.weatherKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openWeatherMapBaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather_tool: build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather_tool: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("weather_tool: upstream status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Name    string `json:"name"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("weather_tool: decode response: %w", err)
	}

	description := ""
	if len(payload.Weather) > 0 {
		description = payload.Weather[0].Description
	}
	return json.Marshal(map[string]any{
		"city":          payload.Name,
		"description":   description,
		"temperature_c": payload.Main.Temp,
		"humidity":      payload.Main.Humidity,
	})
}

func (s *BuiltinSource) execLLM(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var in struct {
		Task string `json:"task"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("llm_tool: invalid arguments: %w", err)
	}
	if in.Task == "" {
		return nil, fmt.Errorf("llm_tool: task is required")
	}

	provider, err := s.llm.Route(ctx)
	if err != nil {
		return nil, fmt.Errorf("llm_tool: %w", err)
	}
	resp, err := provider.ChatCompletion(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: in.Task}},
	})
	if err != nil {
		return nil, fmt.Errorf("llm_tool: %w", err)
	}
	return json.Marshal(map[string]string{"response": resp.Content})
}
