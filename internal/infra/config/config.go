// Package config provides application-wide configuration for agentgate.
// Values come from environment variables, optionally seeded from a YAML file
// (env always wins). All fields have safe defaults so the binary runs locally
// without any env setup, except that at least one LLM backend must be reachable
// for queries to succeed.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage class values for run-history persistence.
const (
	StorageMemory = "MEMORY"
	StorageDisk   = "DISK"
)

// Config holds runtime configuration for agentgate.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	Cloud   CloudConfig   `yaml:"cloud"`
	Tools   ToolsConfig   `yaml:"tools"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
}

// ServerConfig controls the HTTP surface and the execution worker pool.
type ServerConfig struct {
	Host           string   `yaml:"host"`            // HOST, default "0.0.0.0"
	Port           int      `yaml:"port"`            // PORT, default 8080
	MaxWorkers     int      `yaml:"max_workers"`     // MAX_WORKERS, bound on concurrent agent executions, default 4
	AllowedOrigins []string `yaml:"allowed_origins"` // ALLOWED_ORIGINS (csv), default ["*"]
	LogLevel       string   `yaml:"log_level"`       // LOG_LEVEL, default "info"
}

// LLMConfig selects the model backend used by the agent runtime and llm_tool.
type LLMConfig struct {
	Provider        string `yaml:"provider"`          // LLM_PROVIDER: openai | anthropic | mistral | gemini | ollama
	Model           string `yaml:"model"`             // DEFAULT_MODEL
	MaxSteps        int    `yaml:"max_steps"`         // MAX_STEPS, plan/execute loop bound, default 8
	OpenAIAPIKey    string `yaml:"openai_api_key"`    // OPENAI_API_KEY
	AnthropicAPIKey string `yaml:"anthropic_api_key"` // ANTHROPIC_API_KEY
	MistralAPIKey   string `yaml:"mistral_api_key"`   // MISTRAL_API_KEY
	GeminiAPIKey    string `yaml:"gemini_api_key"`    // GEMINI_API_KEY
	OllamaBaseURL   string `yaml:"ollama_base_url"`   // OLLAMA_BASE_URL, default "http://localhost:11434"
}

// CloudConfig gates the extended MCP tool registry. Both fields must be set
// for the extended registry to be consulted.
type CloudConfig struct {
	MCPURL string `yaml:"mcp_url"` // CLOUD_MCP_URL
	APIKey string `yaml:"api_key"` // CLOUD_API_KEY, sent as Bearer credential
}

// ToolsConfig carries credentials consumed by individual builtin tools.
type ToolsConfig struct {
	OpenWeatherMapAPIKey string `yaml:"openweathermap_api_key"` // OPENWEATHERMAP_API_KEY, gates weather_tool
}

// StorageConfig selects where run records are persisted.
type StorageConfig struct {
	Class string `yaml:"class"` // STORAGE_CLASS: MEMORY | DISK, default MEMORY
	Path  string `yaml:"path"`  // STORAGE_PATH, sqlite file for DISK, default "agentgate.db"
}

// AuthConfig enables Bearer-JWT protection of /run and /tools when Secret is set.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"` // AUTH_JWT_SECRET, empty disables auth
}

const (
	envKeyHost           = "HOST"
	envKeyPort           = "PORT"
	envKeyMaxWorkers     = "MAX_WORKERS"
	envKeyAllowedOrigins = "ALLOWED_ORIGINS"
	envKeyLogLevel       = "LOG_LEVEL"

	envKeyLLMProvider   = "LLM_PROVIDER"
	envKeyDefaultModel  = "DEFAULT_MODEL"
	envKeyMaxSteps      = "MAX_STEPS"
	envKeyOpenAIKey     = "OPENAI_API_KEY"
	envKeyAnthropicKey  = "ANTHROPIC_API_KEY"
	envKeyMistralKey    = "MISTRAL_API_KEY"
	envKeyGeminiKey     = "GEMINI_API_KEY"
	envKeyOllamaBaseURL = "OLLAMA_BASE_URL"

	envKeyCloudMCPURL = "CLOUD_MCP_URL"
	envKeyCloudAPIKey = "CLOUD_API_KEY"

	envKeyOpenWeatherMapKey = "OPENWEATHERMAP_API_KEY"

	envKeyStorageClass = "STORAGE_CLASS"
	envKeyStoragePath  = "STORAGE_PATH"

	envKeyAuthJWTSecret = "AUTH_JWT_SECRET"
)

// Load reads configuration from environment variables, applying defaults for
// missing values.
func Load() Config {
	cfg := defaults()
	applyEnv(&cfg)
	return cfg
}

// defaults returns the configuration used when nothing else is set.
func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			MaxWorkers:     4,
			AllowedOrigins: []string{"*"},
			LogLevel:       "info",
		},
		LLM: LLMConfig{
			Provider:      "ollama",
			Model:         "llama3.2:3b",
			MaxSteps:      8,
			OllamaBaseURL: "http://localhost:11434",
		},
		Storage: StorageConfig{
			Class: StorageMemory,
			Path:  "agentgate.db",
		},
	}
}

// applyEnv overlays environment variables onto cfg. Unset variables leave the
// current value untouched, so file values survive unless overridden.
func applyEnv(cfg *Config) {
	cfg.Server.Host = envOr(envKeyHost, cfg.Server.Host)
	cfg.Server.Port = envIntOr(envKeyPort, cfg.Server.Port)
	cfg.Server.MaxWorkers = envIntOr(envKeyMaxWorkers, cfg.Server.MaxWorkers)
	cfg.Server.LogLevel = envOr(envKeyLogLevel, cfg.Server.LogLevel)
	if v := os.Getenv(envKeyAllowedOrigins); v != "" {
		cfg.Server.AllowedOrigins = splitCSV(v)
	}

	cfg.LLM.Provider = envOr(envKeyLLMProvider, cfg.LLM.Provider)
	cfg.LLM.Model = envOr(envKeyDefaultModel, cfg.LLM.Model)
	cfg.LLM.MaxSteps = envIntOr(envKeyMaxSteps, cfg.LLM.MaxSteps)
	cfg.LLM.OpenAIAPIKey = envOr(envKeyOpenAIKey, cfg.LLM.OpenAIAPIKey)
	cfg.LLM.AnthropicAPIKey = envOr(envKeyAnthropicKey, cfg.LLM.AnthropicAPIKey)
	cfg.LLM.MistralAPIKey = envOr(envKeyMistralKey, cfg.LLM.MistralAPIKey)
	cfg.LLM.GeminiAPIKey = envOr(envKeyGeminiKey, cfg.LLM.GeminiAPIKey)
	cfg.LLM.OllamaBaseURL = envOr(envKeyOllamaBaseURL, cfg.LLM.OllamaBaseURL)

	cfg.Cloud.MCPURL = envOr(envKeyCloudMCPURL, cfg.Cloud.MCPURL)
	cfg.Cloud.APIKey = envOr(envKeyCloudAPIKey, cfg.Cloud.APIKey)

	cfg.Tools.OpenWeatherMapAPIKey = envOr(envKeyOpenWeatherMapKey, cfg.Tools.OpenWeatherMapAPIKey)

	cfg.Storage.Class = strings.ToUpper(envOr(envKeyStorageClass, cfg.Storage.Class))
	cfg.Storage.Path = envOr(envKeyStoragePath, cfg.Storage.Path)

	cfg.Auth.JWTSecret = envOr(envKeyAuthJWTSecret, cfg.Auth.JWTSecret)
}

// Validate checks that cfg contains a coherent set of values.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", cfg.Server.Port)
	}
	if cfg.Server.MaxWorkers <= 0 {
		return fmt.Errorf("config: max_workers must be positive, got %d", cfg.Server.MaxWorkers)
	}
	if cfg.LLM.MaxSteps <= 0 {
		return fmt.Errorf("config: max_steps must be positive, got %d", cfg.LLM.MaxSteps)
	}
	switch cfg.Storage.Class {
	case StorageMemory, StorageDisk:
	default:
		return fmt.Errorf("config: storage class %q is invalid; valid values: MEMORY, DISK", cfg.Storage.Class)
	}
	if cfg.Storage.Class == StorageDisk && cfg.Storage.Path == "" {
		return fmt.Errorf("config: storage path is required for DISK storage")
	}
	if (cfg.Cloud.MCPURL == "") != (cfg.Cloud.APIKey == "") {
		return fmt.Errorf("config: cloud mcp_url and api_key must be set together")
	}
	return nil
}

// CloudEnabled reports whether the extended MCP registry should be consulted.
func (c Config) CloudEnabled() bool {
	return c.Cloud.MCPURL != "" && c.Cloud.APIKey != ""
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr returns the integer value of the environment variable key, or
// fallback if unset or unparseable.
func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// splitCSV splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
