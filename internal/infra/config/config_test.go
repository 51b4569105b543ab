package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Env-mutating tests must not run in parallel with each other.

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("host=%q want=%q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port=%d want=8080", cfg.Server.Port)
	}
	if cfg.Server.MaxWorkers != 4 {
		t.Fatalf("max_workers=%d want=4", cfg.Server.MaxWorkers)
	}
	if cfg.Storage.Class != StorageMemory {
		t.Fatalf("storage class=%q want=%q", cfg.Storage.Class, StorageMemory)
	}
	if cfg.CloudEnabled() {
		t.Fatal("cloud registry should be disabled by default")
	}
	if err := Validate(&cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_WORKERS", "16")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STORAGE_CLASS", "disk")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Fatalf("port=%d want=9090", cfg.Server.Port)
	}
	if cfg.Server.MaxWorkers != 16 {
		t.Fatalf("max_workers=%d want=16", cfg.Server.MaxWorkers)
	}
	if cfg.LLM.Provider != "anthropic" || cfg.LLM.AnthropicAPIKey != "sk-ant-test" {
		t.Fatalf("llm config not applied: %+v", cfg.LLM)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("allowed origins=%v", cfg.Server.AllowedOrigins)
	}
	// Storage class is normalized to upper case.
	if cfg.Storage.Class != StorageDisk {
		t.Fatalf("storage class=%q want=%q", cfg.Storage.Class, StorageDisk)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()
	if cfg.Server.Port != 8080 {
		t.Fatalf("port=%d want default 8080", cfg.Server.Port)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"bad workers", func(c *Config) { c.Server.MaxWorkers = -1 }, "max_workers"},
		{"bad steps", func(c *Config) { c.LLM.MaxSteps = 0 }, "max_steps"},
		{"bad storage class", func(c *Config) { c.Storage.Class = "CLOUD" }, "storage class"},
		{"disk without path", func(c *Config) { c.Storage.Class = StorageDisk; c.Storage.Path = "" }, "storage path"},
		{"half cloud config", func(c *Config) { c.Cloud.MCPURL = "https://mcp.example" }, "set together"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaults()
			tc.mutate(&cfg)
			err := Validate(&cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.substr) {
				t.Fatalf("error %q does not mention %q", err, tc.substr)
			}
		})
	}
}

func TestLoadFile_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agentgate.yaml")
	body := `
server:
  port: 9999
  max_workers: 2
llm:
  provider: openai
  model: gpt-4o
cloud:
  mcp_url: https://tools.example/mcp
  api_key: cloud-key
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "7070")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("port=%d want env override 7070", cfg.Server.Port)
	}
	if cfg.Server.MaxWorkers != 2 {
		t.Fatalf("max_workers=%d want file value 2", cfg.Server.MaxWorkers)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("llm=%+v", cfg.LLM)
	}
	if !cfg.CloudEnabled() {
		t.Fatal("cloud registry should be enabled")
	}
}

func TestLoadFile_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("serverr:\n  port: 1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
