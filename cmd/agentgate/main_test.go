package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matiasleandrokruk/agentgate/internal/infra/config"
)

func TestRun_Version_PrintsVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--version"}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "agentgate version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_Help_PrintsUsage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--help"}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("expected help output, got %q", out.String())
	}
}

func TestRun_InvalidFlag_Returns2(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--unknown-flag"}, &out)

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	t.Parallel()

	if _, err := loadConfig("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestNewProvider_UnsupportedBackend(t *testing.T) {
	cfg := loadDefault(t)
	cfg.LLM.Provider = "teapot"

	if _, err := newProvider(cfg); err == nil {
		t.Fatal("expected error for unsupported provider, got nil")
	}
}

func TestNewStore_MemoryByDefault(t *testing.T) {
	cfg := loadDefault(t)

	store, closers, err := newStore(cfg)
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	if store == nil {
		t.Fatal("store is nil")
	}
	if len(closers) != 0 {
		t.Fatalf("memory store returned %d closers", len(closers))
	}
}

func TestNewStore_DiskRequiresValidPath(t *testing.T) {
	cfg := loadDefault(t)
	cfg.Storage.Class = "DISK"
	cfg.Storage.Path = "/does/not/exist/agentgate.db"

	if _, _, err := newStore(cfg); err == nil {
		t.Fatal("expected error for unreachable storage path, got nil")
	}
}

// loadDefault returns the built-in config without touching the environment
// beyond what the test process already has.
func loadDefault(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Load()
	if err := config.Validate(&cfg); err != nil {
		t.Fatalf("Validate defaults: %v", err)
	}
	return cfg
}
