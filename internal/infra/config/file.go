package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML configuration file, overlays environment variables on
// top of it, and validates the result. Environment variables always win over
// file values so deployments can override a checked-in config.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := loadFromReader(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyEnv(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFromReader decodes a YAML config from r on top of the defaults.
// Unknown fields are rejected so typos surface at startup instead of being
// silently ignored.
func loadFromReader(r io.Reader) (Config, error) {
	cfg := defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}
