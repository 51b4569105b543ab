package llm

import (
	"context"
	"testing"
)

type staticProvider struct {
	meta ModelMeta
}

func (s *staticProvider) ChatCompletion(_ context.Context, _ ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{Content: "ok", StopReason: "stop"}, nil
}

func (s *staticProvider) ModelInfo() ModelMeta { return s.meta }

func TestRouter_RoutesToDefault(t *testing.T) {
	t.Parallel()

	want := &staticProvider{meta: ModelMeta{ID: "m", Provider: "test"}}
	r := NewRouter(map[string]Provider{"test": want}, "test")

	got, err := r.Route(context.Background())
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if got != want {
		t.Fatalf("Route returned %v, want %v", got, want)
	}
}

func TestRouter_MissingDefault(t *testing.T) {
	t.Parallel()

	r := NewRouter(nil, "nope")
	if _, err := r.Route(context.Background()); err == nil {
		t.Fatal("expected error for missing default provider, got nil")
	}
}

func TestRouter_RegisterReplaces(t *testing.T) {
	t.Parallel()

	first := &staticProvider{meta: ModelMeta{ID: "a"}}
	second := &staticProvider{meta: ModelMeta{ID: "b"}}
	r := NewRouter(map[string]Provider{"p": first}, "p")
	r.Register("p", second)

	got, err := r.Route(context.Background())
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if got != second {
		t.Fatal("Register did not replace the provider")
	}
}
