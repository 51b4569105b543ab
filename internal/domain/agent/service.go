package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/matiasleandrokruk/agentgate/internal/domain/runtime"
	"github.com/matiasleandrokruk/agentgate/internal/domain/tool"
	"github.com/matiasleandrokruk/agentgate/pkg/uuid"
)

// Runner executes one query against a fixed tool set. *runtime.Client is the
// production implementation.
type Runner interface {
	Run(ctx context.Context, query string) (*runtime.Result, error)
}

// ClientFactory builds a Runner scoped to exactly the given tools.
type ClientFactory func(tools []tool.Tool) Runner

// ExecutionResult is the normalized outcome of one query execution. Exactly
// one of Result/Error is populated, matching Success.
type ExecutionResult struct {
	Success       bool    `json:"success"`
	Result        any     `json:"result"`
	Error         *string `json:"error"`
	ExecutionTime float64 `json:"execution_time"`
}

// Config wires a Service.
type Config struct {
	Catalog    *tool.Catalog
	Store      runtime.RunStore
	NewClient  ClientFactory
	MaxWorkers int64
	Logger     *slog.Logger
}

// Service holds a single client binding: at most one live Runner, bound to one
// exact tool set. A request for the same set reuses the cached client; a
// request for a different set validates against a fresh catalog snapshot and
// replaces the binding. Blocking executions run through a bounded worker pool.
type Service struct {
	catalog   *tool.Catalog
	store     runtime.RunStore
	newClient ClientFactory
	sem       *semaphore.Weighted
	logger    *slog.Logger

	// mu guards the binding slot below: check-then-set must be atomic so
	// concurrent requests cannot build redundant clients or observe a
	// half-replaced binding.
	mu     sync.Mutex
	bound  map[string]struct{}
	client Runner
}

// NewService creates a Service. MaxWorkers below 1 is clamped to 1.
func NewService(cfg Config) *Service {
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Store == nil {
		cfg.Store = runtime.NewMemoryStore()
	}
	return &Service{
		catalog:   cfg.Catalog,
		store:     cfg.Store,
		newClient: cfg.NewClient,
		sem:       semaphore.NewWeighted(cfg.MaxWorkers),
		logger:    cfg.Logger,
	}
}

// resolve returns a Runner bound to exactly requested. Cache hit on set
// equality; otherwise it fetches a fresh catalog snapshot, validates the
// request against it, and replaces the binding. Returns *InvalidToolsError
// when any requested identifier is missing from the catalog.
func (s *Service) resolve(ctx context.Context, requested []string) (Runner, error) {
	want := toSet(requested)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil && setsEqual(s.bound, want) {
		return s.client, nil
	}

	snapshot, err := s.catalog.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	var invalid []string
	for id := range want {
		if _, ok := snapshot[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		available := make([]string, 0, len(snapshot))
		for id := range snapshot {
			available = append(available, id)
		}
		sort.Strings(invalid)
		sort.Strings(available)
		return nil, &InvalidToolsError{Invalid: invalid, Available: available}
	}

	scoped := make([]tool.Tool, 0, len(want))
	for id := range want {
		scoped = append(scoped, snapshot[id])
	}

	client := s.newClient(scoped)
	s.bound = want
	s.client = client
	return client, nil
}

// RunQuery resolves the requested tool set and executes query on a pool
// worker. Runtime faults are absorbed into the result (Success=false); only
// resolution failures and persistence problems surface as errors.
func (s *Service) RunQuery(ctx context.Context, query string, toolIDs []string) (*ExecutionResult, error) {
	client, err := s.resolve(ctx, toolIDs)
	if err != nil {
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire worker: %w", err)
	}
	defer s.sem.Release(1)

	run := &runtime.Run{
		ID:        uuid.NewV7().String(),
		Query:     query,
		ToolIDs:   append([]string(nil), toolIDs...),
		State:     runtime.StateRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, run); err != nil {
		s.logger.Warn("failed to record run start", "run_id", run.ID, "error", err)
	}

	start := time.Now()
	res, runErr := client.Run(ctx, query)
	elapsed := time.Since(start).Seconds()

	completed := time.Now().UTC()
	run.CompletedAt = &completed

	if runErr != nil {
		run.State = runtime.StateFailed
		run.Error = runErr.Error()
		s.persist(ctx, run)

		msg := runErr.Error()
		s.logger.Error("query execution failed", "run_id", run.ID, "error", runErr)
		// Failure elapsed time is reported unrounded while the success path
		// rounds to two decimals; both shapes are pinned by tests.
		return &ExecutionResult{Success: false, Error: &msg, ExecutionTime: elapsed}, nil
	}

	run.State = runtime.StateComplete
	run.Output = res.Output
	run.ToolCalls = res.ToolCalls
	s.persist(ctx, run)

	s.logger.Info("query executed", "run_id", run.ID, "tool_calls", len(res.ToolCalls), "elapsed_s", elapsed)
	return &ExecutionResult{
		Success:       true,
		Result:        res.Output,
		ExecutionTime: math.Round(elapsed*100) / 100,
	}, nil
}

// AvailableTools returns the sorted identifiers of the current catalog.
func (s *Service) AvailableTools(ctx context.Context) ([]string, error) {
	return s.catalog.IDs(ctx)
}

// Runs returns up to limit recorded runs, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]*runtime.Run, error) {
	return s.store.List(ctx, limit)
}

// Run returns one recorded run by id.
func (s *Service) Run(ctx context.Context, id string) (*runtime.Run, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) persist(ctx context.Context, run *runtime.Run) {
	if err := s.store.Save(ctx, run); err != nil {
		s.logger.Warn("failed to record run outcome", "run_id", run.ID, "error", err)
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
