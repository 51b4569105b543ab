package runtime

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrRunNotFound is returned by Get when no run has the given id.
var ErrRunNotFound = errors.New("run not found")

// RunStore persists run records.
type RunStore interface {
	// Save inserts or replaces the run keyed by run.ID.
	Save(ctx context.Context, run *Run) error
	// Get returns the run with the given id, or ErrRunNotFound.
	Get(ctx context.Context, id string) (*Run, error)
	// List returns up to limit runs, newest first. limit <= 0 means no cap.
	List(ctx context.Context, limit int) ([]*Run, error)
}

// MemoryStore keeps runs in process memory. It is the MEMORY storage class;
// contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

// Save implements RunStore.
func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	cp := *run
	s.mu.Lock()
	s.runs[run.ID] = &cp
	s.mu.Unlock()
	return nil
}

// Get implements RunStore.
func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

// List implements RunStore.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	out := make([]*Run, 0, len(s.runs))
	for _, run := range s.runs {
		cp := *run
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
