package runtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore persists runs in the agent_run table. It is the DISK storage
// class; rows survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already-migrated database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save implements RunStore.
func (s *SQLiteStore) Save(ctx context.Context, run *Run) error {
	toolIDs, err := json.Marshal(run.ToolIDs)
	if err != nil {
		return fmt.Errorf("sqlite store: encode tool_ids: %w", err)
	}
	calls := run.ToolCalls
	if calls == nil {
		calls = []ToolInvocation{}
	}
	toolCalls, err := json.Marshal(calls)
	if err != nil {
		return fmt.Errorf("sqlite store: encode tool_calls: %w", err)
	}

	var completedAt any
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO agent_run (id, query, tool_ids, state, output, error, tool_calls, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state        = excluded.state,
			output       = excluded.output,
			error        = excluded.error,
			tool_calls   = excluded.tool_calls,
			completed_at = excluded.completed_at`,
		run.ID, run.Query, string(toolIDs), string(run.State),
		nullable(run.Output), nullable(run.Error), string(toolCalls),
		run.StartedAt.UTC().Format(time.RFC3339Nano), completedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite store: save run %s: %w", run.ID, err)
	}
	return nil
}

// Get implements RunStore.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, query, tool_ids, state, output, error, tool_calls, started_at, completed_at
		FROM agent_run WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite store: get run %s: %w", id, err)
	}
	return run, nil
}

// List implements RunStore.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Run, error) {
	q := `
		SELECT id, query, tool_ids, state, output, error, tool_calls, started_at, completed_at
		FROM agent_run ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: list runs: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite store: list runs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run         Run
		toolIDs     string
		toolCalls   string
		output      sql.NullString
		errMsg      sql.NullString
		startedAt   string
		completedAt sql.NullString
		state       string
	)
	if err := row.Scan(&run.ID, &run.Query, &toolIDs, &state, &output, &errMsg, &toolCalls, &startedAt, &completedAt); err != nil {
		return nil, err
	}

	run.State = State(state)
	run.Output = output.String
	run.Error = errMsg.String

	if err := json.Unmarshal([]byte(toolIDs), &run.ToolIDs); err != nil {
		return nil, fmt.Errorf("decode tool_ids: %w", err)
	}
	if err := json.Unmarshal([]byte(toolCalls), &run.ToolCalls); err != nil {
		return nil, fmt.Errorf("decode tool_calls: %w", err)
	}

	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("decode started_at: %w", err)
	}
	run.StartedAt = started

	if completedAt.Valid {
		completed, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("decode completed_at: %w", err)
		}
		run.CompletedAt = &completed
	}
	return &run, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
