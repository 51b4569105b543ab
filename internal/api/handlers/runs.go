package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matiasleandrokruk/agentgate/internal/domain/runtime"
)

type RunsHandler struct {
	service QueryService
}

func NewRunsHandler(service QueryService) *RunsHandler {
	return &RunsHandler{service: service}
}

// ListRuns handles GET /runs: recorded executions, newest first.
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.service.Runs(r.Context(), parseLimit(r))
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to list runs: "+err.Error())
		return
	}
	if runs == nil {
		runs = []*runtime.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": runs,
		"meta": map[string]int{"total": len(runs)},
	})
}

// GetRun handles GET /runs/{id}.
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.Run(r.Context(), id)
	if errors.Is(err, runtime.ErrRunNotFound) {
		writeDetail(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to get run: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}
