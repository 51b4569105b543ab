package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matiasleandrokruk/agentgate/internal/domain/agent"
	"github.com/matiasleandrokruk/agentgate/internal/domain/runtime"
)

// QueryService is the domain surface the handlers depend on.
// *agent.Service is the production implementation.
type QueryService interface {
	RunQuery(ctx context.Context, query string, toolIDs []string) (*agent.ExecutionResult, error)
	AvailableTools(ctx context.Context) ([]string, error)
	Runs(ctx context.Context, limit int) ([]*runtime.Run, error)
	Run(ctx context.Context, id string) (*runtime.Run, error)
}

type RunHandler struct {
	service QueryService
}

func NewRunHandler(service QueryService) *RunHandler {
	return &RunHandler{service: service}
}

type runRequest struct {
	Query string `json:"query"`
	// Tools is required but may be empty. A pointer distinguishes an omitted
	// field from an explicit empty list.
	Tools *[]string `json:"tools"`
}

// RunQuery handles POST /run.
//
// Status mapping: invalid tool identifiers → 400, malformed body → 422,
// anything else → 500. A runtime fault is NOT an HTTP error: it comes back
// as 200 with success=false.
func (h *RunHandler) RunQuery(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, validationIssue{
			Loc: []string{"body"}, Msg: "invalid JSON body", Type: "value_error",
		})
		return
	}

	var issues []validationIssue
	if req.Query == "" {
		issues = append(issues, validationIssue{
			Loc: []string{"body", "query"}, Msg: "query must not be empty", Type: "value_error",
		})
	}
	if req.Tools == nil {
		issues = append(issues, validationIssue{
			Loc: []string{"body", "tools"}, Msg: "field required", Type: "missing",
		})
	}
	if len(issues) > 0 {
		writeValidationError(w, issues...)
		return
	}

	result, err := h.service.RunQuery(r.Context(), req.Query, *req.Tools)
	if err != nil {
		var invalidErr *agent.InvalidToolsError
		if errors.As(err, &invalidErr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":           "Invalid tools requested",
				"message":         invalidErr.Error(),
				"invalid_tools":   invalidErr.Invalid,
				"available_tools": invalidErr.Available,
			})
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
