// Shared response helpers for the HTTP handlers.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	defaultRunListLimit = 25
	maxRunListLimit     = 100
)

// writeJSON writes v with the given status. Encoding failures after the
// header is written can only be logged by middleware; they are ignored here.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the {"detail": "<message>"} error shape used for server
// faults and not-found responses.
func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

// validationIssue is one entry of a 422 response body.
type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeValidationError rejects a malformed request body with a 422 and a
// field-level detail list.
func writeValidationError(w http.ResponseWriter, issues ...validationIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
}

// parseLimit extracts a bounded "limit" query parameter.
func parseLimit(r *http.Request) int {
	limit := defaultRunListLimit
	if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 {
		if lim > maxRunListLimit {
			lim = maxRunListLimit
		}
		limit = lim
	}
	return limit
}
