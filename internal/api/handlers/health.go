package handlers

import (
	"net/http"

	"github.com/matiasleandrokruk/agentgate/internal/version"
)

// Health handles GET /health. Unauthenticated, used by load balancers and
// health probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}

// Root handles GET /.
func Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "agentgate is running",
		"version":  version.Version,
		"docs_url": "/docs",
	})
}
