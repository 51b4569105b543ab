// Package agent owns the tool-scoped client cache and the query executor: it
// resolves a requested tool set to a client, runs queries through a bounded
// worker pool, and records every execution.
package agent

import (
	"fmt"
	"strings"
)

// InvalidToolsError reports requested tool identifiers missing from the
// catalog. It is deterministic for a given catalog: identical requests fail
// identically until the catalog changes.
type InvalidToolsError struct {
	Invalid   []string
	Available []string
}

func (e *InvalidToolsError) Error() string {
	return fmt.Sprintf("The following tools are not available: %s. Available tools: %s",
		strings.Join(e.Invalid, ", "), strings.Join(e.Available, ", "))
}
