// Package ctxkeys holds the shared context keys for the API layer.
// A leaf package so api, middleware, and handlers can share keys without
// import cycles.
package ctxkeys

import "context"

// Key is the named type for all API context keys. context.Value compares
// both type and value, so a named type cannot collide with plain strings
// from other packages.
type Key string

// Subject is the context key for the authenticated caller, injected by the
// auth middleware from JWT claims.
const Subject Key = "subject"

// WithValue adds a ctxkeys.Key value to the context.
func WithValue(ctx context.Context, key Key, value string) context.Context {
	return context.WithValue(ctx, key, value)
}
