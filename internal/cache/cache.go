// Package cache stores rendered list pages keyed by their canonical query.
// Writes to the underlying table bump a generation counter instead of
// deleting keys, so stale pages simply stop being addressed.
package cache

import (
	"context"
	"net/url"
)

// ListCache caches list pages for one resource.
//
// Callers resolve a key with Key before reading the source of truth and
// pass that same key to Set. A key resolved before an Invalidate never
// addresses a page readable after it.
type ListCache interface {
	// Key returns the opaque entry key for query in the current generation
	Key(ctx context.Context, query url.Values) (string, error)
	// Get fills dest and reports a hit
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, val interface{}) error
	// Invalidate drops every cached page
	Invalidate(ctx context.Context) error
}

// queryKey is stable for equal query values regardless of parameter order
func queryKey(query url.Values) string {
	return query.Encode()
}
