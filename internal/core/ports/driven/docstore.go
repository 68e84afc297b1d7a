package driven

import "context"

// DocumentStore uploads rendered artifacts to the remote document store.
// Paths are deterministic per submission id, so a retried upload
// overwrites rather than duplicates.
type DocumentStore interface {
	// Upload writes content to path (relative to the configured base
	// folder) and returns a destination descriptor, typically the remote
	// file identifier.
	Upload(ctx context.Context, path string, content []byte) (string, error)
}
