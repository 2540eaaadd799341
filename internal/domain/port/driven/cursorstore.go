package driven

import "context"

// CursorStore defines the driven port for last-seen release persistence.
// The cursor is the opaque release identifier, never a timestamp.
type CursorStore interface {
	// Get returns the last-seen release id for the repository, or ("", nil)
	// when the repository has never been seen.
	Get(ctx context.Context, repoFullName string) (string, error)
	// Set records the last-seen release id as a full-record replace.
	Set(ctx context.Context, repoFullName, releaseID string) error
}
