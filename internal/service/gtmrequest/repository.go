package gtmrequest

import "context"

// Store defines the persistence contract for approval requests.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save inserts a new request and assigns its id.
	Save(ctx context.Context, export *Export) error

	// ByID returns a stored request. Returns ErrNotFound if it doesn't
	// exist.
	ByID(ctx context.Context, id int64) (Export, error)

	// Update overwrites a stored request (action information and tag
	// results).
	Update(ctx context.Context, export Export) error
}
