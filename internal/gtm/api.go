package gtm

import (
	"context"
	"errors"
)

// ErrContainerNotFound is returned when no accessible container carries the
// requested public id.
var ErrContainerNotFound = errors.New("tag manager container not found")

// API is the tag-manager surface the approval workflow depends on.
type API interface {
	// FindContainer resolves a public container id ("GTM-XXXXXX") across
	// all accessible accounts. Returns ErrContainerNotFound on a miss.
	FindContainer(ctx context.Context, publicID string) (Container, error)

	// BatchCreateTags creates the tags in the container, one result per
	// input tag in the same order. A failed create is recorded in its
	// result and never aborts the rest of the batch.
	BatchCreateTags(ctx context.Context, container Container, tags []Tag) []TagOperationResult
}
