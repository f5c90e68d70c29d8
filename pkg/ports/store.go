package ports

import (
	"context"

	"github.com/railyard/shunt/pkg/domain"
)

// RunStore persists run records produced by an effect-tracking collaborator
// (see pkg/recorder). Implementations must return domain.ErrRunNotFound for
// unknown run IDs and must not let callers mutate stored records through
// returned pointers.
type RunStore interface {
	// Save persists the record, overwriting any previous record for the
	// same run ID.
	Save(ctx context.Context, record *domain.RunRecord) error

	// Load retrieves a record by run ID.
	Load(ctx context.Context, runID string) (*domain.RunRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of all stored runs.
	List(ctx context.Context) ([]string, error)
}
