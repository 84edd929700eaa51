package driven

import (
	"context"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// RunStore persists run reports.
type RunStore interface {
	// Save stores a run report with its outcomes.
	Save(ctx context.Context, report *domain.RunReport) error

	// Get retrieves a run by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.RunReport, error)

	// List returns the most recent runs first, at most limit (0 means all).
	List(ctx context.Context, limit int) ([]domain.RunReport, error)

	// Latest returns the most recent run. Returns domain.ErrNotFound if none.
	Latest(ctx context.Context) (*domain.RunReport, error)

	// Prune deletes all but the most recent keep runs and returns how many
	// were removed.
	Prune(ctx context.Context, keep int) (int, error)
}
