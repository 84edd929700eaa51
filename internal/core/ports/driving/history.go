package driving

import (
	"context"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// HistoryService exposes past run reports.
type HistoryService interface {
	// List returns recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunReport, error)

	// Get returns one run by ID or unique ID prefix.
	Get(ctx context.Context, id string) (*domain.RunReport, error)

	// Latest returns the most recent run.
	Latest(ctx context.Context) (*domain.RunReport, error)

	// Prune keeps the most recent keep runs and deletes the rest.
	Prune(ctx context.Context, keep int) (int, error)
}
