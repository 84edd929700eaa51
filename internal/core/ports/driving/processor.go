package driving

import (
	"context"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// Processor runs every registered generator over the project.
type Processor interface {
	// Run processes all annotated elements once.
	Run(ctx context.Context, opts domain.RunOptions) (*domain.RunReport, error)

	// Kinds returns the annotation kinds the processor handles, in order.
	Kinds() []domain.AnnotationKind
}
