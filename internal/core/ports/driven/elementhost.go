package driven

import (
	"context"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// ElementHost stands in for the compiler: it enumerates annotated
// declarations, reads their attributes and resolves class literals.
type ElementHost interface {
	// Elements returns every top-level type carrying the annotation kind.
	Elements(ctx context.Context, kind domain.AnnotationKind) ([]domain.AnnotatedElement, error)

	// Attributes returns the attributes written on the element's annotation.
	Attributes(ctx context.Context, element domain.AnnotatedElement) (domain.AttributeSet, error)

	// ResolveClass resolves a class literal as written in the element's
	// file. Returns domain.ErrNotFound if the type cannot be located.
	ResolveClass(ctx context.Context, element domain.AnnotatedElement, literal string) (*domain.ClassInfo, error)

	// Refresh drops anything cached from a previous run.
	Refresh()
}
