package services

import (
	"fmt"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// GeneratorRegistry holds one generator per annotation kind and remembers
// registration order, which is the processing order.
type GeneratorRegistry struct {
	generators map[domain.AnnotationKind]Generator
	order      []domain.AnnotationKind
}

// NewGeneratorRegistry creates an empty registry.
func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{generators: make(map[domain.AnnotationKind]Generator)}
}

// Register adds a generator. Registering a kind twice is an error.
func (r *GeneratorRegistry) Register(g Generator) error {
	kind := g.Kind()
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown annotation kind %q", domain.ErrInvalidInput, kind)
	}
	if _, exists := r.generators[kind]; exists {
		return fmt.Errorf("%w: generator for @%s already registered", domain.ErrInvalidInput, kind)
	}
	r.generators[kind] = g
	r.order = append(r.order, kind)
	return nil
}

// Get returns the generator for kind. Returns domain.ErrNotFound if none.
func (r *GeneratorRegistry) Get(kind domain.AnnotationKind) (Generator, error) {
	g, ok := r.generators[kind]
	if !ok {
		return nil, fmt.Errorf("generator for @%s: %w", kind, domain.ErrNotFound)
	}
	return g, nil
}

// Kinds returns the registered kinds in registration order.
func (r *GeneratorRegistry) Kinds() []domain.AnnotationKind {
	out := make([]domain.AnnotationKind, len(r.order))
	copy(out, r.order)
	return out
}

// GeneratorDeps are the ports the built-in generators need.
type GeneratorDeps struct {
	Host     driven.ElementHost
	Tree     driven.SourceTree
	Codec    driven.SourceCodec
	Settings domain.Settings
}

// NewBuiltinRegistry registers the four built-in generators in processing
// order: Singleton, ThreadTemplate, GenerateRepositories, GenerateControllers.
func NewBuiltinRegistry(deps GeneratorDeps) *GeneratorRegistry {
	r := NewGeneratorRegistry()
	locator := NewDomainLocator(deps.Tree, deps.Codec)
	for _, g := range []Generator{
		NewSingletonGenerator(deps.Codec),
		NewThreadTemplateGenerator(deps.Codec),
		NewRepositoryGenerator(deps.Host, deps.Tree, deps.Codec, locator, deps.Settings.Markers),
		NewControllerGenerator(deps.Host, deps.Tree, deps.Codec, locator, deps.Settings.Markers, deps.Settings.Controller.MappingAnnotation),
	} {
		// Kinds are distinct and valid.
		_ = r.Register(g)
	}
	return r
}
