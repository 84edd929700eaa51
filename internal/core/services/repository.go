package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Verify interface compliance.
var _ Generator = (*RepositoryGenerator)(nil)

// RepositoryGenerator writes one repository interface per entity of a
// domain package, extending the configured repository interface.
type RepositoryGenerator struct {
	host    driven.ElementHost
	tree    driven.SourceTree
	codec   driven.SourceCodec
	locator *DomainLocator
	markers domain.MarkerSettings
}

// NewRepositoryGenerator creates the repository generator.
func NewRepositoryGenerator(host driven.ElementHost, tree driven.SourceTree, codec driven.SourceCodec, locator *DomainLocator, markers domain.MarkerSettings) *RepositoryGenerator {
	return &RepositoryGenerator{
		host:    host,
		tree:    tree,
		codec:   codec,
		locator: locator,
		markers: markers,
	}
}

// Kind returns domain.KindGenerateRepositories.
func (g *RepositoryGenerator) Kind() domain.AnnotationKind {
	return domain.KindGenerateRepositories
}

// Generate reconciles the repository interfaces of every entity.
func (g *RepositoryGenerator) Generate(ctx context.Context, job *Job) ([]domain.FileEdit, error) {
	attrs, err := DecodeRepositoryAttributes(job.Attrs)
	if err != nil {
		return nil, err
	}
	base, err := g.repositoryInterface(ctx, job.Element, attrs.RepositoryInterface)
	if err != nil {
		return nil, err
	}

	entities, err := g.locator.Find(ctx, job.Roots, attrs.DomainPackagePath, g.markers.Entity, g.markers.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		if !e.HasID() {
			return nil, domain.NewStructuralPreconditionError(e.Name, "",
				fmt.Sprintf("Entity %q doesn't have field annotated with @%s!", e.Name, domain.SimpleName(g.markers.ID)))
		}
	}

	pkg := domain.PathToPackage(attrs.RepositoryPackagePath)
	edits := make([]domain.FileEdit, 0, len(entities))
	for _, e := range entities {
		name := e.Name + attrs.RepositorySuffix
		p := targetPath(job.Root, pkg, name)
		unit, created, err := loadOrCreate(g.tree, g.codec, p, pkg, name, domain.KindInterface)
		if err != nil {
			return nil, err
		}
		if err := g.reconcile(unit, pkg, base, e); err != nil {
			return nil, err
		}
		edits = append(edits, domain.FileEdit{Path: p, Unit: unit, Created: created})
	}
	return edits, nil
}

// repositoryInterface resolves the class literal and checks it is a
// generic interface with two type parameters.
func (g *RepositoryGenerator) repositoryInterface(ctx context.Context, el domain.AnnotatedElement, literal string) (*domain.ClassInfo, error) {
	info, err := g.host.ResolveClass(ctx, el, literal)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewConfigurationError(g.Kind(), "repositoryInterface", literal,
			fmt.Sprintf("Class %q not found!", literal))
	}
	if err != nil {
		return nil, err
	}
	if info.Kind != domain.KindInterface {
		return nil, domain.NewConfigurationError(g.Kind(), "repositoryInterface", literal,
			fmt.Sprintf("Object %q is not interface!", info.Name))
	}
	if info.TypeParams != 2 {
		return nil, domain.NewConfigurationError(g.Kind(), "repositoryInterface", literal,
			fmt.Sprintf("Interface %q don't have two generic parameters!", info.Name))
	}
	return info, nil
}

func (g *RepositoryGenerator) reconcile(unit *domain.SourceUnit, pkg string, base *domain.ClassInfo, e domain.DomainClassRef) error {
	unit.SetPackage(pkg)
	if err := ensureKind(unit, domain.KindInterface); err != nil {
		return err
	}
	td := unit.Type
	unit.MarkChanged(td.SetModifiers(domain.Modifiers{"public"}))

	args := []domain.TypeRef{domain.NewTypeRef(e.Name), e.IDType.Boxed()}
	unit.MarkChanged(extend(td, domain.NewTypeRef(base.Name, args...)))

	unit.AddImport(base.QualifiedName)
	unit.AddImport(e.QualifiedName())
	for _, imp := range e.IDImports {
		unit.AddImport(imp)
	}
	return nil
}

// extend makes td extend ref. A clause naming the same raw type gets its
// type arguments updated; other clauses are left alone.
func extend(td *domain.TypeDeclaration, ref domain.TypeRef) bool {
	for i := range td.Extends {
		cur := &td.Extends[i]
		if cur.Raw() != ref.Raw() {
			continue
		}
		if argsEqual(cur.Args, ref.Args) {
			return false
		}
		cur.Args = ref.Args
		td.Modified = true
		return true
	}
	td.Extends = append(td.Extends, ref)
	td.Modified = true
	return true
}

func argsEqual(a, b []domain.TypeRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
