package services

import (
	"context"
	"path"
	"strings"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
	"github.com/custodia-labs/annlib/internal/logger"
)

// DomainLocator finds the entity classes of a domain package.
type DomainLocator struct {
	tree  driven.SourceTree
	codec driven.SourceCodec
}

// NewDomainLocator creates a locator reading from tree.
func NewDomainLocator(tree driven.SourceTree, codec driven.SourceCodec) *DomainLocator {
	return &DomainLocator{tree: tree, codec: codec}
}

// Find lists the non-abstract classes of pkg carrying the marker
// annotation, in directory listing order. pkg is looked up under each root
// in turn; the first root holding the package directory wins. idMarker
// names the annotation of the identifier field. Classes without such a
// field are returned with an empty IDField.
func (l *DomainLocator) Find(ctx context.Context, roots []string, pkg, marker, idMarker string) ([]domain.DomainClassRef, error) {
	dir, ok := l.packageDir(roots, pkg)
	if !ok {
		return nil, domain.NewNoSuchPackageError(domain.PathToPackage(pkg))
	}

	entries, err := l.tree.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var refs []domain.DomainClassRef
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".java") {
			continue
		}
		p := path.Join(dir, e.Name())
		src, err := l.tree.ReadFile(p)
		if err != nil {
			return nil, err
		}
		unit, err := l.codec.Parse(p, src)
		if err != nil {
			logger.Warn("skipping %s: %v", p, err)
			continue
		}
		td := unit.Type
		if td == nil || td.Kind != domain.KindClass || td.Modifiers.Has("abstract") || !td.HasAnnotation(marker) {
			continue
		}
		ref := domain.DomainClassRef{
			Name:    td.Name,
			Package: unit.Package,
			Path:    p,
		}
		if ref.Package == "" {
			ref.Package = domain.PathToPackage(pkg)
		}
		l.identifier(&ref, unit, dir, idMarker)
		logger.Debug("found %s (id %q)", ref.QualifiedName(), ref.IDField)
		refs = append(refs, ref)
	}

	if len(refs) == 0 {
		return nil, domain.NewNoAnnotatedClassesError(domain.PathToPackage(pkg), marker)
	}
	return refs, nil
}

func (l *DomainLocator) packageDir(roots []string, pkg string) (string, bool) {
	rel := domain.PackageToPath(pkg)
	for _, root := range roots {
		dir := path.Join(root, rel)
		if l.tree.IsDir(dir) {
			return dir, true
		}
	}
	return "", false
}

// identifier fills the id field of ref from the first field annotated
// with idMarker, along with the imports its type needs.
func (l *DomainLocator) identifier(ref *domain.DomainClassRef, unit *domain.SourceUnit, dir, idMarker string) {
	for _, f := range unit.Type.Fields() {
		if !f.HasAnnotation(idMarker) {
			continue
		}
		ref.IDField = f.Name
		ref.IDType = f.Type.Clone()
		for _, name := range f.Type.ReferencedNames() {
			if strings.Contains(name, ".") {
				continue
			}
			if fqn := unit.ResolveSimpleName(name); fqn != "" {
				ref.IDImports = append(ref.IDImports, fqn)
				continue
			}
			if l.tree.Exists(path.Join(dir, name+".java")) {
				ref.IDImports = append(ref.IDImports, domain.Qualify(ref.Package, name))
			}
		}
		return
	}
}
