// Package host implements the element host over a Java source tree: it
// finds processor annotations by reading sources and resolves class
// literals against imports, the tree and a catalog of known types.
package host

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
	"github.com/custodia-labs/annlib/internal/logger"
)

// Ensure Host implements the interface.
var _ driven.ElementHost = (*Host)(nil)

// Config selects the files scanned and the annotation package.
type Config struct {
	// AnnotationPackage is the package declaring the processor annotations.
	AnnotationPackage string

	// Include and Exclude are doublestar patterns relative to the project.
	Include []string
	Exclude []string

	// KnownTypes resolve class literals that have no source in the tree.
	KnownTypes []domain.KnownType
}

// Host reads annotated elements from the source tree. Parsed files are
// cached until Refresh.
type Host struct {
	tree  driven.SourceTree
	codec driven.SourceCodec
	cfg   Config
	known map[string]domain.KnownType

	mu      sync.Mutex
	scanned bool
	units   map[string]*domain.SourceUnit
	types   map[string]*domain.SourceUnit
	paths   []string
}

// NewHost creates a host. The known types of cfg extend DefaultKnownTypes.
func NewHost(tree driven.SourceTree, codec driven.SourceCodec, cfg Config) *Host {
	known := make(map[string]domain.KnownType)
	for _, kt := range domain.DefaultKnownTypes() {
		known[kt.QualifiedName] = kt
	}
	for _, kt := range cfg.KnownTypes {
		known[kt.QualifiedName] = kt
	}
	return &Host{
		tree:  tree,
		codec: codec,
		cfg:   cfg,
		known: known,
		units: make(map[string]*domain.SourceUnit),
		types: make(map[string]*domain.SourceUnit),
	}
}

// Refresh drops every cached file.
func (h *Host) Refresh() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scanned = false
	h.units = make(map[string]*domain.SourceUnit)
	h.types = make(map[string]*domain.SourceUnit)
	h.paths = nil
}

func (h *Host) scan(ctx context.Context) error {
	if h.scanned {
		return nil
	}
	files, err := h.tree.Glob(h.cfg.Include, h.cfg.Exclude)
	if err != nil {
		return fmt.Errorf("scan sources: %w", err)
	}
	for _, p := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !strings.HasSuffix(p, ".java") {
			continue
		}
		src, err := h.tree.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		unit, err := h.codec.Parse(p, src)
		if err != nil {
			logger.Debug("skipping %s: %v", p, err)
			continue
		}
		h.units[p] = unit
		h.paths = append(h.paths, p)
		if unit.Type != nil {
			if _, dup := h.types[unit.QualifiedName()]; !dup {
				h.types[unit.QualifiedName()] = unit
			}
		}
	}
	sort.Strings(h.paths)
	h.scanned = true
	logger.Debug("scanned %d source files", len(h.paths))
	return nil
}

// Elements returns the top-level types carrying the kind's annotation, in
// path order.
func (h *Host) Elements(ctx context.Context, kind domain.AnnotationKind) ([]domain.AnnotatedElement, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.scan(ctx); err != nil {
		return nil, err
	}

	var out []domain.AnnotatedElement
	for _, p := range h.paths {
		unit := h.units[p]
		td := unit.Type
		if td == nil {
			continue
		}
		for _, a := range td.Annotations {
			if !h.matches(unit, a, kind) {
				continue
			}
			out = append(out, domain.AnnotatedElement{
				Kind:       kind,
				Package:    unit.Package,
				TypeName:   td.Name,
				File:       p,
				Pos:        td.Pos,
				Annotation: a,
			})
			break
		}
	}
	return out, nil
}

// matches reports whether a names the processor annotation kind as seen
// from unit: fully qualified, or by simple name when the annotation package
// is the unit's own package or imported and no other import shadows it.
func (h *Host) matches(unit *domain.SourceUnit, a domain.Annotation, kind domain.AnnotationKind) bool {
	fqn := domain.Qualify(h.cfg.AnnotationPackage, string(kind))
	if a.Name == fqn {
		return true
	}
	if a.Name != string(kind) {
		return false
	}
	for _, imp := range unit.Imports {
		if imp.Static || imp.Wildcard || imp.SimpleName() != string(kind) {
			continue
		}
		return imp.Name == fqn
	}
	if unit.Package == h.cfg.AnnotationPackage {
		return true
	}
	for _, pkg := range unit.WildcardPackages() {
		if pkg == h.cfg.AnnotationPackage {
			return true
		}
	}
	return false
}

// Attributes decodes the attributes written on the element's annotation.
func (h *Host) Attributes(_ context.Context, el domain.AnnotatedElement) (domain.AttributeSet, error) {
	set := make(domain.AttributeSet, len(el.Annotation.Args))
	for _, arg := range el.Annotation.Args {
		if arg.Value == nil {
			continue
		}
		v := attributeValue(arg.Value)
		v.Pos = arg.Pos
		set[arg.Key] = v
	}
	return set, nil
}

func attributeValue(e *domain.Expr) domain.AttributeValue {
	v := domain.AttributeValue{Kind: domain.ValueOther, Text: e.Text}
	switch e.Kind {
	case domain.ExprString:
		if s, ok := e.StringValue(); ok {
			v.Kind = domain.ValueString
			v.Str = s
		}
	case domain.ExprBool:
		v.Kind = domain.ValueBool
		v.Bool = strings.TrimSpace(e.Text) == "true"
	case domain.ExprNumber:
		v.Kind = domain.ValueNumber
	case domain.ExprClass:
		if name, ok := e.ClassName(); ok {
			v.Kind = domain.ValueClass
			v.Class = name
		}
	case domain.ExprArray:
		v.Kind = domain.ValueArray
		for _, el := range e.Elems {
			v.Elems = append(v.Elems, attributeValue(el))
		}
	}
	return v
}

// ResolveClass resolves literal as written in the element's file: a
// qualified name is taken as-is; a simple name is looked up through the
// file's single-type imports, its package, its wildcard imports and
// java.lang. Each candidate is checked against the source tree first and
// the known types second.
func (h *Host) ResolveClass(ctx context.Context, el domain.AnnotatedElement, literal string) (*domain.ClassInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.scan(ctx); err != nil {
		return nil, err
	}

	unit := h.units[el.File]
	if unit == nil {
		return nil, fmt.Errorf("element file %s: %w", el.File, domain.ErrNotFound)
	}

	for _, fqn := range candidates(unit, literal) {
		if u, ok := h.types[fqn]; ok {
			td := u.Type
			return &domain.ClassInfo{
				Name:          td.Name,
				QualifiedName: fqn,
				Kind:          td.Kind,
				TypeParams:    len(td.TypeParams),
			}, nil
		}
		if kt, ok := h.known[fqn]; ok {
			return &domain.ClassInfo{
				Name:          domain.SimpleName(fqn),
				QualifiedName: fqn,
				Kind:          kt.Kind,
				TypeParams:    kt.TypeParams,
			}, nil
		}
	}
	return nil, fmt.Errorf("class %s: %w", literal, domain.ErrNotFound)
}

func candidates(unit *domain.SourceUnit, literal string) []string {
	if strings.Contains(literal, ".") {
		return []string{literal}
	}
	var out []string
	if fqn := unit.ResolveSimpleName(literal); fqn != "" {
		out = append(out, fqn)
	}
	out = append(out, domain.Qualify(unit.Package, literal))
	for _, pkg := range unit.WildcardPackages() {
		out = append(out, domain.Qualify(pkg, literal))
	}
	return append(out, "java.lang."+literal)
}
