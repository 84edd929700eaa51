package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Verify interface compliance.
var _ Generator = (*ControllerGenerator)(nil)

const baseURL = "BASE_URL"

// ControllerGenerator writes one controller class per entity of a domain
// package, mapped at /<entity name in lower case>.
type ControllerGenerator struct {
	host    driven.ElementHost
	tree    driven.SourceTree
	codec   driven.SourceCodec
	locator *DomainLocator
	markers domain.MarkerSettings
	mapping string
	lower   cases.Caser
}

// NewControllerGenerator creates the controller generator. mapping is the
// qualified name of the request-mapping annotation.
func NewControllerGenerator(host driven.ElementHost, tree driven.SourceTree, codec driven.SourceCodec, locator *DomainLocator, markers domain.MarkerSettings, mapping string) *ControllerGenerator {
	return &ControllerGenerator{
		host:    host,
		tree:    tree,
		codec:   codec,
		locator: locator,
		markers: markers,
		mapping: mapping,
		lower:   cases.Lower(language.Und),
	}
}

// Kind returns domain.KindGenerateControllers.
func (g *ControllerGenerator) Kind() domain.AnnotationKind {
	return domain.KindGenerateControllers
}

// Generate reconciles the controller classes of every entity.
func (g *ControllerGenerator) Generate(ctx context.Context, job *Job) ([]domain.FileEdit, error) {
	attrs, err := DecodeControllerAttributes(job.Attrs)
	if err != nil {
		return nil, err
	}
	markers := make([]*domain.ClassInfo, 0, len(attrs.ControllerAnnotation))
	for _, literal := range attrs.ControllerAnnotation {
		info, err := g.controllerAnnotation(ctx, job.Element, literal)
		if err != nil {
			return nil, err
		}
		markers = append(markers, info)
	}

	entities, err := g.locator.Find(ctx, job.Roots, attrs.DomainPackagePath, g.markers.Entity, g.markers.ID)
	if err != nil {
		return nil, err
	}

	pkg := domain.PathToPackage(attrs.ControllerPackagePath)
	edits := make([]domain.FileEdit, 0, len(entities))
	for _, e := range entities {
		name := e.Name + attrs.ControllerSuffix
		p := targetPath(job.Root, pkg, name)
		unit, created, err := loadOrCreate(g.tree, g.codec, p, pkg, name, domain.KindClass)
		if err != nil {
			return nil, err
		}
		if err := g.reconcile(unit, pkg, markers, e); err != nil {
			return nil, err
		}
		edits = append(edits, domain.FileEdit{Path: p, Unit: unit, Created: created})
	}
	return edits, nil
}

func (g *ControllerGenerator) controllerAnnotation(ctx context.Context, el domain.AnnotatedElement, literal string) (*domain.ClassInfo, error) {
	info, err := g.host.ResolveClass(ctx, el, literal)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewConfigurationError(g.Kind(), "controllerAnnotation", literal,
			fmt.Sprintf("Class %q not found!", literal))
	}
	if err != nil {
		return nil, err
	}
	if info.Kind != domain.KindAnnotation {
		return nil, domain.NewConfigurationError(g.Kind(), "controllerAnnotation", literal,
			fmt.Sprintf("Object %q is not annotation!", info.Name))
	}
	return info, nil
}

func (g *ControllerGenerator) reconcile(unit *domain.SourceUnit, pkg string, markers []*domain.ClassInfo, e domain.DomainClassRef) error {
	unit.SetPackage(pkg)
	if err := ensureKind(unit, domain.KindClass); err != nil {
		return err
	}
	td := unit.Type
	name := td.Name

	mods := append(domain.Modifiers{"public"}, td.Modifiers.Without("public", "private", "protected")...)
	unit.MarkChanged(td.SetModifiers(mods))

	present := false
	for _, m := range markers {
		if td.HasAnnotation(m.Name) {
			present = true
			break
		}
	}
	if !present {
		td.AddAnnotation(domain.Annotation{Name: markers[0].Name})
		unit.Changed = true
		unit.AddImport(markers[0].QualifiedName)
	}

	value, err := g.codec.ParseExpr(name + "." + baseURL)
	if err != nil {
		return fmt.Errorf("parse mapping value: %w", err)
	}
	mapping := domain.SimpleName(g.mapping)
	if a := td.Annotation(mapping); a != nil {
		if a.SetSingleValue(value) {
			td.Modified = true
			unit.Changed = true
		}
	} else {
		td.AddAnnotation(domain.Annotation{Name: mapping, Args: []domain.AnnotationArg{{Key: "value", Value: value}}, Shorthand: true})
		unit.Changed = true
	}
	unit.AddImport(g.mapping)

	url, err := g.codec.ParseExpr(domain.QuoteJava("/" + g.lower.String(e.Name)))
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	r := NewReconciler(unit)
	r.Field(&domain.FieldSlot{
		MemberBase: domain.MemberBase{Modifiers: domain.Modifiers{"public", "static", "final"}},
		Type:       domain.NewTypeRef("String"),
		Name:       baseURL,
		Init:       url,
	}, InitFillEmpty, IdentityMatch(baseURL))
	return nil
}
