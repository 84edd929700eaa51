package domain

import (
	"fmt"
	"strings"
)

// AnnotationKind names a processor annotation.
type AnnotationKind string

// Processor annotations, in processing order.
const (
	KindSingleton            AnnotationKind = "Singleton"
	KindThreadTemplate       AnnotationKind = "ThreadTemplate"
	KindGenerateRepositories AnnotationKind = "GenerateRepositories"
	KindGenerateControllers  AnnotationKind = "GenerateControllers"
)

// AllAnnotationKinds returns every processor annotation in processing order.
func AllAnnotationKinds() []AnnotationKind {
	return []AnnotationKind{
		KindSingleton,
		KindThreadTemplate,
		KindGenerateRepositories,
		KindGenerateControllers,
	}
}

// IsValid returns true if the kind is a known processor annotation.
func (k AnnotationKind) IsValid() bool {
	switch k {
	case KindSingleton, KindThreadTemplate, KindGenerateRepositories, KindGenerateControllers:
		return true
	default:
		return false
	}
}

// ParseAnnotationKind returns the kind whose name matches s, ignoring case
// and a leading "@".
func ParseAnnotationKind(s string) (AnnotationKind, error) {
	name := strings.TrimPrefix(strings.TrimSpace(s), "@")
	for _, k := range AllAnnotationKinds() {
		if strings.EqualFold(name, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown annotation %q", ErrInvalidInput, s)
}

// ParseAnnotationKinds parses a list of kind names.
func ParseAnnotationKinds(names []string) ([]AnnotationKind, error) {
	kinds := make([]AnnotationKind, 0, len(names))
	for _, n := range names {
		k, err := ParseAnnotationKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// String returns the annotation simple name.
func (k AnnotationKind) String() string {
	return string(k)
}

// AnnotatedElement is a top-level type declaration carrying a processor
// annotation, as enumerated by the element host.
type AnnotatedElement struct {
	Kind AnnotationKind

	// Package and TypeName identify the declaration.
	Package  string
	TypeName string

	// File is the project-relative path where the declaration was found.
	File string

	// Pos is the position of the type declaration.
	Pos Position

	// Annotation is the annotation usage; its position is the diagnostic site.
	Annotation Annotation
}

// QualifiedName returns the fully qualified type name.
func (e AnnotatedElement) QualifiedName() string {
	return Qualify(e.Package, e.TypeName)
}

// Site returns the annotation usage position.
func (e AnnotatedElement) Site() Position {
	return e.Annotation.Pos
}

// String returns "@Kind pkg.Type".
func (e AnnotatedElement) String() string {
	return fmt.Sprintf("@%s %s", e.Kind, e.QualifiedName())
}

// ClassInfo describes a type referenced by a class-valued attribute.
type ClassInfo struct {
	Name          string
	QualifiedName string
	Kind          TypeKind
	TypeParams    int
}

// DomainClassRef is a non-abstract class found under a domain package,
// carrying a marker annotation, with its identifier field.
type DomainClassRef struct {
	Name    string
	Package string
	Path    string
	IDField string
	IDType  TypeRef

	// IDImports lists the qualified names needed to reference IDType.
	IDImports []string
}

// QualifiedName returns the fully qualified class name.
func (d DomainClassRef) QualifiedName() string {
	return Qualify(d.Package, d.Name)
}

// HasID reports whether an identifier field was found.
func (d DomainClassRef) HasID() bool {
	return d.IDField != ""
}

// FileEdit is one file a generator wants written.
type FileEdit struct {
	Path    string
	Unit    *SourceUnit
	Created bool
}
