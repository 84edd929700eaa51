package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Generation Errors.

	// ErrConfiguration indicates a bad processor annotation attribute.
	ErrConfiguration = errors.New("annlib: invalid annotation configuration")

	// ErrSourceRootNotFound indicates the annotated file is outside every candidate source root.
	ErrSourceRootNotFound = errors.New("annlib: source root not found")

	// ErrNoSuchPackage indicates a domain package directory does not exist.
	ErrNoSuchPackage = errors.New("annlib: package not found")

	// ErrNoAnnotatedClasses indicates a package holds no class carrying the marker annotation.
	ErrNoAnnotatedClasses = errors.New("annlib: no annotated classes")

	// ErrStructuralPrecondition indicates the declaration lacks a member the generator relies on.
	ErrStructuralPrecondition = errors.New("annlib: structural precondition failed")

	// ErrParse indicates a Java source file could not be parsed.
	ErrParse = errors.New("annlib: parse error")
)

// ConfigurationError reports an invalid attribute value on a processor
// annotation. It is attributed to the annotation usage site.
type ConfigurationError struct {
	Annotation AnnotationKind
	Attribute  string
	Value      any
	Message    string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("annlib: configuration error")
	if e.Annotation != "" {
		b.WriteString(" on @")
		b.WriteString(string(e.Annotation))
	}
	if e.Attribute != "" {
		b.WriteString(" attribute ")
		b.WriteString(e.Attribute)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(kind AnnotationKind, attribute string, value any, message string) *ConfigurationError {
	return &ConfigurationError{
		Annotation: kind,
		Attribute:  attribute,
		Value:      value,
		Message:    message,
	}
}

// SourceRootError reports that an annotated declaration does not live under
// any of the candidate source roots.
type SourceRootError struct {
	Element string
	Roots   []string
}

// Error implements the error interface.
func (e *SourceRootError) Error() string {
	return fmt.Sprintf("annlib: %s: %s", e.Element, e.DiagnosticMessage())
}

// DiagnosticMessage returns the message shown to the user.
func (e *SourceRootError) DiagnosticMessage() string {
	return fmt.Sprintf("Annotated element must be placed in one of following source folders: [%s]!",
		strings.Join(e.Roots, ", "))
}

// Is reports whether the target matches the sentinel error for SourceRootError.
func (e *SourceRootError) Is(target error) bool {
	return target == ErrSourceRootNotFound
}

// NewSourceRootError creates a new SourceRootError.
func NewSourceRootError(element string, roots []string) *SourceRootError {
	return &SourceRootError{Element: element, Roots: roots}
}

// DiscoveryError reports a failed domain class lookup.
type DiscoveryError struct {
	Package string
	Marker  string
	Cause   error
}

// Error implements the error interface.
func (e *DiscoveryError) Error() string {
	return "annlib: discovery error: " + e.DiagnosticMessage()
}

// DiagnosticMessage returns the message shown to the user.
func (e *DiscoveryError) DiagnosticMessage() string {
	if errors.Is(e.Cause, ErrNoSuchPackage) {
		return fmt.Sprintf("Package %q not found in source roots!", e.Package)
	}
	return fmt.Sprintf("Package %q doesn't contain any class annotated with @%s!", e.Package, e.Marker)
}

// Unwrap returns the underlying sentinel.
func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// NewNoSuchPackageError creates a DiscoveryError for a missing package directory.
func NewNoSuchPackageError(pkg string) *DiscoveryError {
	return &DiscoveryError{Package: pkg, Cause: ErrNoSuchPackage}
}

// NewNoAnnotatedClassesError creates a DiscoveryError for a package without marked classes.
func NewNoAnnotatedClassesError(pkg, marker string) *DiscoveryError {
	return &DiscoveryError{Package: pkg, Marker: marker, Cause: ErrNoAnnotatedClasses}
}

// StructuralPreconditionError reports a member the generator needs but the
// declaration does not have.
type StructuralPreconditionError struct {
	Type    string
	Member  string
	Message string
}

// Error implements the error interface.
func (e *StructuralPreconditionError) Error() string {
	var b strings.Builder
	b.WriteString("annlib: structural precondition failed")
	if e.Type != "" {
		b.WriteString(" on ")
		b.WriteString(e.Type)
	}
	if e.Member != "" {
		b.WriteString(" member ")
		b.WriteString(e.Member)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for StructuralPreconditionError.
func (e *StructuralPreconditionError) Is(target error) bool {
	return target == ErrStructuralPrecondition
}

// NewStructuralPreconditionError creates a new StructuralPreconditionError.
func NewStructuralPreconditionError(typeName, member, message string) *StructuralPreconditionError {
	return &StructuralPreconditionError{Type: typeName, Member: member, Message: message}
}

// ParseError reports malformed Java source.
type ParseError struct {
	Path    string
	Pos     Position
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("annlib: parse error at %s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("annlib: parse error in %s:%s: %s", e.Path, e.Pos, e.Message)
}

// Is reports whether the target matches the sentinel error for ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError.
func NewParseError(path string, pos Position, message string) *ParseError {
	return &ParseError{Path: path, Pos: pos, Message: message}
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// IsSourceRootError reports whether err is or wraps a SourceRootError.
func IsSourceRootError(err error) bool {
	var e *SourceRootError
	return errors.As(err, &e)
}

// IsDiscoveryError reports whether err is or wraps a DiscoveryError.
func IsDiscoveryError(err error) bool {
	var e *DiscoveryError
	return errors.As(err, &e)
}

// IsStructuralPreconditionError reports whether err is or wraps a StructuralPreconditionError.
func IsStructuralPreconditionError(err error) bool {
	var e *StructuralPreconditionError
	return errors.As(err, &e)
}

// DiagnosticMessage extracts the user-facing message from a generation error.
// Errors outside the taxonomy fall back to their Error text.
func DiagnosticMessage(err error) string {
	var (
		cfg   *ConfigurationError
		root  *SourceRootError
		disc  *DiscoveryError
		pre   *StructuralPreconditionError
		parse *ParseError
	)
	switch {
	case errors.As(err, &cfg):
		return cfg.Message
	case errors.As(err, &root):
		return root.DiagnosticMessage()
	case errors.As(err, &disc):
		return disc.DiagnosticMessage()
	case errors.As(err, &pre):
		return pre.Message
	case errors.As(err, &parse):
		return fmt.Sprintf("Cannot parse %s at %s: %s", parse.Path, parse.Pos, parse.Message)
	default:
		return err.Error()
	}
}
