package domain

import (
	"fmt"
	"strings"
)

// Severity is the level of a diagnostic.
type Severity string

// Diagnostic severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a message attributed to an annotated element and, where
// known, to the annotation usage site.
type Diagnostic struct {
	Severity   Severity
	Message    string
	Element    string
	Annotation AnnotationKind
	File       string
	Site       Position
}

// String renders "file:line:col: severity: message (element)".
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.File != "" {
		b.WriteString(d.File)
		if !d.Site.IsZero() {
			fmt.Fprintf(&b, ":%s", d.Site)
		}
		b.WriteString(": ")
	}
	b.WriteString(string(d.Severity))
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Element != "" {
		b.WriteString(" (")
		if d.Annotation != "" {
			b.WriteString("@")
			b.WriteString(string(d.Annotation))
			b.WriteString(" on ")
		}
		b.WriteString(d.Element)
		b.WriteString(")")
	}
	return b.String()
}

// NewElementDiagnostic creates a diagnostic attributed to an element. It
// points at the annotation usage when atSite is true, otherwise at the
// declaration.
func NewElementDiagnostic(sev Severity, msg string, el AnnotatedElement, atSite bool) Diagnostic {
	d := Diagnostic{
		Severity:   sev,
		Message:    msg,
		Element:    el.QualifiedName(),
		Annotation: el.Kind,
		File:       el.File,
		Site:       el.Pos,
	}
	if atSite {
		d.Site = el.Site()
	}
	return d
}
