package domain

import (
	"fmt"
	"strings"
)

// Position is a location in a source file. Line and Column are 1-based.
type Position struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether the position is unset.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Import is a single import declaration.
// Name never carries the trailing ".*"; Wildcard records it instead.
type Import struct {
	Name     string
	Static   bool
	Wildcard bool
}

// String returns the import as Java source text.
func (i Import) String() string {
	var b strings.Builder
	b.WriteString("import ")
	if i.Static {
		b.WriteString("static ")
	}
	b.WriteString(i.Name)
	if i.Wildcard {
		b.WriteString(".*")
	}
	b.WriteString(";")
	return b.String()
}

// SimpleName returns the last segment of a single-type import.
func (i Import) SimpleName() string {
	if i.Wildcard {
		return ""
	}
	return SimpleName(i.Name)
}

// SourceUnit is one parsed Java file: a package, its imports and exactly
// one top-level type declaration.
//
// Preamble holds the original text from the start of the file to the end of
// the import list. It is printed verbatim unless PreambleModified is set,
// in which case Header, Package and Imports are printed canonically.
type SourceUnit struct {
	Path             string
	Header           []string
	Package          string
	Imports          []Import
	Type             *TypeDeclaration
	Preamble         string
	PreambleModified bool
	Trailer          string
	Changed          bool

	// Indent is one indentation level as used by the file.
	Indent string

	// CRLF records Windows line endings, restored when printing.
	CRLF bool
}

// NewSourceUnit creates an empty unit declaring one type, as used for files
// that do not exist yet.
func NewSourceUnit(path, pkg, name string, kind TypeKind) *SourceUnit {
	return &SourceUnit{
		Path:             path,
		Package:          pkg,
		PreambleModified: true,
		Changed:          true,
		Type: &TypeDeclaration{
			Kind:     kind,
			Name:     name,
			Modified: true,
		},
	}
}

// QualifiedName returns the fully qualified name of the top-level type.
func (u *SourceUnit) QualifiedName() string {
	if u.Type == nil {
		return u.Package
	}
	return Qualify(u.Package, u.Type.Name)
}

// SetPackage sets the package declaration. Reports whether it changed.
func (u *SourceUnit) SetPackage(pkg string) bool {
	if u.Package == pkg {
		return false
	}
	u.Package = pkg
	u.PreambleModified = true
	u.Changed = true
	return true
}

// HasImport reports whether the type named by fqn is visible without a new
// import: it is in java.lang, in the unit's own package, or covered by an
// existing single-type or wildcard import.
func (u *SourceUnit) HasImport(fqn string) bool {
	pkg := PackageOf(fqn)
	if pkg == "" || pkg == "java.lang" || pkg == u.Package {
		return true
	}
	for _, imp := range u.Imports {
		if imp.Static {
			continue
		}
		if imp.Wildcard && imp.Name == pkg {
			return true
		}
		if !imp.Wildcard && imp.Name == fqn {
			return true
		}
	}
	return false
}

// AddImport adds a single-type import for fqn unless it is already visible.
// Reports whether the unit changed.
func (u *SourceUnit) AddImport(fqn string) bool {
	if u.HasImport(fqn) {
		return false
	}
	u.Imports = append(u.Imports, Import{Name: fqn})
	u.PreambleModified = true
	u.Changed = true
	return true
}

// ResolveSimpleName maps a simple type name to a fully qualified name using
// the unit's single-type imports and its own type. Returns "" if unknown.
func (u *SourceUnit) ResolveSimpleName(simple string) string {
	if strings.Contains(simple, ".") {
		return simple
	}
	if u.Type != nil && u.Type.Name == simple {
		return u.QualifiedName()
	}
	for _, imp := range u.Imports {
		if !imp.Static && !imp.Wildcard && imp.SimpleName() == simple {
			return imp.Name
		}
	}
	return ""
}

// WildcardPackages returns the packages imported with ".*".
func (u *SourceUnit) WildcardPackages() []string {
	var pkgs []string
	for _, imp := range u.Imports {
		if imp.Wildcard && !imp.Static {
			pkgs = append(pkgs, imp.Name)
		}
	}
	return pkgs
}

// MarkChanged records a change reported by a mutation and passes it through.
func (u *SourceUnit) MarkChanged(changed bool) bool {
	if changed {
		u.Changed = true
	}
	return changed
}

// SimpleName returns the last dot-separated segment of a qualified name.
func SimpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// PackageOf returns everything before the last dot of a qualified name.
func PackageOf(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[:i]
	}
	return ""
}

// Qualify joins a package and a simple name.
func Qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// PackageToPath converts "a.b.c" or "a/b/c" to the slash-separated "a/b/c".
func PackageToPath(pkg string) string {
	return strings.Trim(strings.ReplaceAll(pkg, ".", "/"), "/")
}

// PathToPackage converts "a/b/c" or "a.b.c" to the dotted "a.b.c".
func PathToPackage(path string) string {
	return strings.Trim(strings.ReplaceAll(path, "/", "."), ".")
}
