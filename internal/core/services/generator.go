package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Job is one annotated element ready for generation.
type Job struct {
	Element domain.AnnotatedElement

	// Unit is the parsed file declaring the element.
	Unit *domain.SourceUnit

	// Path is the project-relative path of that file.
	Path string

	// Root is the source root the file was resolved under.
	Root string

	// Roots lists every configured source root, Root first.
	Roots []string

	// Attrs holds the attributes written on the annotation.
	Attrs domain.AttributeSet
}

// Generator produces the file edits for one annotation kind. A generator
// returns either a complete set of edits or an error; it never writes.
type Generator interface {
	// Kind returns the annotation kind handled.
	Kind() domain.AnnotationKind

	// Generate reconciles the files affected by the element.
	Generate(ctx context.Context, job *Job) ([]domain.FileEdit, error)
}

// templates turns body templates into statements through the codec.
type templates struct {
	codec driven.SourceCodec
}

// block parses a statement template formatted with args.
func (t templates) block(format string, args ...any) (*domain.Block, error) {
	src := format
	if len(args) > 0 {
		src = fmt.Sprintf(format, args...)
	}
	stmts, err := t.codec.ParseStatements(src)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return domain.NewBlock(stmts...), nil
}

// statement parses a single statement.
func (t templates) statement(format string, args ...any) (domain.Statement, error) {
	blk, err := t.block(format, args...)
	if err != nil {
		return domain.Statement{}, err
	}
	if len(blk.Statements) != 1 {
		return domain.Statement{}, fmt.Errorf("template %q: expected one statement, got %d", format, len(blk.Statements))
	}
	return blk.Statements[0], nil
}

// expr parses an expression.
func (t templates) expr(format string, args ...any) (*domain.Expr, error) {
	src := format
	if len(args) > 0 {
		src = fmt.Sprintf(format, args...)
	}
	e, err := t.codec.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return e, nil
}

// targetPath returns the project-relative file path of a type in a package
// under a source root.
func targetPath(root, pkg, name string) string {
	return path.Join(root, domain.PackageToPath(pkg), name+".java")
}

// loadOrCreate parses the file at p, or starts a new unit declaring name
// when the file does not exist. The returned unit declares name.
func loadOrCreate(tree driven.SourceTree, codec driven.SourceCodec, p, pkg, name string, kind domain.TypeKind) (*domain.SourceUnit, bool, error) {
	if !tree.Exists(p) {
		unit := domain.NewSourceUnit(p, pkg, name, kind)
		unit.Type.Modifiers = domain.Modifiers{"public"}
		return unit, true, nil
	}
	src, err := tree.ReadFile(p)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", p, err)
	}
	if strings.TrimSpace(string(src)) == "" {
		unit := domain.NewSourceUnit(p, pkg, name, kind)
		unit.Type.Modifiers = domain.Modifiers{"public"}
		return unit, false, nil
	}
	unit, err := codec.Parse(p, src)
	if err != nil {
		return nil, false, err
	}
	if unit.Type == nil {
		unit.Type = &domain.TypeDeclaration{Kind: kind, Name: name, Modifiers: domain.Modifiers{"public"}, Modified: true}
		unit.Changed = true
	}
	if unit.Type.Name != name {
		return nil, false, domain.NewStructuralPreconditionError(name, "",
			fmt.Sprintf("File %s declares %s instead of %s!", p, unit.Type.Name, name))
	}
	return unit, false, nil
}

// ensureKind converts the declaration to kind when it is a class or interface.
func ensureKind(unit *domain.SourceUnit, kind domain.TypeKind) error {
	td := unit.Type
	if td.Kind == kind {
		return nil
	}
	if td.Kind != domain.KindClass && td.Kind != domain.KindInterface {
		return domain.NewStructuralPreconditionError(td.Name, "",
			fmt.Sprintf("%s must be declared as %s!", td.Name, kind))
	}
	td.Kind = kind
	td.Modified = true
	unit.Changed = true
	return nil
}

// requireClass fails unless the annotated declaration is a class.
func requireClass(kind domain.AnnotationKind, unit *domain.SourceUnit) error {
	if unit.Type == nil || unit.Type.Kind != domain.KindClass {
		return domain.NewConfigurationError(kind, "", nil,
			fmt.Sprintf("@%s can be placed only on a class!", kind))
	}
	return nil
}

// requireSeparateField fails when a field the generator manages shares its
// declaration with other variables, as in "private Thread t, u;".
func requireSeparateField(td *domain.TypeDeclaration, names ...string) error {
	for _, name := range names {
		if _, ok := td.GroupedField(name); ok {
			return domain.NewStructuralPreconditionError(td.Name, name,
				fmt.Sprintf("Field %q must be declared separately from other variables in class %s!", name, td.Name))
		}
	}
	return nil
}
