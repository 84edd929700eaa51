package driven

import "github.com/custodia-labs/annlib/internal/core/domain"

// SourceCodec parses Java source into the declaration model and prints it
// back. Untouched parts of a unit are printed from their original text.
type SourceCodec interface {
	// Parse reads one compilation unit.
	Parse(path string, src []byte) (*domain.SourceUnit, error)

	// Print renders the unit as Java source.
	Print(unit *domain.SourceUnit) ([]byte, error)

	// ParseStatements reads a statement list, as found between the braces of a body.
	ParseStatements(src string) ([]domain.Statement, error)

	// ParseType reads a type reference such as "Map<String, List<Long>>".
	ParseType(src string) (domain.TypeRef, error)

	// ParseExpr reads an initializer or annotation value expression.
	ParseExpr(src string) (*domain.Expr, error)
}
