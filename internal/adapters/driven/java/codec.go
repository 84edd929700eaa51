package java

import (
	"errors"
	"strings"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.SourceCodec = (*Codec)(nil)

const bom = "\uFEFF"

// Codec parses Java compilation units into editable declaration trees and
// prints them back. Printing an unmodified unit reproduces its input.
type Codec struct{}

// NewCodec creates a Java source codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Parse reads one compilation unit.
func (c *Codec) Parse(path string, src []byte) (*domain.SourceUnit, error) {
	text := strings.TrimPrefix(string(src), bom)
	crlf := strings.Contains(text, "\r\n")
	if crlf {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}

	toks, err := lex(text)
	if err != nil {
		return nil, withPath(err, path)
	}
	unit, err := newParser(path, text, toks).parseUnit()
	if err != nil {
		return nil, err
	}
	unit.CRLF = crlf
	return unit, nil
}

// Print renders the unit as Java source.
func (c *Codec) Print(unit *domain.SourceUnit) ([]byte, error) {
	if unit == nil {
		return nil, domain.ErrInvalidInput
	}
	indent := unit.Indent
	if indent == "" {
		indent = defaultIndent
	}
	p := &printer{unit: indent}
	p.printUnit(unit)
	out := p.b.String()
	if unit.CRLF {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return []byte(out), nil
}

// ParseStatements splits a statement sequence, as used for generated bodies.
func (c *Codec) ParseStatements(src string) ([]domain.Statement, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	stmts, _, err := newParser("", src, toks).parseStatements(false)
	return stmts, err
}

// ParseType parses a single type reference such as "Map<String, List<Foo>>".
func (c *Codec) ParseType(src string) (domain.TypeRef, error) {
	toks, err := lex(src)
	if err != nil {
		return domain.TypeRef{}, err
	}
	p := newParser("", src, toks)
	ref, err := p.parseType()
	if err != nil {
		return ref, err
	}
	if !p.eof() {
		return ref, p.errorf(p.peek(), "unexpected %q after type", p.peek().Text)
	}
	return ref, nil
}

// ParseExpr parses a standalone expression.
func (c *Codec) ParseExpr(src string) (*domain.Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	return newParser("", src, toks).parseExpr()
}

func withPath(err error, path string) error {
	var pe *domain.ParseError
	if errors.As(err, &pe) && pe.Path == "" {
		pe.Path = path
	}
	return err
}
