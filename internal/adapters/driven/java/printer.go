package java

import (
	"strings"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// printer renders a SourceUnit. Parts that were not modified are written
// from their original text; modified parts are rendered canonically using
// the file's indentation unit.
type printer struct {
	b    strings.Builder
	unit string
}

func (p *printer) write(parts ...string) {
	for _, s := range parts {
		p.b.WriteString(s)
	}
}

// writeLines writes text with every non-empty line prefixed by ind.
func (p *printer) writeLines(text, ind string) {
	for _, line := range strings.Split(text, "\n") {
		if line != "" {
			p.write(ind, line)
		}
		p.write("\n")
	}
}

// writeContinued writes text whose first line continues the current one;
// the remaining lines are prefixed by ind.
func (p *printer) writeContinued(text, ind string) {
	lines := strings.Split(text, "\n")
	p.write(lines[0])
	for _, line := range lines[1:] {
		p.write("\n")
		if line != "" {
			p.write(ind, line)
		}
	}
}

func (p *printer) printUnit(u *domain.SourceUnit) {
	preamble := ""
	if u.PreambleModified {
		preamble = canonicalPreamble(u)
	} else {
		preamble = strings.TrimRight(u.Preamble, " \t\n")
	}
	if preamble != "" {
		p.write(preamble, "\n")
		if u.Type != nil || u.Trailer != "" {
			p.write("\n")
		}
	}
	if u.Type != nil {
		p.printType(u.Type, "")
		p.write("\n")
	}
	if u.Trailer != "" {
		if u.Type != nil {
			p.write("\n")
		}
		p.write(u.Trailer, "\n")
	}
}

func canonicalPreamble(u *domain.SourceUnit) string {
	var b strings.Builder
	for _, c := range u.Header {
		b.WriteString(c)
		b.WriteString("\n")
	}
	if u.Package != "" {
		b.WriteString("package ")
		b.WriteString(u.Package)
		b.WriteString(";\n")
	}
	if len(u.Imports) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		for _, imp := range u.Imports {
			b.WriteString(imp.String())
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *printer) printType(t *domain.TypeDeclaration, ind string) {
	for _, c := range t.Doc {
		p.writeLines(c, ind)
	}
	p.write(ind)
	if t.Modified || t.Header == "" {
		p.writeContinued(canonicalTypeHeader(t), ind)
	} else {
		p.writeContinued(t.Header, ind)
	}
	p.write(" ")

	if t.Kind != domain.KindClass && t.Kind != domain.KindInterface {
		p.writeContinued(t.BodySource, ind)
		return
	}

	inner := ind + p.unit
	p.write("{\n")
	for _, m := range t.Members {
		if m.Base().BlankBefore {
			p.write("\n")
		}
		p.printMember(m, inner)
	}
	for _, c := range t.Tail {
		p.writeLines(c, inner)
	}
	p.write(ind, "}")
}

func canonicalTypeHeader(t *domain.TypeDeclaration) string {
	var b strings.Builder
	for _, a := range t.Annotations {
		b.WriteString(a.String())
		b.WriteString("\n")
	}
	if len(t.Modifiers) > 0 {
		b.WriteString(t.Modifiers.String())
		b.WriteString(" ")
	}
	b.WriteString(string(t.Kind))
	b.WriteString(" ")
	b.WriteString(t.Name)
	if len(t.TypeParams) > 0 {
		b.WriteString("<")
		b.WriteString(strings.Join(t.TypeParams, ", "))
		b.WriteString(">")
	}
	if len(t.Extends) > 0 {
		b.WriteString(" extends ")
		b.WriteString(typeList(t.Extends))
	}
	if len(t.Implements) > 0 {
		b.WriteString(" implements ")
		b.WriteString(typeList(t.Implements))
	}
	if t.HeaderExtra != "" {
		b.WriteString(" ")
		b.WriteString(t.HeaderExtra)
	}
	return b.String()
}

func typeList(refs []domain.TypeRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func (p *printer) printMember(m domain.Member, ind string) {
	base := m.Base()
	for _, c := range base.Doc {
		p.writeLines(c, ind)
	}
	if !base.Modified && base.Source != "" {
		p.write(ind)
		p.writeContinued(base.Source, ind)
	} else {
		p.printCanonicalMember(m, ind)
	}
	if base.Trailing != "" {
		p.write(" ", base.Trailing)
	}
	p.write("\n")
}

func (p *printer) printCanonicalMember(m domain.Member, ind string) {
	base := m.Base()
	for _, a := range base.Annotations {
		p.write(ind)
		p.writeContinued(a.String(), ind)
		p.write("\n")
	}
	p.write(ind)
	if len(base.Modifiers) > 0 {
		p.write(base.Modifiers.String(), " ")
	}

	switch x := m.(type) {
	case *domain.FieldSlot:
		p.write(x.Type.String(), " ", x.Name)
		if x.Init != nil {
			p.write(" = ")
			p.writeContinued(x.Init.Text, ind)
		}
		p.write(";")
	case *domain.MethodSlot:
		if x.TypeParams != "" {
			p.write(x.TypeParams, " ")
		}
		p.write(x.Result.String(), " ", x.Name, "(", paramList(x.Params), ")")
		p.printThrows(x.Throws)
		if x.Body == nil {
			p.write(";")
			return
		}
		p.write(" ")
		p.printBlock(x.Body, ind)
	case *domain.ConstructorSlot:
		if x.TypeParams != "" {
			p.write(x.TypeParams, " ")
		}
		p.write(x.Name, "(", paramList(x.Params), ")")
		p.printThrows(x.Throws)
		p.write(" ")
		p.printBlock(x.Body, ind)
	default:
		p.writeContinued(base.Source, ind)
	}
}

func (p *printer) printThrows(throws []domain.TypeRef) {
	if len(throws) > 0 {
		p.write(" throws ", typeList(throws))
	}
}

func paramList(params []domain.Parameter) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		var b strings.Builder
		for _, a := range prm.Annotations {
			b.WriteString(a.String())
			b.WriteString(" ")
		}
		if prm.Final {
			b.WriteString("final ")
		}
		b.WriteString(prm.Type.String())
		if prm.Varargs {
			b.WriteString("...")
		}
		b.WriteString(" ")
		b.WriteString(prm.Name)
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

// printBlock writes a block whose opening brace continues the current line.
func (p *printer) printBlock(blk *domain.Block, ind string) {
	if blk == nil {
		p.write("{}")
		return
	}
	if !blk.Modified && blk.Source != "" {
		p.writeContinued(blk.Source, ind)
		return
	}
	if len(blk.Statements) == 0 && len(blk.Tail) == 0 {
		p.write("{}")
		return
	}
	inner := ind + p.unit
	p.write("{\n")
	for _, s := range blk.Statements {
		if s.BlankBefore {
			p.write("\n")
		}
		for _, c := range s.Comments {
			p.writeLines(c, inner)
		}
		p.write(inner)
		p.writeContinued(s.Text, inner)
		p.write("\n")
	}
	for _, c := range blk.Tail {
		p.writeLines(c, inner)
	}
	p.write(ind, "}")
}
