package java

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

const defaultIndent = "    "

var modifierWords = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"abstract": true, "final": true, "native": true, "synchronized": true,
	"transient": true, "volatile": true, "strictfp": true, "default": true,
	"sealed": true,
}

// parser reads the declaration-level structure of a compilation unit.
// Comments are skipped by next and peek; collectComments picks them up
// where they are attached to members or statements.
type parser struct {
	path    string
	src     string
	toks    []token
	i       int
	lastEnd int
	indent  string
}

func newParser(path, src string, toks []token) *parser {
	return &parser{path: path, src: src, toks: toks}
}

func (p *parser) eofToken() token {
	return token{
		Token: domain.Token{Kind: domain.TokenOperator, Pos: p.endPos()},
		start: len(p.src),
		end:   len(p.src),
	}
}

func (p *parser) endPos() domain.Position {
	line := strings.Count(p.src, "\n") + 1
	col := len(p.src) - strings.LastIndexByte(p.src, '\n')
	return domain.Position{Line: line, Column: col}
}

// peekAt returns the k-th upcoming non-comment token.
func (p *parser) peekAt(k int) token {
	for j := p.i; j < len(p.toks); j++ {
		if p.toks[j].Kind == domain.TokenComment {
			continue
		}
		if k == 0 {
			return p.toks[j]
		}
		k--
	}
	return p.eofToken()
}

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) eof() bool {
	return p.peek().start >= len(p.src)
}

func (p *parser) next() token {
	for p.i < len(p.toks) && p.toks[p.i].Kind == domain.TokenComment {
		p.i++
	}
	if p.i >= len(p.toks) {
		return p.eofToken()
	}
	t := p.toks[p.i]
	p.i++
	p.lastEnd = t.end
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return domain.NewParseError(p.path, t.Pos, fmt.Sprintf(format, args...))
}

func (p *parser) expect(text string) (token, error) {
	t := p.peek()
	if !t.is(text) {
		return t, p.errorf(t, "expected %q, found %q", text, t.Text)
	}
	return p.next(), nil
}

func (p *parser) expectIdent() (token, error) {
	t := p.peek()
	if !t.isIdent() {
		return t, p.errorf(t, "expected identifier, found %q", t.Text)
	}
	return p.next(), nil
}

// collectComments consumes the comments at the current position. It
// returns their dedented texts and the offset of the first one, or -1.
func (p *parser) collectComments() ([]string, int) {
	var out []string
	first := -1
	for p.i < len(p.toks) && p.toks[p.i].Kind == domain.TokenComment {
		c := p.toks[p.i]
		if first < 0 {
			first = c.start
		}
		out = append(out, dedent(c.Text, p.lineIndent(c.start)))
		p.i++
	}
	return out, first
}

// sameLineComment consumes a comment that starts on the line ending at off.
func (p *parser) sameLineComment(off int) (token, bool) {
	if p.i >= len(p.toks) || p.toks[p.i].Kind != domain.TokenComment {
		return token{}, false
	}
	c := p.toks[p.i]
	if strings.ContainsRune(p.src[off:c.start], '\n') || strings.Contains(c.Text, "\n") {
		return token{}, false
	}
	p.i++
	return c, true
}

// lineIndent returns the whitespace between the start of the line and off,
// or "" if anything else precedes off on that line.
func (p *parser) lineIndent(off int) string {
	ls := strings.LastIndexByte(p.src[:off], '\n') + 1
	prefix := p.src[ls:off]
	if strings.TrimLeft(prefix, " \t") != "" {
		return ""
	}
	return prefix
}

func (p *parser) blankBetween(from, to int) bool {
	if from < 0 || to <= from {
		return false
	}
	return strings.Count(p.src[from:to], "\n") >= 2
}

// ---- compilation unit ----

func (p *parser) parseUnit() (*domain.SourceUnit, error) {
	u := &domain.SourceUnit{Path: p.path}

	headerIdx := p.i
	header, _ := p.collectComments()
	preambleEnd := -1

	if p.peek().is("package") {
		p.next()
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		u.Package = name
		preambleEnd = p.lastEnd
	}
	for p.peek().is("import") {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		u.Imports = append(u.Imports, imp)
		preambleEnd = p.lastEnd
	}

	if preambleEnd < 0 {
		p.i = headerIdx
	} else {
		u.Header = header
		u.Preamble = p.src[:preambleEnd]
	}

	doc, _ := p.collectComments()
	for p.peek().is(";") {
		p.next()
	}
	if p.eof() {
		u.Trailer = strings.Join(doc, "\n")
		u.Indent = defaultIndent
		return u, nil
	}

	td, err := p.parseTypeDecl(doc)
	if err != nil {
		return nil, err
	}
	u.Type = td
	u.Trailer = strings.TrimSpace(p.src[p.lastEnd:])
	u.Indent = p.indent
	if u.Indent == "" {
		u.Indent = defaultIndent
	}
	return u, nil
}

func (p *parser) parseImport() (domain.Import, error) {
	p.next()
	var imp domain.Import
	if p.peek().is("static") {
		p.next()
		imp.Static = true
	}
	first, err := p.expectIdent()
	if err != nil {
		return imp, err
	}
	parts := []string{first.Text}
	for p.peek().is(".") {
		p.next()
		if p.peek().is("*") {
			p.next()
			imp.Wildcard = true
			break
		}
		t, err := p.expectIdent()
		if err != nil {
			return imp, err
		}
		parts = append(parts, t.Text)
	}
	if _, err := p.expect(";"); err != nil {
		return imp, err
	}
	imp.Name = strings.Join(parts, ".")
	return imp, nil
}

func (p *parser) qualifiedName() (string, error) {
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	name := first.Text
	for p.peek().is(".") && p.peekAt(1).isIdent() {
		p.next()
		name += "." + p.next().Text
	}
	return name, nil
}

// ---- type declarations ----

func (p *parser) parseTypeDecl(doc []string) (*domain.TypeDeclaration, error) {
	start := p.peek()
	indent := p.lineIndent(start.start)
	td := &domain.TypeDeclaration{Doc: doc, Pos: start.Pos}

	anns, mods, err := p.parseAnnotationsAndModifiers()
	if err != nil {
		return nil, err
	}
	td.Annotations, td.Modifiers = anns, mods

	t := p.peek()
	switch {
	case t.is("class"):
		td.Kind = domain.KindClass
	case t.is("interface"):
		td.Kind = domain.KindInterface
	case t.is("enum"):
		td.Kind = domain.KindEnum
	case t.is("@") && p.peekAt(1).is("interface"):
		p.next()
		td.Kind = domain.KindAnnotation
	case t.isIdent() && t.Text == "record" && p.peekAt(1).isIdent():
		td.Kind = domain.KindRecord
	default:
		return nil, p.errorf(t, "expected type declaration, found %q", t.Text)
	}
	p.next()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	td.Name = name.Text

	if p.peek().is("<") {
		params, err := p.parseTypeParams()
		if err != nil {
			return nil, err
		}
		td.TypeParams = params
	}
	if td.Kind == domain.KindRecord && p.peek().is("(") {
		if err := p.skipBalanced("(", ")"); err != nil {
			return nil, err
		}
	}
	if p.peek().is("extends") {
		p.next()
		refs, err := p.parseTypeList()
		if err != nil {
			return nil, err
		}
		td.Extends = refs
	}
	if p.peek().is("implements") {
		p.next()
		refs, err := p.parseTypeList()
		if err != nil {
			return nil, err
		}
		td.Implements = refs
	}
	if p.peek().isIdent() && p.peek().Text == "permits" {
		from := p.peek().start
		for !p.eof() && !p.peek().is("{") {
			p.next()
		}
		td.HeaderExtra = p.src[from:p.lastEnd]
	}

	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	td.Header = dedent(strings.TrimRight(p.src[start.start:open.start], " \t\r\n"), indent)

	if td.Kind != domain.KindClass && td.Kind != domain.KindInterface {
		p.i--
		for p.toks[p.i].start != open.start {
			p.i--
		}
		if err := p.skipBalanced("{", "}"); err != nil {
			return nil, err
		}
		td.BodySource = dedent(p.src[open.start:p.lastEnd], indent)
		return td, nil
	}

	if err := p.parseMembers(td); err != nil {
		return nil, err
	}
	return td, nil
}

func (p *parser) parseTypeParams() ([]string, error) {
	if _, err := p.expect("<"); err != nil {
		return nil, err
	}
	var params []string
	from := p.peek().start
	depth := 0
	for {
		t := p.peek()
		if p.eof() {
			return nil, p.errorf(t, "unterminated type parameters")
		}
		switch {
		case t.is("<"):
			depth++
		case t.is(">") && depth == 0:
			params = append(params, strings.TrimSpace(p.src[from:t.start]))
			p.next()
			return params, nil
		case t.is(">"):
			depth--
		case t.is(",") && depth == 0:
			params = append(params, strings.TrimSpace(p.src[from:t.start]))
			p.next()
			from = p.peek().start
			continue
		}
		p.next()
	}
}

func (p *parser) parseTypeList() ([]domain.TypeRef, error) {
	var refs []domain.TypeRef
	for {
		ref, err := p.parseType()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
		if !p.peek().is(",") {
			return refs, nil
		}
		p.next()
	}
}

// skipBalanced consumes from an opening token to its matching close.
func (p *parser) skipBalanced(open, closing string) error {
	first, err := p.expect(open)
	if err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.eof() {
			return p.errorf(first, "unbalanced %q", open)
		}
		t := p.next()
		switch {
		case t.is(open):
			depth++
		case t.is(closing):
			depth--
		}
	}
	return nil
}

func (p *parser) parseAnnotationsAndModifiers() ([]domain.Annotation, domain.Modifiers, error) {
	var (
		anns []domain.Annotation
		mods domain.Modifiers
	)
	for {
		t := p.peek()
		switch {
		case t.is("@") && !p.peekAt(1).is("interface"):
			a, err := p.parseAnnotation()
			if err != nil {
				return nil, nil, err
			}
			anns = append(anns, a)
		case t.isIdent() && t.Text == "non" && p.peekAt(1).is("-") && p.peekAt(2).Text == "sealed":
			p.next()
			p.next()
			p.next()
			mods = append(mods, "non-sealed")
		case modifierWords[t.Text] && (t.Kind == domain.TokenKeyword || t.Text == "sealed"):
			if t.is("default") && p.peekAt(1).is(":") {
				return anns, mods, nil
			}
			if t.Text == "sealed" && !p.peekAt(1).isIdent() && p.peekAt(1).Kind != domain.TokenKeyword {
				return anns, mods, nil
			}
			p.next()
			mods = append(mods, t.Text)
		default:
			return anns, mods, nil
		}
	}
}

// ---- members ----

func (p *parser) parseMembers(td *domain.TypeDeclaration) error {
	for {
		prevEnd := p.lastEnd
		doc, docStart := p.collectComments()
		t := p.peek()
		if t.is("}") {
			td.Tail = doc
			p.next()
			return nil
		}
		if p.eof() {
			return p.errorf(t, "unterminated body of %s", td.Name)
		}
		if t.is(";") {
			p.next()
			continue
		}
		first := t.start
		if docStart >= 0 {
			first = docStart
		}
		blank := p.blankBetween(prevEnd, first)

		indent := p.lineIndent(t.start)
		if p.indent == "" && indent != "" {
			p.indent = indent
		}
		m, err := p.parseMember(td.Name, indent)
		if err != nil {
			return err
		}
		base := m.Base()
		base.Doc = doc
		base.BlankBefore = blank
		if c, ok := p.sameLineComment(p.lastEnd); ok {
			base.Trailing = c.Text
		}
		td.Members = append(td.Members, m)
	}
}

func (p *parser) parseMember(typeName, indent string) (domain.Member, error) {
	start := p.peek()
	source := func() string {
		return dedent(p.src[start.start:p.lastEnd], indent)
	}
	raw := func() domain.Member {
		return &domain.RawMember{MemberBase: domain.MemberBase{Source: source(), Pos: start.Pos}}
	}

	if start.is("{") || (start.is("static") && p.peekAt(1).is("{")) {
		if start.is("static") {
			p.next()
		}
		if err := p.skipBalanced("{", "}"); err != nil {
			return nil, err
		}
		return raw(), nil
	}

	anns, mods, err := p.parseAnnotationsAndModifiers()
	if err != nil {
		return nil, err
	}
	base := domain.MemberBase{Annotations: anns, Modifiers: mods, Pos: start.Pos}

	t := p.peek()
	if t.is("class") || t.is("interface") || t.is("enum") ||
		(t.is("@") && p.peekAt(1).is("interface")) ||
		(t.isIdent() && t.Text == "record" && p.peekAt(1).isIdent()) {
		for !p.eof() && !p.peek().is("{") {
			p.next()
		}
		if err := p.skipBalanced("{", "}"); err != nil {
			return nil, err
		}
		return raw(), nil
	}

	typeParams := ""
	if t.is("<") {
		from := t.start
		if _, err := p.parseTypeParams(); err != nil {
			return nil, err
		}
		typeParams = p.src[from:p.lastEnd]
	}

	if p.peek().isIdent() && p.peek().Text == typeName && p.peekAt(1).is("(") {
		p.next()
		c := &domain.ConstructorSlot{MemberBase: base, TypeParams: typeParams, Name: typeName}
		if c.Params, err = p.parseParams(); err != nil {
			return nil, err
		}
		if c.Throws, err = p.parseThrows(); err != nil {
			return nil, err
		}
		if c.Body, err = p.parseBlock(indent); err != nil {
			return nil, err
		}
		c.Source = source()
		return c, nil
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.peek().is("(") {
		m := &domain.MethodSlot{MemberBase: base, TypeParams: typeParams, Result: typ, Name: name.Text}
		if m.Params, err = p.parseParams(); err != nil {
			return nil, err
		}
		for p.peek().is("[") && p.peekAt(1).is("]") {
			p.next()
			p.next()
			m.Result.Dims++
		}
		if m.Throws, err = p.parseThrows(); err != nil {
			return nil, err
		}
		switch {
		case p.peek().is(";"):
			p.next()
		case p.peek().is("default"):
			for !p.eof() && !p.peek().is(";") {
				p.next()
			}
			if _, err := p.expect(";"); err != nil {
				return nil, err
			}
		default:
			if m.Body, err = p.parseBlock(indent); err != nil {
				return nil, err
			}
		}
		m.Source = source()
		return m, nil
	}

	f := &domain.FieldSlot{MemberBase: base, Type: typ, Name: name.Text}
	for p.peek().is("[") && p.peekAt(1).is("]") {
		p.next()
		p.next()
		f.Type.Dims++
	}
	if p.peek().is("=") {
		p.next()
		if f.Init, err = p.parseInitializer(); err != nil {
			return nil, err
		}
	}
	if p.peek().is(",") {
		vars := []domain.Variable{{Name: f.Name, Type: f.Type}}
		for p.peek().is(",") {
			p.next()
			v, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			vt := typ.Clone()
			for p.peek().is("[") && p.peekAt(1).is("]") {
				p.next()
				p.next()
				vt.Dims++
			}
			if p.peek().is("=") {
				p.next()
				if _, err := p.parseInitializer(); err != nil {
					return nil, err
				}
			}
			vars = append(vars, domain.Variable{Name: v.Text, Type: vt})
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		m := raw().(*domain.RawMember)
		m.Vars = vars
		return m, nil
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	f.Source = source()
	return f, nil
}

func (p *parser) parseParams() ([]domain.Parameter, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var params []domain.Parameter
	for !p.peek().is(")") {
		var param domain.Parameter
		for {
			if p.peek().is("@") {
				a, err := p.parseAnnotation()
				if err != nil {
					return nil, err
				}
				param.Annotations = append(param.Annotations, a)
				continue
			}
			if p.peek().is("final") {
				p.next()
				param.Final = true
				continue
			}
			break
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		param.Type = typ
		if p.peek().is("...") {
			p.next()
			param.Varargs = true
		}
		nameTok := p.peek()
		if !nameTok.isIdent() && !nameTok.is("this") {
			return nil, p.errorf(nameTok, "expected parameter name, found %q", nameTok.Text)
		}
		param.Name = p.next().Text
		for p.peek().is("[") && p.peekAt(1).is("]") {
			p.next()
			p.next()
			param.Type.Dims++
		}
		params = append(params, param)
		if p.peek().is(",") {
			p.next()
			continue
		}
		if !p.peek().is(")") {
			return nil, p.errorf(p.peek(), "expected \",\" or \")\" in parameter list, found %q", p.peek().Text)
		}
	}
	p.next()
	return params, nil
}

func (p *parser) parseThrows() ([]domain.TypeRef, error) {
	if !p.peek().is("throws") {
		return nil, nil
	}
	p.next()
	return p.parseTypeList()
}

// ---- types ----

func (p *parser) parseType() (domain.TypeRef, error) {
	for p.peek().is("@") && !p.peekAt(1).is("interface") {
		if _, err := p.parseAnnotation(); err != nil {
			return domain.TypeRef{}, err
		}
	}
	t := p.peek()
	if t.is("?") {
		p.next()
		ref := domain.TypeRef{Wildcard: domain.WildcardAny}
		if p.peek().is("extends") || p.peek().is("super") {
			ref.Wildcard = domain.WildcardExtends
			if p.next().is("super") {
				ref.Wildcard = domain.WildcardSuper
			}
			bound, err := p.parseType()
			if err != nil {
				return ref, err
			}
			ref.Bound = &bound
		}
		return ref, nil
	}
	if !t.isIdent() && !(t.Kind == domain.TokenKeyword && (primitive(t.Text) || t.Text == "void")) {
		return domain.TypeRef{}, p.errorf(t, "expected type, found %q", t.Text)
	}
	p.next()
	ref := domain.TypeRef{Name: t.Text}
	for {
		if p.peek().is(".") && p.peekAt(1).isIdent() {
			p.next()
			ref.Name += "." + p.next().Text
			continue
		}
		if p.peek().is("<") {
			args, err := p.parseTypeArgs()
			if err != nil {
				return ref, err
			}
			ref.Args = args
			if p.peek().is(".") && p.peekAt(1).isIdent() {
				continue
			}
		}
		break
	}
	for p.peek().is("[") && p.peekAt(1).is("]") {
		p.next()
		p.next()
		ref.Dims++
	}
	return ref, nil
}

func (p *parser) parseTypeArgs() ([]domain.TypeRef, error) {
	p.next()
	var args []domain.TypeRef
	if p.peek().is(">") {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().is(",") {
			p.next()
			continue
		}
		if _, err := p.expect(">"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func primitive(word string) bool {
	switch word {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

// ---- annotations and expressions ----

func (p *parser) parseAnnotation() (domain.Annotation, error) {
	at, err := p.expect("@")
	if err != nil {
		return domain.Annotation{}, err
	}
	name, err := p.qualifiedName()
	if err != nil {
		return domain.Annotation{}, err
	}
	ann := domain.Annotation{Name: name, Pos: at.Pos}
	if p.peek().is("(") {
		p.next()
		switch {
		case p.peek().is(")"):
		case p.peek().isIdent() && p.peekAt(1).is("="):
			for {
				key := p.next()
				p.next()
				val, err := p.parseElementValue(",", ")")
				if err != nil {
					return ann, err
				}
				ann.Args = append(ann.Args, domain.AnnotationArg{Key: key.Text, Value: val, Pos: key.Pos})
				if !p.peek().is(",") {
					break
				}
				p.next()
			}
		default:
			pos := p.peek().Pos
			val, err := p.parseElementValue(")")
			if err != nil {
				return ann, err
			}
			ann.Args = []domain.AnnotationArg{{Key: "value", Value: val, Pos: pos}}
			ann.Shorthand = true
		}
		if _, err := p.expect(")"); err != nil {
			return ann, err
		}
	}
	ann.Text = p.src[at.start:p.lastEnd]
	return ann, nil
}

func (p *parser) parseElementValue(stops ...string) (*domain.Expr, error) {
	t := p.peek()
	switch {
	case t.is("{"):
		startIdx := p.i
		p.next()
		arr := &domain.Expr{Kind: domain.ExprArray}
		for !p.peek().is("}") {
			if p.eof() {
				return nil, p.errorf(t, "unterminated array value")
			}
			el, err := p.parseElementValue(",", "}")
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, el)
			if p.peek().is(",") {
				p.next()
			}
		}
		p.next()
		arr.Text = p.src[t.start:p.lastEnd]
		arr.Tokens = p.tokensFrom(startIdx)
		return arr, nil
	case t.is("@"):
		startIdx := p.i
		if _, err := p.parseAnnotation(); err != nil {
			return nil, err
		}
		return &domain.Expr{Kind: domain.ExprOther, Text: p.src[t.start:p.lastEnd], Tokens: p.tokensFrom(startIdx)}, nil
	}
	return p.parseExpr(stops...)
}

// parseExpr consumes tokens up to (not including) a stop token at bracket
// depth zero.
func (p *parser) parseExpr(stops ...string) (*domain.Expr, error) {
	return p.parseExprUntil(len(stops) > 0, func(t token, _ []domain.Token) bool {
		return isStop(t, stops)
	})
}

// parseInitializer parses a field initializer. It stops at ";" or at the
// "," that starts the next declarator of a multi-variable declaration.
func (p *parser) parseInitializer() (*domain.Expr, error) {
	return p.parseExprUntil(true, func(t token, toks []domain.Token) bool {
		return t.is(";") || (t.is(",") && p.nextDeclarator(toks))
	})
}

// nextDeclarator reports whether the "," at the cursor separates
// declarators: it is followed by a name and then "=", ",", ";" or "[",
// and is not inside type arguments such as "new HashMap<K, V>()".
func (p *parser) nextDeclarator(toks []domain.Token) bool {
	angles := 0
	for _, t := range toks {
		switch t.Text {
		case "<":
			angles++
		case ">":
			angles--
		}
	}
	if angles > 0 || !p.peekAt(1).isIdent() {
		return false
	}
	after := p.peekAt(2)
	return after.is("=") || after.is(",") || after.is(";") || after.is("[")
}

func (p *parser) parseExprUntil(terminated bool, stop func(token, []domain.Token) bool) (*domain.Expr, error) {
	first := p.peek()
	var toks []domain.Token
	depth := 0
	for {
		t := p.peek()
		if p.eof() {
			if depth > 0 || terminated {
				return nil, p.errorf(first, "unterminated expression")
			}
			break
		}
		if depth == 0 && stop(t, toks) {
			break
		}
		switch {
		case t.is("(") || t.is("[") || t.is("{"):
			depth++
		case t.is(")") || t.is("]") || t.is("}"):
			depth--
			if depth < 0 {
				return nil, p.errorf(t, "unbalanced %q", t.Text)
			}
		}
		toks = append(toks, p.next().Token)
	}
	if len(toks) == 0 {
		return nil, p.errorf(first, "expected expression, found %q", first.Text)
	}
	return &domain.Expr{
		Kind:   classify(toks),
		Text:   dedent(p.src[first.start:p.lastEnd], p.lineIndent(first.start)),
		Tokens: toks,
	}, nil
}

func isStop(t token, stops []string) bool {
	for _, s := range stops {
		if s != "" && t.is(s) {
			return true
		}
	}
	return false
}

func (p *parser) tokensFrom(idx int) []domain.Token {
	var out []domain.Token
	for j := idx; j < p.i; j++ {
		if p.toks[j].Kind != domain.TokenComment {
			out = append(out, p.toks[j].Token)
		}
	}
	return out
}

func classify(toks []domain.Token) domain.ExprKind {
	if len(toks) == 1 {
		switch toks[0].Kind {
		case domain.TokenString, domain.TokenTextBlock:
			return domain.ExprString
		case domain.TokenNumber:
			return domain.ExprNumber
		case domain.TokenKeyword:
			if toks[0].Text == "true" || toks[0].Text == "false" {
				return domain.ExprBool
			}
		case domain.TokenIdent:
			return domain.ExprName
		}
		return domain.ExprOther
	}
	if len(toks) == 2 && toks[0].Text == "-" && toks[1].Kind == domain.TokenNumber {
		return domain.ExprNumber
	}
	n := len(toks)
	if n >= 3 && toks[n-1].Text == "class" && toks[n-2].Text == "." && qualifiedTokens(toks[:n-2]) {
		return domain.ExprClass
	}
	if qualifiedTokens(toks) {
		return domain.ExprName
	}
	return domain.ExprOther
}

func qualifiedTokens(toks []domain.Token) bool {
	if len(toks)%2 == 0 {
		return false
	}
	for i, t := range toks {
		if i%2 == 0 {
			if t.Kind != domain.TokenIdent && !(t.Kind == domain.TokenKeyword && primitive(t.Text)) {
				return false
			}
		} else if t.Text != "." {
			return false
		}
	}
	return true
}

// ---- blocks and statements ----

func (p *parser) parseBlock(indent string) (*domain.Block, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	stmts, tail, err := p.parseStatements(true)
	if err != nil {
		return nil, err
	}
	return &domain.Block{
		Statements: stmts,
		Tail:       tail,
		Source:     dedent(p.src[open.start:p.lastEnd], indent),
	}, nil
}

// parseStatements reads statements until the closing brace (nested) or
// the end of input.
func (p *parser) parseStatements(nested bool) ([]domain.Statement, []string, error) {
	var stmts []domain.Statement
	for {
		prevEnd := p.lastEnd
		comments, commentStart := p.collectComments()
		t := p.peek()
		if nested && t.is("}") {
			p.next()
			return stmts, comments, nil
		}
		if p.eof() {
			if nested {
				return nil, nil, p.errorf(t, "unterminated block")
			}
			return stmts, comments, nil
		}
		first := t.start
		if commentStart >= 0 {
			first = commentStart
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, nil, err
		}
		stmt.Comments = comments
		stmt.BlankBefore = p.blankBetween(prevEnd, first)
		stmts = append(stmts, stmt)
	}
}

func (p *parser) parseStatement() (domain.Statement, error) {
	first := p.peek()
	indent := p.lineIndent(first.start)
	blockShaped := p.blockStatement()
	isDo := first.is("do")
	isIf := first.is("if")

	var toks []domain.Token
	depth := 0
loop:
	for {
		if p.eof() {
			return domain.Statement{}, p.errorf(first, "unterminated statement")
		}
		t := p.next()
		toks = append(toks, t.Token)
		switch {
		case t.is("(") || t.is("[") || t.is("{"):
			depth++
		case t.is(")") || t.is("]") || t.is("}"):
			depth--
			if depth < 0 {
				return domain.Statement{}, p.errorf(t, "unbalanced %q", t.Text)
			}
		}
		if depth != 0 {
			continue
		}
		switch {
		case t.is(";"):
			if isIf && p.peek().is("else") {
				continue
			}
			break loop
		case t.is("}") && blockShaped && !isDo:
			nxt := p.peek()
			if nxt.is("else") || nxt.is("catch") || nxt.is("finally") {
				continue
			}
			break loop
		}
	}

	end := p.lastEnd
	if c, ok := p.sameLineComment(end); ok {
		end = c.end
	}
	return domain.Statement{
		Tokens: toks,
		Text:   dedent(p.src[first.start:end], indent),
	}, nil
}

// blockStatement reports whether the upcoming statement ends with its
// closing brace rather than a semicolon.
func (p *parser) blockStatement() bool {
	k := 0
	if p.peekAt(0).isIdent() && p.peekAt(1).is(":") {
		k = 2
	}
	t := p.peekAt(k)
	switch {
	case t.is("{"), t.is("if"), t.is("for"), t.is("while"), t.is("do"), t.is("try"),
		t.is("switch"), t.is("synchronized"), t.is("class"), t.is("interface"), t.is("enum"):
		return true
	case t.is("abstract") || t.is("final") || t.is("static"):
		return p.peekAt(k + 1).is("class")
	case t.isIdent() && t.Text == "record":
		return p.peekAt(k + 1).isIdent()
	}
	return false
}

// dedent removes indent from every line after the first. Lines indented
// less than indent lose only their leading whitespace.
func dedent(text, indent string) string {
	if indent == "" || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, indent) {
			lines[i] = line[len(indent):]
			continue
		}
		lines[i] = strings.TrimLeft(line, " \t")
	}
	return strings.Join(lines, "\n")
}
