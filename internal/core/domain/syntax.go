package domain

import "strings"

// TokenKind classifies a lexical token.
type TokenKind int

// Token kinds.
const (
	TokenIdent TokenKind = iota
	TokenKeyword
	TokenNumber
	TokenString
	TokenChar
	TokenTextBlock
	TokenOperator
	TokenComment
)

// Token is one lexical token with its position.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// tokensEqual compares token texts, ignoring positions.
func tokensEqual(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text {
			return false
		}
	}
	return true
}

func tokensKey(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// ExprKind classifies an initializer or annotation value.
type ExprKind int

// Expression kinds.
const (
	ExprOther ExprKind = iota
	ExprString
	ExprNumber
	ExprBool
	ExprClass
	ExprName
	ExprArray
)

// Expr is an expression kept as tokens plus its source text.
// Array expressions also expose their elements.
type Expr struct {
	Kind   ExprKind
	Text   string
	Tokens []Token
	Elems  []*Expr
}

// String returns the source text.
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	return e.Text
}

// Equal compares two expressions by tokens.
func (e *Expr) Equal(o *Expr) bool {
	if e == nil || o == nil {
		return e == o
	}
	return tokensEqual(e.Tokens, o.Tokens)
}

// StringValue returns the unquoted content of a string literal.
func (e *Expr) StringValue() (string, bool) {
	if e == nil || e.Kind != ExprString || len(e.Tokens) != 1 {
		return "", false
	}
	return UnquoteJava(e.Tokens[0].Text), true
}

// IsEmptyString reports whether the expression is the literal "".
func (e *Expr) IsEmptyString() bool {
	s, ok := e.StringValue()
	return ok && s == ""
}

// ClassName returns the type name of a class literal such as Foo.class.
func (e *Expr) ClassName() (string, bool) {
	if e == nil || e.Kind != ExprClass {
		return "", false
	}
	toks := e.Tokens[:len(e.Tokens)-2]
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String(), true
}

// UnquoteJava strips quotes from a Java string literal and resolves the
// common escapes.
func UnquoteJava(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	r := strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n", `\t`, "\t", `\'`, "'", `\r`, "\r")
	return r.Replace(body)
}

// QuoteJava renders s as a Java string literal.
func QuoteJava(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}

// AnnotationArg is one element-value pair. Key is "value" for the
// single-element shorthand.
type AnnotationArg struct {
	Key   string
	Value *Expr
	Pos   Position
}

// Annotation is an annotation usage. Text is the original source text and
// is cleared when the annotation is edited.
type Annotation struct {
	Name string
	Args []AnnotationArg
	Text string
	Pos  Position
	// Shorthand records that the single value was written without "value =".
	Shorthand bool
}

// SimpleName returns the annotation name without qualifier.
func (a *Annotation) SimpleName() string {
	return SimpleName(a.Name)
}

// Value returns the expression for key, or nil.
func (a *Annotation) Value(key string) *Expr {
	for _, arg := range a.Args {
		if arg.Key == key {
			return arg.Value
		}
	}
	return nil
}

// Arg returns the argument for key.
func (a *Annotation) Arg(key string) (AnnotationArg, bool) {
	for _, arg := range a.Args {
		if arg.Key == key {
			return arg, true
		}
	}
	return AnnotationArg{}, false
}

// SetSingleValue makes the annotation carry exactly one shorthand value.
// Reports whether anything changed.
func (a *Annotation) SetSingleValue(v *Expr) bool {
	if len(a.Args) == 1 && a.Args[0].Key == "value" && a.Args[0].Value.Equal(v) {
		return false
	}
	a.Args = []AnnotationArg{{Key: "value", Value: v}}
	a.Shorthand = true
	a.Text = ""
	return true
}

// String returns the annotation as Java source text.
func (a *Annotation) String() string {
	if a.Text != "" {
		return a.Text
	}
	var b strings.Builder
	b.WriteString("@")
	b.WriteString(a.Name)
	if len(a.Args) == 0 {
		return b.String()
	}
	b.WriteString("(")
	if len(a.Args) == 1 && a.Args[0].Key == "value" {
		b.WriteString(a.Args[0].Value.String())
	} else {
		for i, arg := range a.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Key)
			b.WriteString(" = ")
			b.WriteString(arg.Value.String())
		}
	}
	b.WriteString(")")
	return b.String()
}

// Statement is one statement of a body. Tokens exclude comments; Text is
// the source (including nested blocks and same-line comments) with the
// statement's own indentation removed from continuation lines.
type Statement struct {
	Comments    []string
	Tokens      []Token
	Text        string
	BlankBefore bool
}

// Equal compares two statements by tokens.
func (s Statement) Equal(o Statement) bool {
	return tokensEqual(s.Tokens, o.Tokens)
}

// Key returns a whitespace-normalized rendering, usable as a map key.
func (s Statement) Key() string {
	return tokensKey(s.Tokens)
}

// Block is a brace-delimited statement list. Source is the text from "{"
// to "}", dedented like its member, and is printed as-is unless Modified
// is set.
type Block struct {
	Statements []Statement
	Tail       []string
	Source     string
	Modified   bool
}

// NewBlock creates a modified block from statements.
func NewBlock(stmts ...Statement) *Block {
	return &Block{Statements: stmts, Modified: true}
}

// Equal compares two blocks statement by statement.
func (b *Block) Equal(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	if len(b.Statements) != len(o.Statements) {
		return false
	}
	for i := range b.Statements {
		if !b.Statements[i].Equal(o.Statements[i]) {
			return false
		}
	}
	return true
}

// Index returns the position of the first statement equal to s, or -1.
func (b *Block) Index(s Statement) int {
	for i, st := range b.Statements {
		if st.Equal(s) {
			return i
		}
	}
	return -1
}

// SetStatements replaces the statement list and marks the block modified.
func (b *Block) SetStatements(stmts []Statement) {
	b.Statements = stmts
	b.Modified = true
}

// Clone returns a copy that shares token slices.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Statements = append([]Statement(nil), b.Statements...)
	c.Tail = append([]string(nil), b.Tail...)
	return &c
}
