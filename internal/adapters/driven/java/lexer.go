package java

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// token is a lexical token with byte offsets into the source.
type token struct {
	domain.Token
	start int
	end   int
}

// is reports whether the token is the given keyword, identifier or operator.
func (t token) is(text string) bool {
	switch t.Kind {
	case domain.TokenComment, domain.TokenString, domain.TokenChar, domain.TokenTextBlock:
		return false
	}
	return t.Text == text
}

func (t token) isIdent() bool {
	return t.Kind == domain.TokenIdent
}

// operators are matched longest first. ">>" and ">>>" are never joined so
// that nested type arguments close one bracket at a time.
var operators = []string{
	"<<=", "...", "->", "::", "++", "--", "&&", "||", "==", "!=", "<=", ">=",
	"+=", "-=", "*=", "/=", "&=", "|=", "^=", "%=", "<<",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "@", "=", ">", "<", "!",
	"~", "?", ":", "+", "-", "*", "/", "&", "|", "^", "%",
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
	toks []token
}

// lex splits src into tokens, comments included.
func lex(src string) ([]token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	for {
		l.skipSpace()
		if l.off >= len(l.src) {
			return l.toks, nil
		}
		if err := l.scan(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) pos() domain.Position {
	return domain.Position{Line: l.line, Column: l.col}
}

// advance moves n bytes forward, tracking lines and rune columns.
func (l *lexer) advance(n int) {
	for i := 0; i < n && l.off < len(l.src); i++ {
		c := l.src[l.off]
		switch {
		case c == '\n':
			l.line++
			l.col = 1
		case c&0xC0 != 0x80:
			l.col++
		}
		l.off++
	}
}

func (l *lexer) skipSpace() {
	for l.off < len(l.src) {
		switch l.src[l.off] {
		case ' ', '\t', '\n', '\r', '\f':
			l.advance(1)
		default:
			return
		}
	}
}

func (l *lexer) emit(kind domain.TokenKind, start int, pos domain.Position) {
	l.toks = append(l.toks, token{
		Token: domain.Token{Kind: kind, Text: l.src[start:l.off], Pos: pos},
		start: start,
		end:   l.off,
	})
}

func (l *lexer) errorf(pos domain.Position, format string, args ...any) error {
	return domain.NewParseError("", pos, fmt.Sprintf(format, args...))
}

func (l *lexer) scan() error {
	start, pos := l.off, l.pos()
	rest := l.src[l.off:]

	switch {
	case strings.HasPrefix(rest, "//"):
		n := strings.IndexByte(rest, '\n')
		if n < 0 {
			n = len(rest)
		}
		l.advance(n)
		l.emit(domain.TokenComment, start, pos)
		return nil

	case strings.HasPrefix(rest, "/*"):
		n := strings.Index(rest[2:], "*/")
		if n < 0 {
			return l.errorf(pos, "unterminated comment")
		}
		l.advance(n + 4)
		l.emit(domain.TokenComment, start, pos)
		return nil

	case strings.HasPrefix(rest, `"""`):
		n := closingTextBlock(rest)
		if n < 0 {
			return l.errorf(pos, "unterminated text block")
		}
		l.advance(n)
		l.emit(domain.TokenTextBlock, start, pos)
		return nil

	case rest[0] == '"' || rest[0] == '\'':
		n := closingQuote(rest, rest[0])
		if n < 0 {
			return l.errorf(pos, "unterminated literal")
		}
		l.advance(n)
		kind := domain.TokenString
		if rest[0] == '\'' {
			kind = domain.TokenChar
		}
		l.emit(kind, start, pos)
		return nil
	}

	r, size := utf8.DecodeRuneInString(rest)
	switch {
	case isIdentStart(r):
		n := size
		for n < len(rest) {
			r2, s2 := utf8.DecodeRuneInString(rest[n:])
			if !isIdentPart(r2) {
				break
			}
			n += s2
		}
		l.advance(n)
		kind := domain.TokenIdent
		if domain.IsKeyword(rest[:n]) {
			kind = domain.TokenKeyword
		}
		l.emit(kind, start, pos)
		return nil

	case isDigit(rest[0]) || (rest[0] == '.' && len(rest) > 1 && isDigit(rest[1])):
		l.advance(numberLength(rest))
		l.emit(domain.TokenNumber, start, pos)
		return nil
	}

	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			l.advance(len(op))
			l.emit(domain.TokenOperator, start, pos)
			return nil
		}
	}
	return l.errorf(pos, "unexpected character %q", r)
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// closingQuote returns the length of a string or char literal including
// both quotes, or -1.
func closingQuote(s string, q byte) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i + 1
		case '\n':
			return -1
		}
	}
	return -1
}

// closingTextBlock returns the length of a text block including both
// delimiters, or -1.
func closingTextBlock(s string) int {
	for i := 3; i+2 < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' && s[i+1] == '"' && s[i+2] == '"' {
			return i + 3
		}
	}
	return -1
}

// numberLength scans a numeric literal: digits, underscores, hex and
// binary prefixes, fractions, exponents and type suffixes.
func numberLength(s string) int {
	hex := len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
	n := 0
	for n < len(s) {
		c := s[n]
		switch {
		case isDigit(c) || c == '_' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			n++
		case (c == '+' || c == '-') && n > 0 && exponentMarker(s[n-1], hex):
			n++
		default:
			return n
		}
	}
	return n
}

func exponentMarker(c byte, hex bool) bool {
	if hex {
		return c == 'p' || c == 'P'
	}
	return c == 'e' || c == 'E'
}
