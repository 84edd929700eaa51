package domain

import "strings"

// WildcardKind distinguishes the forms of a generic wildcard argument.
type WildcardKind int

// Wildcard forms.
const (
	WildcardNone WildcardKind = iota
	WildcardAny
	WildcardExtends
	WildcardSuper
)

// TypeRef is a reference to a Java type as written in source.
// Name may be qualified. Bounded wildcards keep their bound in Bound.
type TypeRef struct {
	Name     string
	Args     []TypeRef
	Dims     int
	Wildcard WildcardKind
	Bound    *TypeRef
}

// NewTypeRef creates a reference to a non-generic type.
func NewTypeRef(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// IsZero reports whether the reference is unset.
func (t TypeRef) IsZero() bool {
	return t.Name == "" && t.Wildcard == WildcardNone
}

// Raw returns the simple name without package qualifier or type arguments.
func (t TypeRef) Raw() string {
	return SimpleName(t.Name)
}

// String returns the reference as Java source text.
func (t TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeRef) write(b *strings.Builder) {
	switch t.Wildcard {
	case WildcardAny:
		b.WriteString("?")
		return
	case WildcardExtends, WildcardSuper:
		b.WriteString("? ")
		if t.Wildcard == WildcardExtends {
			b.WriteString("extends ")
		} else {
			b.WriteString("super ")
		}
		if t.Bound != nil {
			t.Bound.write(b)
		}
		return
	}
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteString("<")
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteString(">")
	}
	for i := 0; i < t.Dims; i++ {
		b.WriteString("[]")
	}
}

// Equal reports whether two references denote the same type. A qualified
// name equals its simple form so that "java.lang.String" matches "String".
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Wildcard != o.Wildcard || t.Dims != o.Dims || len(t.Args) != len(o.Args) {
		return false
	}
	if t.Wildcard == WildcardExtends || t.Wildcard == WildcardSuper {
		if t.Bound == nil || o.Bound == nil {
			return t.Bound == o.Bound
		}
		return t.Bound.Equal(*o.Bound)
	}
	if !sameName(t.Name, o.Name) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func sameName(a, b string) bool {
	if a == b {
		return true
	}
	if strings.Contains(a, ".") && strings.Contains(b, ".") {
		return false
	}
	return SimpleName(a) == SimpleName(b)
}

// IsPrimitive reports whether the reference is a primitive, non-array type.
func (t TypeRef) IsPrimitive() bool {
	_, ok := boxes[t.Name]
	return ok && t.Dims == 0
}

var boxes = map[string]string{
	"boolean": "Boolean",
	"byte":    "Byte",
	"char":    "Character",
	"short":   "Short",
	"int":     "Integer",
	"long":    "Long",
	"float":   "Float",
	"double":  "Double",
}

// Boxed returns the wrapper type for a primitive; other types are returned unchanged.
func (t TypeRef) Boxed() TypeRef {
	if !t.IsPrimitive() {
		return t
	}
	return TypeRef{Name: boxes[t.Name]}
}

// Clone returns a deep copy.
func (t TypeRef) Clone() TypeRef {
	c := TypeRef{Name: t.Name, Dims: t.Dims, Wildcard: t.Wildcard}
	if len(t.Args) > 0 {
		c.Args = make([]TypeRef, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Clone()
		}
	}
	if t.Bound != nil {
		b := t.Bound.Clone()
		c.Bound = &b
	}
	return c
}

// ReferencedNames returns every non-primitive type name used by the
// reference, including type arguments and wildcard bounds.
func (t TypeRef) ReferencedNames() []string {
	var names []string
	var walk func(TypeRef)
	walk = func(r TypeRef) {
		if r.Bound != nil {
			walk(*r.Bound)
		}
		if r.Name != "" {
			if _, prim := boxes[r.Name]; !prim && r.Name != "void" {
				names = append(names, r.Name)
			}
		}
		for _, a := range r.Args {
			walk(a)
		}
	}
	walk(t)
	return names
}
