package domain

import (
	"slices"
	"strings"
)

// Modifiers is an ordered modifier list compared as a set, so that
// "private volatile static" equals "private static volatile".
type Modifiers []string

// Has reports whether m contains mod.
func (m Modifiers) Has(mod string) bool {
	return slices.Contains(m, mod)
}

// Equal compares two modifier lists as sets.
func (m Modifiers) Equal(o Modifiers) bool {
	if len(m) != len(o) {
		return false
	}
	for _, mod := range m {
		if !o.Has(mod) {
			return false
		}
	}
	return true
}

// Without returns a copy with the given modifiers removed.
func (m Modifiers) Without(mods ...string) Modifiers {
	out := make(Modifiers, 0, len(m))
	for _, mod := range m {
		if !slices.Contains(mods, mod) {
			out = append(out, mod)
		}
	}
	return out
}

// String joins the modifiers with spaces.
func (m Modifiers) String() string {
	return strings.Join(m, " ")
}

// Parameter is one formal parameter.
type Parameter struct {
	Annotations []Annotation
	Final       bool
	Type        TypeRef
	Varargs     bool
	Name        string
}

// Equal compares type, name and arity marker.
func (p Parameter) Equal(o Parameter) bool {
	return p.Name == o.Name && p.Varargs == o.Varargs && p.Type.Equal(o.Type)
}

// ParamsEqual compares two parameter lists positionally.
func ParamsEqual(a, b []Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// MemberBase carries what every member has in common.
//
// Source is the member text from its first annotation or modifier to its
// terminating ";" or "}", with the member's own indentation removed from
// continuation lines. Unmodified members are printed from Source.
type MemberBase struct {
	Doc         []string
	Annotations []Annotation
	Modifiers   Modifiers
	Source      string
	Trailing    string
	BlankBefore bool
	Modified    bool
	Pos         Position
}

// Base returns the shared member data.
func (b *MemberBase) Base() *MemberBase {
	return b
}

// HasAnnotation reports whether an annotation with the given simple name is present.
func (b *MemberBase) HasAnnotation(name string) bool {
	return b.Annotation(name) != nil
}

// Annotation returns the first annotation with the given simple name.
func (b *MemberBase) Annotation(name string) *Annotation {
	for i := range b.Annotations {
		if b.Annotations[i].SimpleName() == SimpleName(name) {
			return &b.Annotations[i]
		}
	}
	return nil
}

// Member is a field, constructor, method or an opaque member.
type Member interface {
	Base() *MemberBase
	MemberName() string
}

// FieldSlot is a single-variable field declaration.
type FieldSlot struct {
	MemberBase
	Type TypeRef
	Name string
	Init *Expr
}

// MemberName returns the field name.
func (f *FieldSlot) MemberName() string { return f.Name }

// MethodSlot is a method declaration. A nil Body means no body (abstract
// or interface method).
type MethodSlot struct {
	MemberBase
	TypeParams string
	Result     TypeRef
	Name       string
	Params     []Parameter
	Throws     []TypeRef
	Body       *Block
}

// MemberName returns the method name.
func (m *MethodSlot) MemberName() string { return m.Name }

// ConstructorSlot is a constructor declaration.
type ConstructorSlot struct {
	MemberBase
	TypeParams string
	Name       string
	Params     []Parameter
	Throws     []TypeRef
	Body       *Block
}

// MemberName returns the declaring type name.
func (c *ConstructorSlot) MemberName() string { return c.Name }

// RawMember is a member kept verbatim: nested types, initializer blocks,
// multi-variable fields.
type RawMember struct {
	MemberBase

	// Vars lists the variables of a multi-variable field declaration.
	Vars []Variable
}

// Variable is one declarator of a multi-variable field such as
// "private String host, port;". Type includes the declarator's own dims.
type Variable struct {
	Name string
	Type TypeRef
}

// MemberName returns an empty string; raw members are never matched by name.
func (r *RawMember) MemberName() string { return "" }
