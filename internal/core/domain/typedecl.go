package domain

// TypeKind is the kind of a type declaration.
type TypeKind string

// Type kinds.
const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindRecord     TypeKind = "record"
	KindAnnotation TypeKind = "@interface"
)

// TypeDeclaration is a class, interface, enum, record or annotation type.
//
// Header is the verbatim text from the first annotation or modifier up to
// (not including) the opening brace. It is printed as-is unless Modified is
// set. Members keeps source order; only class and interface bodies are
// split into members, other kinds keep their body in BodySource.
type TypeDeclaration struct {
	Doc         []string
	Annotations []Annotation
	Modifiers   Modifiers
	Kind        TypeKind
	Name        string
	TypeParams  []string
	Extends     []TypeRef
	Implements  []TypeRef
	HeaderExtra string
	Members     []Member
	Tail        []string
	Header      string
	BodySource  string
	Modified    bool
	Pos         Position
}

// IsInterface reports whether the declaration is an interface.
func (t *TypeDeclaration) IsInterface() bool {
	return t.Kind == KindInterface
}

// Fields returns the field members in source order.
func (t *TypeDeclaration) Fields() []*FieldSlot {
	var out []*FieldSlot
	for _, m := range t.Members {
		if f, ok := m.(*FieldSlot); ok {
			out = append(out, f)
		}
	}
	return out
}

// Constructors returns the constructor members in source order.
func (t *TypeDeclaration) Constructors() []*ConstructorSlot {
	var out []*ConstructorSlot
	for _, m := range t.Members {
		if c, ok := m.(*ConstructorSlot); ok {
			out = append(out, c)
		}
	}
	return out
}

// Methods returns the method members in source order.
func (t *TypeDeclaration) Methods() []*MethodSlot {
	var out []*MethodSlot
	for _, m := range t.Members {
		if mt, ok := m.(*MethodSlot); ok {
			out = append(out, mt)
		}
	}
	return out
}

// Field returns the field called name, or nil.
func (t *TypeDeclaration) Field(name string) *FieldSlot {
	for _, f := range t.Fields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// GroupedField returns the variable called name when it is declared in a
// multi-variable field declaration.
func (t *TypeDeclaration) GroupedField(name string) (Variable, bool) {
	for _, m := range t.Members {
		r, ok := m.(*RawMember)
		if !ok {
			continue
		}
		for _, v := range r.Vars {
			if v.Name == name {
				return v, true
			}
		}
	}
	return Variable{}, false
}

// Method returns the first method called name, or nil.
func (t *TypeDeclaration) Method(name string) *MethodSlot {
	for _, m := range t.Methods() {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Annotation returns the first type annotation with the given simple name.
func (t *TypeDeclaration) Annotation(name string) *Annotation {
	for i := range t.Annotations {
		if t.Annotations[i].SimpleName() == SimpleName(name) {
			return &t.Annotations[i]
		}
	}
	return nil
}

// HasAnnotation reports whether the type carries the named annotation.
func (t *TypeDeclaration) HasAnnotation(name string) bool {
	return t.Annotation(name) != nil
}

// AddAnnotation appends an annotation. The header is printed canonically afterwards.
func (t *TypeDeclaration) AddAnnotation(a Annotation) {
	t.Annotations = append(t.Annotations, a)
	t.Modified = true
}

// SetModifiers replaces the modifiers when they differ as a set.
// Reports whether anything changed.
func (t *TypeDeclaration) SetModifiers(mods Modifiers) bool {
	if t.Modifiers.Equal(mods) {
		return false
	}
	t.Modifiers = mods
	t.Modified = true
	return true
}

// AddImplements appends ref to the implements list unless a type with the
// same raw name is already there.
func (t *TypeDeclaration) AddImplements(ref TypeRef) bool {
	for _, r := range t.Implements {
		if r.Raw() == ref.Raw() {
			return false
		}
	}
	t.Implements = append(t.Implements, ref)
	t.Modified = true
	return true
}

// InsertMember adds m next to members of the same kind: fields after the
// last field, constructors after the last constructor (or the fields),
// everything else at the end.
func (t *TypeDeclaration) InsertMember(m Member) {
	at := len(t.Members)
	switch m.(type) {
	case *FieldSlot:
		at = t.lastIndex(func(x Member) bool { _, ok := x.(*FieldSlot); return ok }) + 1
	case *ConstructorSlot:
		at = t.lastIndex(func(x Member) bool { _, ok := x.(*ConstructorSlot); return ok }) + 1
		if at == 0 {
			at = t.lastIndex(func(x Member) bool { _, ok := x.(*FieldSlot); return ok }) + 1
		}
	}
	b := m.Base()
	b.Modified = true
	b.BlankBefore = at > 0
	if _, isField := m.(*FieldSlot); isField && at > 0 {
		_, prevField := t.Members[at-1].(*FieldSlot)
		b.BlankBefore = !prevField
	}
	if at < len(t.Members) && at == 0 {
		t.Members[0].Base().BlankBefore = true
	}
	t.Members = append(t.Members, nil)
	copy(t.Members[at+1:], t.Members[at:])
	t.Members[at] = m
}

func (t *TypeDeclaration) lastIndex(pred func(Member) bool) int {
	last := -1
	for i, m := range t.Members {
		if pred(m) {
			last = i
		}
	}
	return last
}

// RemoveMember deletes m by identity. Reports whether it was present.
func (t *TypeDeclaration) RemoveMember(m Member) bool {
	for i, x := range t.Members {
		if x == m {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return true
		}
	}
	return false
}
