package services

import "github.com/custodia-labs/annlib/internal/core/domain"

// InitPolicy decides what happens to the initializer of a matched field.
type InitPolicy int

const (
	// InitReplace overwrites the initializer whenever it differs.
	InitReplace InitPolicy = iota
	// InitFillEmpty writes the initializer only when it is missing or "".
	InitFillEmpty
	// InitKeep never touches an existing initializer.
	InitKeep
)

// ParamPolicy decides what happens to the parameters of a matched constructor.
type ParamPolicy int

const (
	// ParamsReplace makes the parameter list equal to the desired one.
	ParamsReplace ParamPolicy = iota
	// ParamsKeep leaves the parameters as written.
	ParamsKeep
)

// BodyPolicy computes the body of a matched member from the existing and
// desired bodies. It reports whether the result differs from existing.
// existing is nil when the member is being added.
type BodyPolicy func(existing, desired *domain.Block) (*domain.Block, bool)

// BodyReplace regenerates the body whenever it differs from desired.
func BodyReplace(existing, desired *domain.Block) (*domain.Block, bool) {
	if existing != nil && existing.Equal(desired) {
		return existing, false
	}
	return desired, true
}

// BodyKeep keeps any existing body and uses desired only when there is none.
func BodyKeep(existing, desired *domain.Block) (*domain.Block, bool) {
	if existing != nil {
		return existing, false
	}
	return desired, desired != nil
}

// BodyMerge edits the existing statements with merge. Statements merge
// leaves alone keep their text and comments.
func BodyMerge(merge func([]domain.Statement) []domain.Statement) BodyPolicy {
	return func(existing, _ *domain.Block) (*domain.Block, bool) {
		var stmts []domain.Statement
		if existing != nil {
			stmts = append(stmts, existing.Statements...)
		}
		out := merge(stmts)
		if existing != nil && statementsEqual(existing.Statements, out) {
			return existing, false
		}
		blk := domain.NewBlock(out...)
		if existing != nil {
			blk.Tail = existing.Tail
		}
		return blk, true
	}
}

func statementsEqual(a, b []domain.Statement) bool {
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

// Reconciler patches one type declaration towards a desired shape. Every
// operation adds the member when nothing matches, or rewrites only the
// facets of the match that differ. Changes are recorded on the unit.
type Reconciler struct {
	unit *domain.SourceUnit
	typ  *domain.TypeDeclaration
}

// NewReconciler creates a reconciler for the unit's top-level type.
func NewReconciler(unit *domain.SourceUnit) *Reconciler {
	return &Reconciler{unit: unit, typ: unit.Type}
}

// Changed reports whether any operation modified the unit.
func (r *Reconciler) Changed() bool {
	return r.unit.Changed
}

func (r *Reconciler) touch(m domain.Member) {
	m.Base().Modified = true
	r.unit.Changed = true
}

// Field reconciles a field and returns the live declaration.
func (r *Reconciler) Field(desired *domain.FieldSlot, init InitPolicy, rules ...MatchRule) *domain.FieldSlot {
	found, _ := findMember(r.typ, desired, rules).(*domain.FieldSlot)
	if found == nil {
		r.typ.InsertMember(desired)
		r.unit.Changed = true
		return desired
	}

	if found.Name != desired.Name {
		found.Name = desired.Name
		r.touch(found)
	}
	if !found.Modifiers.Equal(desired.Modifiers) {
		found.Modifiers = desired.Modifiers
		r.touch(found)
	}
	if !found.Type.Equal(desired.Type) {
		found.Type = desired.Type.Clone()
		r.touch(found)
	}
	if r.annotations(&found.MemberBase, desired.Annotations) {
		r.touch(found)
	}

	switch init {
	case InitReplace:
		if !found.Init.Equal(desired.Init) {
			found.Init = desired.Init
			r.touch(found)
		}
	case InitFillEmpty:
		if (found.Init == nil || found.Init.IsEmptyString()) && desired.Init != nil && !found.Init.Equal(desired.Init) {
			found.Init = desired.Init
			r.touch(found)
		}
	}
	return found
}

// Method reconciles a method and returns the live declaration.
func (r *Reconciler) Method(desired *domain.MethodSlot, body BodyPolicy, rules ...MatchRule) *domain.MethodSlot {
	found, _ := findMember(r.typ, desired, rules).(*domain.MethodSlot)
	if found == nil {
		if body != nil {
			desired.Body, _ = body(nil, desired.Body)
		}
		r.typ.InsertMember(desired)
		r.unit.Changed = true
		return desired
	}

	if found.Name != desired.Name {
		found.Name = desired.Name
		r.touch(found)
	}
	if !found.Modifiers.Equal(desired.Modifiers) {
		found.Modifiers = desired.Modifiers
		r.touch(found)
	}
	if !found.Result.Equal(desired.Result) {
		found.Result = desired.Result.Clone()
		r.touch(found)
	}
	if !domain.ParamsEqual(found.Params, desired.Params) {
		found.Params = desired.Params
		r.touch(found)
	}
	if r.annotations(&found.MemberBase, desired.Annotations) {
		r.touch(found)
	}
	if body != nil {
		if blk, changed := body(found.Body, desired.Body); changed {
			found.Body = blk
			r.touch(found)
		}
	}
	return found
}

// Constructor reconciles a constructor and returns the live declaration.
func (r *Reconciler) Constructor(desired *domain.ConstructorSlot, params ParamPolicy, body BodyPolicy, rules ...MatchRule) *domain.ConstructorSlot {
	found, _ := findMember(r.typ, desired, rules).(*domain.ConstructorSlot)
	if found == nil {
		if body != nil {
			desired.Body, _ = body(nil, desired.Body)
		}
		if desired.Body == nil {
			desired.Body = domain.NewBlock()
		}
		r.typ.InsertMember(desired)
		r.unit.Changed = true
		return desired
	}

	if !found.Modifiers.Equal(desired.Modifiers) {
		found.Modifiers = desired.Modifiers
		r.touch(found)
	}
	if params == ParamsReplace && !domain.ParamsEqual(found.Params, desired.Params) {
		found.Params = desired.Params
		r.touch(found)
	}
	if r.annotations(&found.MemberBase, desired.Annotations) {
		r.touch(found)
	}
	if body != nil {
		if blk, changed := body(found.Body, desired.Body); changed {
			found.Body = blk
			r.touch(found)
		}
	}
	return found
}

// Remove deletes the first member of kind's kind matching rules. It is the
// only way a member ever disappears. Reports whether one was removed.
func (r *Reconciler) Remove(kind domain.Member, rules ...MatchRule) bool {
	found := findMember(r.typ, kind, rules)
	if found == nil {
		return false
	}
	r.typ.RemoveMember(found)
	r.unit.Changed = true
	return true
}

// annotations adds every desired annotation missing by simple name.
func (r *Reconciler) annotations(base *domain.MemberBase, desired []domain.Annotation) bool {
	changed := false
	for _, a := range desired {
		if !base.HasAnnotation(a.Name) {
			base.Annotations = append(base.Annotations, a)
			changed = true
		}
	}
	return changed
}
