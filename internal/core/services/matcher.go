package services

import "github.com/custodia-labs/annlib/internal/core/domain"

// MatchRule reports whether an existing member occupies the slot of a
// desired member. Rules only ever see members of the desired member's kind.
type MatchRule func(existing domain.Member) bool

// SlotMatch matches on modifier set and declared type, ignoring the name,
// so a user may rename a generated field or method.
func SlotMatch(mods domain.Modifiers, typ domain.TypeRef) MatchRule {
	return func(m domain.Member) bool {
		t, ok := declaredType(m)
		return ok && m.Base().Modifiers.Equal(mods) && t.Equal(typ)
	}
}

// IdentityMatch matches on name only.
func IdentityMatch(name string) MatchRule {
	return func(m domain.Member) bool {
		return m.MemberName() == name
	}
}

// FullMatch matches on name, modifier set and declared type.
func FullMatch(name string, mods domain.Modifiers, typ domain.TypeRef) MatchRule {
	return AllOf(IdentityMatch(name), SlotMatch(mods, typ))
}

// ConstructorMatch matches any constructor; with first-match-wins this
// selects the first constructor of the type.
func ConstructorMatch() MatchRule {
	return func(m domain.Member) bool {
		_, ok := m.(*domain.ConstructorSlot)
		return ok
	}
}

// NoParams matches methods and constructors without parameters.
func NoParams() MatchRule {
	return func(m domain.Member) bool {
		switch x := m.(type) {
		case *domain.MethodSlot:
			return len(x.Params) == 0
		case *domain.ConstructorSlot:
			return len(x.Params) == 0
		}
		return false
	}
}

// SignatureMatch matches methods and constructors whose parameter types
// equal those of params. Parameter names are ignored, as they are by javac
// when it compares overloads.
func SignatureMatch(params []domain.Parameter) MatchRule {
	return func(m domain.Member) bool {
		var have []domain.Parameter
		switch x := m.(type) {
		case *domain.MethodSlot:
			have = x.Params
		case *domain.ConstructorSlot:
			have = x.Params
		default:
			return false
		}
		if len(have) != len(params) {
			return false
		}
		for i := range have {
			if have[i].Varargs != params[i].Varargs || !have[i].Type.Equal(params[i].Type) {
				return false
			}
		}
		return true
	}
}

// AllOf combines rules with logical and.
func AllOf(rules ...MatchRule) MatchRule {
	return func(m domain.Member) bool {
		for _, r := range rules {
			if !r(m) {
				return false
			}
		}
		return true
	}
}

func declaredType(m domain.Member) (domain.TypeRef, bool) {
	switch x := m.(type) {
	case *domain.FieldSlot:
		return x.Type, true
	case *domain.MethodSlot:
		return x.Result, true
	}
	return domain.TypeRef{}, false
}

// sameKind reports whether two members are of the same declaration kind.
func sameKind(a, b domain.Member) bool {
	switch a.(type) {
	case *domain.FieldSlot:
		_, ok := b.(*domain.FieldSlot)
		return ok
	case *domain.MethodSlot:
		_, ok := b.(*domain.MethodSlot)
		return ok
	case *domain.ConstructorSlot:
		_, ok := b.(*domain.ConstructorSlot)
		return ok
	}
	return false
}

// findMember applies rules in priority order. Within one rule the first
// member in source order wins.
func findMember(td *domain.TypeDeclaration, kind domain.Member, rules []MatchRule) domain.Member {
	for _, rule := range rules {
		for _, m := range td.Members {
			if sameKind(kind, m) && rule(m) {
				return m
			}
		}
	}
	return nil
}
