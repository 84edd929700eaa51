package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Verify interface compliance.
var _ Generator = (*SingletonGenerator)(nil)

const createSingletonInstance = "createSingletonInstance"

// SingletonGenerator turns the annotated class into a lazily created
// singleton: an instance field, a private constructor, an accessor and,
// when initFields is set, a createSingletonInstance factory.
type SingletonGenerator struct {
	tpl templates
}

// NewSingletonGenerator creates the singleton generator.
func NewSingletonGenerator(codec driven.SourceCodec) *SingletonGenerator {
	return &SingletonGenerator{tpl: templates{codec: codec}}
}

// Kind returns domain.KindSingleton.
func (g *SingletonGenerator) Kind() domain.AnnotationKind {
	return domain.KindSingleton
}

// Generate reconciles the annotated class.
func (g *SingletonGenerator) Generate(_ context.Context, job *Job) ([]domain.FileEdit, error) {
	attrs, err := DecodeSingletonAttributes(job.Attrs)
	if err != nil {
		return nil, err
	}
	if err := requireClass(g.Kind(), job.Unit); err != nil {
		return nil, err
	}
	td := job.Unit.Type
	if err := requireSeparateField(td, attrs.Name); err != nil {
		return nil, err
	}

	params, err := initParams(td, attrs.InitFields)
	if err != nil {
		return nil, err
	}

	self := domain.NewTypeRef(td.Name)
	r := NewReconciler(job.Unit)

	instanceMods := domain.Modifiers{"private", "volatile", "static"}
	r.Field(&domain.FieldSlot{
		MemberBase: domain.MemberBase{Modifiers: instanceMods},
		Type:       self,
		Name:       attrs.Name,
	}, InitKeep, FullMatch(attrs.Name, instanceMods, self), SlotMatch(instanceMods, self))

	if err := g.constructor(r, params, attrs.InitFields); err != nil {
		return nil, err
	}
	if err := g.accessor(r, td.Name, attrs); err != nil {
		return nil, err
	}
	if err := g.factory(r, td.Name, attrs, params); err != nil {
		return nil, err
	}

	return []domain.FileEdit{{Path: job.Path, Unit: job.Unit}}, nil
}

// initParams maps every initFields entry to a parameter typed like the field.
func initParams(td *domain.TypeDeclaration, fields []string) ([]domain.Parameter, error) {
	params := make([]domain.Parameter, 0, len(fields))
	for _, name := range fields {
		if f := td.Field(name); f != nil {
			params = append(params, domain.Parameter{Type: f.Type.Clone(), Name: name})
			continue
		}
		v, ok := td.GroupedField(name)
		if !ok {
			return nil, domain.NewStructuralPreconditionError(td.Name, name,
				fmt.Sprintf("Field %q from initFields doesn't exist in class %s!", name, td.Name))
		}
		params = append(params, domain.Parameter{Type: v.Type.Clone(), Name: name})
	}
	return params, nil
}

func (g *SingletonGenerator) constructor(r *Reconciler, params []domain.Parameter, fields []string) error {
	desired := &domain.ConstructorSlot{
		MemberBase: domain.MemberBase{Modifiers: domain.Modifiers{"private"}},
		Name:       r.typ.Name,
		Params:     params,
		Body:       domain.NewBlock(),
	}
	rules := []MatchRule{
		SignatureMatch(params),
		AllOf(ConstructorMatch(), NoParams()),
		ConstructorMatch(),
	}
	if len(fields) == 0 {
		r.Constructor(desired, ParamsReplace, BodyKeep, rules...)
		return nil
	}

	assigns := make([]domain.Statement, len(fields))
	for i, f := range fields {
		st, err := g.tpl.statement("this.%s = %s;", f, f)
		if err != nil {
			return err
		}
		assigns[i] = st
	}
	merge := func(stmts []domain.Statement) []domain.Statement {
		var keep []domain.Statement
		for _, s := range stmts {
			if target, ok := fieldAssignment(s); ok && !slices.Contains(fields, target) {
				continue
			}
			keep = append(keep, s)
		}
		for _, a := range assigns {
			if indexStatement(keep, a) < 0 {
				keep = append(keep, a)
			}
		}
		return keep
	}
	r.Constructor(desired, ParamsReplace, BodyMerge(merge), rules...)
	return nil
}

func (g *SingletonGenerator) accessor(r *Reconciler, typeName string, attrs domain.SingletonAttributes) error {
	var (
		body *domain.Block
		err  error
	)
	switch {
	case len(attrs.InitFields) > 0:
		body, err = g.tpl.block(`if (%[1]s == null) {
    throw new IllegalArgumentException("%[2]s is not initialized! Call %[3]s first.");
}
return %[1]s;`, attrs.Name, typeName, createSingletonInstance)
	case attrs.ThreadSafe:
		body, err = g.tpl.block(`if (%[1]s == null) {
    synchronized (%[2]s.class) {
        if (%[1]s == null) {
            %[1]s = new %[2]s();
        }
    }
}
return %[1]s;`, attrs.Name, typeName)
	default:
		body, err = g.tpl.block(`if (%[1]s == null) {
    %[1]s = new %[2]s();
}
return %[1]s;`, attrs.Name, typeName)
	}
	if err != nil {
		return err
	}

	mods := domain.Modifiers{"public", "static"}
	self := domain.NewTypeRef(typeName)
	r.Method(&domain.MethodSlot{
		MemberBase: domain.MemberBase{Modifiers: mods},
		Result:     self,
		Name:       attrs.MethodName,
		Body:       body,
	}, BodyReplace,
		AllOf(FullMatch(attrs.MethodName, mods, self), NoParams()),
		AllOf(SlotMatch(mods, self), NoParams()),
	)
	return nil
}

func (g *SingletonGenerator) factory(r *Reconciler, typeName string, attrs domain.SingletonAttributes, params []domain.Parameter) error {
	kind := &domain.MethodSlot{}
	if len(attrs.InitFields) == 0 {
		r.Remove(kind, IdentityMatch(createSingletonInstance))
		return nil
	}

	args := strings.Join(attrs.InitFields, ", ")
	var (
		body *domain.Block
		err  error
	)
	if attrs.ThreadSafe {
		body, err = g.tpl.block(`if (%[1]s == null) {
    synchronized (%[2]s.class) {
        if (%[1]s == null) {
            %[1]s = new %[2]s(%[3]s);
        }
    }
}`, attrs.Name, typeName, args)
	} else {
		body, err = g.tpl.block(`if (%[1]s == null) {
    %[1]s = new %[2]s(%[3]s);
}`, attrs.Name, typeName, args)
	}
	if err != nil {
		return err
	}

	r.Method(&domain.MethodSlot{
		MemberBase: domain.MemberBase{Modifiers: domain.Modifiers{"public", "static"}},
		Result:     domain.NewTypeRef("void"),
		Name:       createSingletonInstance,
		Params:     params,
		Body:       body,
	}, BodyReplace, IdentityMatch(createSingletonInstance))
	return nil
}

// fieldAssignment recognises "this.x = x;" and returns x.
func fieldAssignment(s domain.Statement) (string, bool) {
	t := s.Tokens
	if len(t) != 6 || t[0].Text != "this" || t[1].Text != "." || t[3].Text != "=" || t[5].Text != ";" {
		return "", false
	}
	if t[2].Text != t[4].Text {
		return "", false
	}
	return t[2].Text, true
}

func indexStatement(stmts []domain.Statement, s domain.Statement) int {
	for i, st := range stmts {
		if st.Equal(s) {
			return i
		}
	}
	return -1
}
