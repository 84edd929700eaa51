package services

import (
	"fmt"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// attributeReader decodes an AttributeSet into typed values. The first
// type mismatch is kept in err and later reads become no-ops.
type attributeReader struct {
	kind domain.AnnotationKind
	set  domain.AttributeSet
	err  error
}

func newAttributeReader(kind domain.AnnotationKind, set domain.AttributeSet) *attributeReader {
	return &attributeReader{kind: kind, set: set}
}

func (r *attributeReader) fail(name string, v domain.AttributeValue, want string) {
	if r.err == nil {
		r.err = domain.NewConfigurationError(r.kind, name, v.Text,
			fmt.Sprintf("Attribute %q must be %s!", name, want))
	}
}

func (r *attributeReader) readString(name string, dst *string) {
	v, ok := r.set[name]
	if !ok || r.err != nil {
		return
	}
	if v.Kind != domain.ValueString {
		r.fail(name, v, "a string literal")
		return
	}
	*dst = v.Str
}

func (r *attributeReader) readBool(name string, dst *bool) {
	v, ok := r.set[name]
	if !ok || r.err != nil {
		return
	}
	if v.Kind != domain.ValueBool {
		r.fail(name, v, "true or false")
		return
	}
	*dst = v.Bool
}

// readStrings accepts an array of string literals or a single literal.
func (r *attributeReader) readStrings(name string, dst *[]string) {
	v, ok := r.set[name]
	if !ok || r.err != nil {
		return
	}
	elems := []domain.AttributeValue{v}
	if v.Kind == domain.ValueArray {
		elems = v.Elems
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if e.Kind != domain.ValueString {
			r.fail(name, e, "an array of string literals")
			return
		}
		out = append(out, e.Str)
	}
	*dst = out
}

func (r *attributeReader) readClass(name string, dst *string) {
	v, ok := r.set[name]
	if !ok || r.err != nil {
		return
	}
	if v.Kind != domain.ValueClass {
		r.fail(name, v, "a class literal")
		return
	}
	*dst = v.Class
}

// readClasses accepts an array of class literals or a single literal.
func (r *attributeReader) readClasses(name string, dst *[]string) {
	v, ok := r.set[name]
	if !ok || r.err != nil {
		return
	}
	elems := []domain.AttributeValue{v}
	if v.Kind == domain.ValueArray {
		elems = v.Elems
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if e.Kind != domain.ValueClass {
			r.fail(name, e, "an array of class literals")
			return
		}
		out = append(out, e.Class)
	}
	*dst = out
}

// DecodeSingletonAttributes applies written attributes over the defaults
// and validates the result.
func DecodeSingletonAttributes(set domain.AttributeSet) (domain.SingletonAttributes, error) {
	a := domain.DefaultSingletonAttributes()
	r := newAttributeReader(domain.KindSingleton, set)
	r.readString("name", &a.Name)
	r.readString("methodName", &a.MethodName)
	r.readBool("threadSafe", &a.ThreadSafe)
	r.readStrings("initFields", &a.InitFields)
	if r.err != nil {
		return a, r.err
	}
	return a, validateAttributes(domain.KindSingleton, a)
}

// DecodeThreadTemplateAttributes applies written attributes over the defaults.
func DecodeThreadTemplateAttributes(set domain.AttributeSet) (domain.ThreadTemplateAttributes, error) {
	a := domain.DefaultThreadTemplateAttributes()
	r := newAttributeReader(domain.KindThreadTemplate, set)
	r.readString("threadName", &a.ThreadName)
	r.readBool("doBeforeStart", &a.DoBeforeStart)
	r.readBool("doAfterStop", &a.DoAfterStop)
	if r.err != nil {
		return a, r.err
	}
	return a, validateAttributes(domain.KindThreadTemplate, a)
}

// DecodeRepositoryAttributes applies written attributes over the defaults
// and validates the result.
func DecodeRepositoryAttributes(set domain.AttributeSet) (domain.RepositoryAttributes, error) {
	a := domain.DefaultRepositoryAttributes()
	r := newAttributeReader(domain.KindGenerateRepositories, set)
	r.readString("domainPackagePath", &a.DomainPackagePath)
	r.readString("repositoryPackagePath", &a.RepositoryPackagePath)
	r.readString("repositorySuffix", &a.RepositorySuffix)
	r.readClass("repositoryInterface", &a.RepositoryInterface)
	if r.err != nil {
		return a, r.err
	}
	return a, validateAttributes(domain.KindGenerateRepositories, a)
}

// DecodeControllerAttributes applies written attributes over the defaults
// and validates the result.
func DecodeControllerAttributes(set domain.AttributeSet) (domain.ControllerAttributes, error) {
	a := domain.DefaultControllerAttributes()
	r := newAttributeReader(domain.KindGenerateControllers, set)
	r.readString("domainPackagePath", &a.DomainPackagePath)
	r.readString("controllerPackagePath", &a.ControllerPackagePath)
	r.readString("controllerSuffix", &a.ControllerSuffix)
	r.readClasses("controllerAnnotation", &a.ControllerAnnotation)
	if r.err != nil {
		return a, r.err
	}
	return a, validateAttributes(domain.KindGenerateControllers, a)
}
