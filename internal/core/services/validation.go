package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance returns the shared validator with the annlib tags:
// javaident (Java identifier, not reserved), pkgpath (dotted or slashed
// package name) and suffix (non-empty, no whitespace).
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		mustRegister(v, "javaident", func(fl validator.FieldLevel) bool {
			return domain.IsJavaIdentifier(fl.Field().String())
		})
		mustRegister(v, "pkgpath", func(fl validator.FieldLevel) bool {
			return domain.IsPackageName(fl.Field().String())
		})
		mustRegister(v, "suffix", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s != "" && !strings.ContainsFunc(s, unicode.IsSpace)
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateAttributes checks decoded attributes and converts the first
// violation into a ConfigurationError.
func validateAttributes(kind domain.AnnotationKind, attrs any) error {
	err := validatorInstance().Struct(attrs)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewConfigurationError(kind, "", nil, err.Error())
	}
	fe := verrs[0]
	field, _, _ := strings.Cut(fe.StructField(), "[")
	return domain.NewConfigurationError(kind, attributeName(field), fe.Value(), attributeMessage(field, fe))
}

func attributeName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func attributeMessage(field string, fe validator.FieldError) string {
	switch field {
	case "RepositorySuffix", "ControllerSuffix":
		return "Suffix must not contain spaces and be empty!"
	case "DomainPackagePath", "RepositoryPackagePath", "ControllerPackagePath":
		label := strings.TrimSuffix(field, "PackagePath")
		if fe.Tag() == "required" {
			return label + " package path attribute must not be empty!"
		}
		return fmt.Sprintf("%s package path %q is not a valid package name!", label, fe.Value())
	case "RepositoryInterface":
		return "Repository interface attribute must be set!"
	case "ControllerAnnotation":
		return "Controller annotation list must not be empty!"
	case "MethodName":
		if fe.Tag() == "ne" {
			return "Method name createSingletonInstance is reserved!"
		}
	case "InitFields":
		if fe.Tag() == "unique" {
			return "Fields in initFields must not repeat!"
		}
	}
	if fe.Tag() == "javaident" {
		return fmt.Sprintf("%q is not a valid Java identifier!", fe.Value())
	}
	return fmt.Sprintf("Attribute %q is invalid (%s)!", attributeName(field), fe.Tag())
}

// validateSettings checks the effective configuration.
func validateSettings(s *domain.Settings) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: invalid settings: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}
