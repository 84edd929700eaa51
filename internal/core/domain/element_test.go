package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotationKind_IsValid(t *testing.T) {
	for _, k := range AllAnnotationKinds() {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, AnnotationKind("Entity").IsValid())
	assert.False(t, AnnotationKind("").IsValid())
}

func TestParseAnnotationKind(t *testing.T) {
	tests := []struct {
		in   string
		want AnnotationKind
	}{
		{in: "Singleton", want: KindSingleton},
		{in: "@ThreadTemplate", want: KindThreadTemplate},
		{in: "generaterepositories", want: KindGenerateRepositories},
		{in: " GENERATECONTROLLERS ", want: KindGenerateControllers},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAnnotationKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseAnnotationKind("Entity")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseAnnotationKinds(t *testing.T) {
	kinds, err := ParseAnnotationKinds([]string{"singleton", "@GenerateControllers"})
	require.NoError(t, err)
	assert.Equal(t, []AnnotationKind{KindSingleton, KindGenerateControllers}, kinds)

	kinds, err = ParseAnnotationKinds(nil)
	require.NoError(t, err)
	assert.Empty(t, kinds)

	_, err = ParseAnnotationKinds([]string{"Singleton", "Bogus"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnnotatedElement(t *testing.T) {
	el := AnnotatedElement{
		Kind:       KindSingleton,
		Package:    "app",
		TypeName:   "Config",
		File:       "src/app/Config.java",
		Pos:        Position{Line: 6, Column: 8},
		Annotation: Annotation{Name: "Singleton", Pos: Position{Line: 5, Column: 1}},
	}

	assert.Equal(t, "app.Config", el.QualifiedName())
	assert.Equal(t, Position{Line: 5, Column: 1}, el.Site())
	assert.Equal(t, "@Singleton app.Config", el.String())

	el.Package = ""
	assert.Equal(t, "Config", el.QualifiedName())
}
