package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testUnit() *SourceUnit {
	return &SourceUnit{
		Package: "app",
		Imports: []Import{
			{Name: "org.springframework.data.repository.CrudRepository"},
			{Name: "app.domain", Wildcard: true},
			{Name: "java.util.Objects.requireNonNull", Static: true},
		},
		Type: &TypeDeclaration{Kind: KindClass, Name: "App"},
	}
}

func TestImport_String(t *testing.T) {
	assert.Equal(t, "import a.B;", Import{Name: "a.B"}.String())
	assert.Equal(t, "import a.b.*;", Import{Name: "a.b", Wildcard: true}.String())
	assert.Equal(t, "import static a.B.c;", Import{Name: "a.B.c", Static: true}.String())
	assert.Equal(t, "B", Import{Name: "a.B"}.SimpleName())
	assert.Empty(t, Import{Name: "a.b", Wildcard: true}.SimpleName())
}

func TestSourceUnit_HasImport(t *testing.T) {
	u := testUnit()

	tests := []struct {
		fqn  string
		want bool
	}{
		{"org.springframework.data.repository.CrudRepository", true},
		{"app.domain.Person", true},
		{"app.Helper", true},
		{"java.lang.Runnable", true},
		{"Unqualified", true},
		{"java.util.Objects", false},
		{"app.domain.sub.Deep", false},
	}
	for _, tt := range tests {
		t.Run(tt.fqn, func(t *testing.T) {
			assert.Equal(t, tt.want, u.HasImport(tt.fqn))
		})
	}
}

func TestSourceUnit_AddImport(t *testing.T) {
	u := testUnit()

	assert.False(t, u.AddImport("app.domain.Person"))
	assert.False(t, u.Changed)

	assert.True(t, u.AddImport("java.util.List"))
	assert.True(t, u.Changed)
	assert.True(t, u.PreambleModified)
	assert.Equal(t, Import{Name: "java.util.List"}, u.Imports[len(u.Imports)-1])
	assert.False(t, u.AddImport("java.util.List"))
}

func TestSourceUnit_ResolveSimpleName(t *testing.T) {
	u := testUnit()

	assert.Equal(t, "org.springframework.data.repository.CrudRepository", u.ResolveSimpleName("CrudRepository"))
	assert.Equal(t, "app.App", u.ResolveSimpleName("App"))
	assert.Equal(t, "x.Y", u.ResolveSimpleName("x.Y"))
	assert.Empty(t, u.ResolveSimpleName("Person"))
	assert.Empty(t, u.ResolveSimpleName("requireNonNull"))
	assert.Equal(t, []string{"app.domain"}, u.WildcardPackages())
}

func TestSourceUnit_SetPackage(t *testing.T) {
	u := testUnit()

	assert.False(t, u.SetPackage("app"))
	assert.False(t, u.Changed)
	assert.True(t, u.SetPackage("app.core"))
	assert.True(t, u.Changed)
	assert.Equal(t, "app.core.App", u.QualifiedName())
}

func TestNewSourceUnit(t *testing.T) {
	u := NewSourceUnit("src/repositories/PersonRepo.java", "repositories", "PersonRepo", KindInterface)

	assert.True(t, u.Changed)
	assert.True(t, u.PreambleModified)
	assert.True(t, u.Type.IsInterface())
	assert.Equal(t, "repositories.PersonRepo", u.QualifiedName())
}

func TestNameHelpers(t *testing.T) {
	assert.Equal(t, "C", SimpleName("a.b.C"))
	assert.Equal(t, "C", SimpleName("C"))
	assert.Equal(t, "a.b", PackageOf("a.b.C"))
	assert.Empty(t, PackageOf("C"))
	assert.Equal(t, "a.C", Qualify("a", "C"))
	assert.Equal(t, "C", Qualify("", "C"))
	assert.Equal(t, "a/b/c", PackageToPath("a.b.c"))
	assert.Equal(t, "a/b/c", PackageToPath("/a/b/c/"))
	assert.Equal(t, "a.b.c", PathToPackage("a/b/c"))
}

func TestPosition(t *testing.T) {
	assert.Equal(t, "3:14", Position{Line: 3, Column: 14}.String())
	assert.True(t, Position{}.IsZero())
	assert.False(t, Position{Line: 1}.IsZero())
}

func TestTypeDeclaration_GroupedField(t *testing.T) {
	str := NewTypeRef("String")
	td := &TypeDeclaration{Kind: KindClass, Name: "Config", Members: []Member{
		&FieldSlot{Name: "name", Type: str},
		&RawMember{MemberBase: MemberBase{Source: "private String host, port;"},
			Vars: []Variable{{Name: "host", Type: str}, {Name: "port", Type: str}}},
		&RawMember{MemberBase: MemberBase{Source: "static { }"}},
	}}

	tests := []struct {
		name   string
		field  string
		want   Variable
		wantOK bool
	}{
		{name: "first declarator", field: "host", want: Variable{Name: "host", Type: str}, wantOK: true},
		{name: "later declarator", field: "port", want: Variable{Name: "port", Type: str}, wantOK: true},
		{name: "single field is not grouped", field: "name"},
		{name: "unknown", field: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := td.GroupedField(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
