package services

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/annlib/internal/adapters/driven/java"
	"github.com/custodia-labs/annlib/internal/core/domain"
)

func newLocator(t *testing.T, files map[string]string) *DomainLocator {
	t.Helper()
	tree := filesystem.NewSourceTreeFs(afero.NewMemMapFs(), "/project")
	for p, src := range files {
		require.NoError(t, tree.WriteFile(p, []byte(src)))
	}
	return NewDomainLocator(tree, java.NewCodec())
}

func TestDomainLocator_Find(t *testing.T) {
	files := domainFiles()
	files["src/app/domain/Tag.java"] = `package app.domain;

@Entity
public class Tag {
    @Id
    private TagKey key;
}
`
	files["src/app/domain/TagKey.java"] = "package app.domain;\n\npublic class TagKey {\n}\n"
	files["src/app/domain/Broken.java"] = "package app.domain;\n\n@Entity public class Broken {\n"
	files["src/app/domain/Status.java"] = "package app.domain;\n\n@Entity\npublic interface Status {\n}\n"
	l := newLocator(t, files)

	refs, err := l.Find(context.Background(), []string{"src", "src/main/java"}, "app/domain", "Entity", "Id")
	require.NoError(t, err)

	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Order", "Person", "Tag"}, names, "sorted, abstract and unmarked skipped")

	order := refs[0]
	assert.Equal(t, "app.domain.Order", order.QualifiedName())
	assert.Equal(t, "src/app/domain/Order.java", order.Path)
	assert.Equal(t, "id", order.IDField)
	assert.Equal(t, "long", order.IDType.String())
	assert.Empty(t, order.IDImports)

	assert.Equal(t, []string{"java.util.UUID"}, refs[1].IDImports)

	assert.Equal(t, "key", refs[2].IDField)
	assert.Equal(t, []string{"app.domain.TagKey"}, refs[2].IDImports)
}

func TestDomainLocator_MissingIDLeavesFieldEmpty(t *testing.T) {
	l := newLocator(t, map[string]string{
		"src/main/java/app/model/User.java": "package app.model;\n\n@Entity\npublic class User {\n    private long id;\n}\n",
	})

	refs, err := l.Find(context.Background(), []string{"src", "src/main/java"}, "app.model", "Entity", "Id")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Empty(t, refs[0].IDField)
	assert.Equal(t, "src/main/java/app/model/User.java", refs[0].Path)
}

func TestDomainLocator_FirstRootWins(t *testing.T) {
	l := newLocator(t, map[string]string{
		"src/app/model/A.java":           "package app.model;\n\n@Entity\npublic class A {\n}\n",
		"src/main/java/app/model/B.java": "package app.model;\n\n@Entity\npublic class B {\n}\n",
	})

	refs, err := l.Find(context.Background(), []string{"src/main/java", "src"}, "app.model", "Entity", "Id")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "B", refs[0].Name)
}

func TestDomainLocator_Errors(t *testing.T) {
	l := newLocator(t, domainFiles())
	roots := []string{"src"}

	_, err := l.Find(context.Background(), roots, "app.missing", "Entity", "Id")
	assert.ErrorIs(t, err, domain.ErrNoSuchPackage)
	assert.Equal(t, `Package "app.missing" not found in source roots!`, domain.DiagnosticMessage(err))

	_, err = l.Find(context.Background(), roots, "app.domain", "Document", "Id")
	assert.ErrorIs(t, err, domain.ErrNoAnnotatedClasses)
	assert.Equal(t, `Package "app.domain" doesn't contain any class annotated with @Document!`, domain.DiagnosticMessage(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Find(ctx, roots, "app.domain", "Entity", "Id")
	assert.ErrorIs(t, err, context.Canceled)
}
