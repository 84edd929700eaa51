package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/annlib/internal/core/domain"
)

const testProject = "/work/shop"

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), testProject)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Processor, settings.Processor)
	assert.Equal(t, defaults.Markers, settings.Markers)
	assert.Equal(t, defaults.Controller, settings.Controller)
	assert.Equal(t, defaults.Watch, settings.Watch)
	assert.Equal(t, domain.JournalSQLite, settings.Journal.Backend)
	assert.Equal(t, filepath.Join(testProject, ".annlib", "journal.db"), settings.Journal.Path)
}

func TestSettingsService_Get_OverridesPresentKeys(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("processor.source_roots", []any{"java"}))
	require.NoError(t, store.Set("processor.annotation_package", "com.acme.gen"))
	require.NoError(t, store.Set("markers.entity", "Document"))
	require.NoError(t, store.Set("journal.backend", "memory"))
	require.NoError(t, store.Set("journal.path", "var/runs.db"))
	require.NoError(t, store.Set("watch.debounce", "1s"))
	require.NoError(t, store.Set("watch.max_wait", int64(5000)))
	require.NoError(t, store.Set("types.known", []string{
		"org.springframework.data.mongodb.repository.MongoRepository:interface:2",
		"com.acme.web.Api:annotation",
	}))

	settings, err := NewSettingsService(store, testProject).Get()

	require.NoError(t, err)
	assert.Equal(t, []string{"java"}, settings.Processor.SourceRoots)
	assert.Equal(t, "com.acme.gen", settings.Processor.AnnotationPackage)
	assert.Equal(t, domain.DefaultSettings().Processor.Include, settings.Processor.Include)
	assert.Equal(t, "Document", settings.Markers.Entity)
	assert.Equal(t, "Id", settings.Markers.ID)
	assert.Equal(t, domain.JournalMemory, settings.Journal.Backend)
	assert.Equal(t, filepath.Join(testProject, "var", "runs.db"), settings.Journal.Path)
	assert.Equal(t, time.Second, settings.Watch.Debounce)
	assert.Equal(t, 5*time.Second, settings.Watch.MaxWait)
	assert.Equal(t, []domain.KnownType{
		{QualifiedName: "org.springframework.data.mongodb.repository.MongoRepository", Kind: domain.KindInterface, TypeParams: 2},
		{QualifiedName: "com.acme.web.Api", Kind: domain.KindAnnotation},
	}, settings.Types.Known)
}

func TestSettingsService_Get_AbsoluteJournalPath(t *testing.T) {
	store := memory.NewConfigStore()
	abs := filepath.Join(t.TempDir(), "journal.db")
	require.NoError(t, store.Set("journal.path", abs))

	settings, err := NewSettingsService(store, testProject).Get()

	require.NoError(t, err)
	assert.Equal(t, abs, settings.Journal.Path)
}

func TestSettingsService_Get_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "unknown backend", key: "journal.backend", value: "postgres"},
		{name: "bad duration", key: "watch.debounce", value: "soon"},
		{name: "bad known type kind", key: "types.known", value: []string{"a.B:record"}},
		{name: "bad known type shape", key: "types.known", value: []string{"a.B"}},
		{name: "bad known type arity", key: "types.known", value: []string{"a.B:class:x"}},
		{name: "bad annotation package", key: "processor.annotation_package", value: "1bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			require.NoError(t, store.Set(tt.key, tt.value))

			_, err := NewSettingsService(store, testProject).Get()

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_Init(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, testProject)

	created, err := service.Init()
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"src", "src/main/java"}, store.GetStringSlice("processor.source_roots"))
	assert.Equal(t, "300ms", store.GetString("watch.debounce"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Watch, settings.Watch)

	created, err = service.Init()
	require.NoError(t, err)
	assert.False(t, created, "existing configuration is kept")
}

func TestSettingsService_PathAndDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), testProject)

	assert.Equal(t, ":memory:", service.Path())
	assert.Equal(t, domain.DefaultSettings(), service.GetDefaults())
}
