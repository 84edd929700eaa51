package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// setupTestStore creates a journal in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), ".annlib", "journal.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testRun(id string, started time.Time) *domain.RunReport {
	return &domain.RunReport{
		ID:         id,
		Project:    "/work/shop",
		StartedAt:  started,
		FinishedAt: started.Add(150 * time.Millisecond),
		Outcomes: []domain.FileOutcome{
			{
				Element:    "app.Config",
				Annotation: domain.KindSingleton,
				Path:       "src/app/Config.java",
				Status:     domain.OutcomeRewritten,
				Diff:       "--- a/src/app/Config.java\n+++ b/src/app/Config.java\n",
			},
			{
				Element:    "app.App",
				Annotation: domain.KindGenerateRepositories,
				Path:       "src/app/App.java",
				Status:     domain.OutcomeFailed,
				Message:    `Entity "Order" doesn't have field annotated with @Id!`,
			},
		},
	}
}

func TestNewStore(t *testing.T) {
	store := setupTestStore(t)

	assert.FileExists(t, store.Path())

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.RunStore().Save(ctx, testRun("run-1", time.Now())))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.RunStore().Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got.Outcomes, 2)
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}

func TestRunStore_SaveAndGet(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	ctx := context.Background()
	started := time.Date(2026, 5, 4, 10, 30, 0, 123456789, time.UTC)
	want := testRun("run-1", started)
	want.DryRun = true

	require.NoError(t, runs.Save(ctx, want))

	got, err := runs.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Project, got.Project)
	assert.True(t, got.DryRun)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	assert.True(t, want.FinishedAt.Equal(got.FinishedAt))
	assert.Equal(t, want.Outcomes, got.Outcomes)
}

func TestRunStore_SaveReplacesOutcomes(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	ctx := context.Background()
	report := testRun("run-1", time.Now())
	require.NoError(t, runs.Save(ctx, report))

	report.Outcomes = report.Outcomes[:1]
	require.NoError(t, runs.Save(ctx, report))

	got, err := runs.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got.Outcomes, 1)
}

func TestRunStore_SaveInvalid(t *testing.T) {
	runs := setupTestStore(t).RunStore()

	assert.ErrorIs(t, runs.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, runs.Save(context.Background(), &domain.RunReport{}), domain.ErrInvalidInput)
}

func TestRunStore_GetNotFound(t *testing.T) {
	runs := setupTestStore(t).RunStore()

	_, err := runs.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = runs.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_ListAndLatest(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	ctx := context.Background()
	base := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, runs.Save(ctx, testRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "all", limit: 0, want: []string{"run-c", "run-b", "run-a"}},
		{name: "limited", limit: 2, want: []string{"run-c", "run-b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := runs.List(ctx, tt.limit)
			require.NoError(t, err)
			ids := make([]string, len(list))
			for i, r := range list {
				ids[i] = r.ID
				assert.Len(t, r.Outcomes, 2)
				for _, o := range r.Outcomes {
					assert.Empty(t, o.Diff, "listing omits diffs")
				}
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	latest, err := runs.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-c", latest.ID)
	assert.NotEmpty(t, latest.Outcomes[0].Diff)
}

func TestRunStore_Prune(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	ctx := context.Background()
	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, runs.Save(ctx, testRun(id, base.Add(time.Duration(i)*time.Minute))))
	}

	n, err := runs.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].ID)

	_, err = runs.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = runs.Prune(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
