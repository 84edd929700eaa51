package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

func testRun(id string, started time.Time) *domain.RunReport {
	return &domain.RunReport{
		ID:         id,
		Project:    "/work/shop",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Outcomes: []domain.FileOutcome{
			{Element: "app.Config", Annotation: domain.KindSingleton, Path: "src/app/Config.java", Status: domain.OutcomeRewritten},
		},
	}
}

func TestRunStore_SaveAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	report := testRun("run-1", time.Now())

	require.NoError(t, store.Save(ctx, report))
	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, *report, *got)

	// Stored copies are independent of the caller's report.
	report.Outcomes[0].Status = domain.OutcomeFailed
	got, err = store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRewritten, got.Outcomes[0].Status)
}

func TestRunStore_Errors(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(ctx, &domain.RunReport{}), domain.ErrInvalidInput)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Prune(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_ListLatestPrune(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, testRun(id, base.Add(time.Duration(i)*time.Second))))
	}

	list, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[2].ID)

	list, err = store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", latest.ID)

	n, err := store.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err = store.Prune(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunStore_ConcurrentAccess(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Save(ctx, testRun(string(rune('a'+i)), time.Now()))
			_, _ = store.List(ctx, 5)
		}(i)
	}
	wg.Wait()

	list, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}
