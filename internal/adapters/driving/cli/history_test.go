package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

func TestHistoryCmd_List(t *testing.T) {
	app := newTestApp(t)
	dry := *failedReport()
	dry.ID = "9f000000-1111"
	dry.DryRun = true
	app.history.runs = []domain.RunReport{*testReport(), dry}

	stdout, _, err := app.execute(t, "history", "--limit", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, app.history.limit)
	assert.Contains(t, stdout, "ID")
	assert.Contains(t, stdout, "3f2a9c1e")
	assert.Contains(t, stdout, "9f000000")
	assert.Contains(t, stdout, "dry-run")
	assert.NotContains(t, stdout, "3f2a9c1e-5b7d", "IDs are shortened")
}

func TestHistoryCmd_Empty(t *testing.T) {
	app := newTestApp(t)

	stdout, _, err := app.execute(t, "history")

	require.NoError(t, err)
	assert.Equal(t, 20, app.history.limit)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestHistoryCmd_Show(t *testing.T) {
	app := newTestApp(t)
	app.history.report = testReport()

	stdout, _, err := app.execute(t, "history", "show", "3f2a")

	require.NoError(t, err)
	assert.Equal(t, "3f2a", app.history.id)
	assert.Contains(t, stdout, "Run 3f2a9c1e-5b7d-4e21-9a0f-2c6d8e4b1a73")
	assert.Contains(t, stdout, "Project: /work/shop")
	assert.Contains(t, stdout, outcomeLine("unchanged", "src/app/Worker.java"))
	assert.Contains(t, stdout, "+public class Config {}")
}

func TestHistoryCmd_ShowNotFound(t *testing.T) {
	app := newTestApp(t)
	app.history.err = domain.ErrNotFound

	_, _, err := app.execute(t, "history", "show", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryCmd_ShowRequiresID(t *testing.T) {
	app := newTestApp(t)

	_, _, err := app.execute(t, "history", "show")

	assert.Error(t, err)
}

func TestHistoryCmd_Prune(t *testing.T) {
	app := newTestApp(t)
	app.history.pruned = 3

	stdout, _, err := app.execute(t, "history", "prune", "--keep", "2")

	require.NoError(t, err)
	assert.Equal(t, 2, app.history.keep)
	assert.Contains(t, stdout, "Deleted 3 run(s), kept the latest 2.")
}

func TestHistoryCmd_NoJournal(t *testing.T) {
	app := newTestApp(t)
	app.history = nil

	_, _, err := app.execute(t, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run journal not configured")
	assert.True(t, app.closed)
}
