package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestWatcher(t *testing.T) *watcher {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "src/app/Config.java", "class Config {}\n")
	writeFile(t, root, "build/gen/Out.java", "class Out {}\n")
	w, err := newWatcher(root, domain.DefaultSettings().Processor)
	require.NoError(t, err)
	t.Cleanup(w.close)
	return w
}

func TestWatcher_Relevant(t *testing.T) {
	w := newTestWatcher(t)

	tests := []struct {
		rel  string
		want bool
	}{
		{rel: "src/app/Config.java", want: true},
		{rel: "Main.java", want: true},
		{rel: "src/app/notes.txt", want: false},
		{rel: "build/gen/Out.java", want: false},
		{rel: "module/target/A.java", want: false},
		{rel: ".annlib/journal.db", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.rel))
		})
	}
}

func TestWatcher_ExcludedDir(t *testing.T) {
	w := newTestWatcher(t)

	assert.False(t, w.excludedDir("src/app"))
	assert.True(t, w.excludedDir("build"))
	assert.True(t, w.excludedDir("lib/target"))
	assert.True(t, w.excludedDir(".git"))
	assert.True(t, w.excludedDir(".annlib"))

	assert.Contains(t, w.fsw.WatchList(), filepath.Join(w.root, "src", "app"))
	assert.NotContains(t, w.fsw.WatchList(), filepath.Join(w.root, "build"))
}

func TestWatcher_SelfWrite(t *testing.T) {
	w := newTestWatcher(t)
	report := testReport()

	w.remember(report)
	assert.True(t, w.selfWrite("src/app/Config.java"))
	assert.False(t, w.selfWrite("src/app/Worker.java"), "unchanged outcomes are not remembered")

	writeFile(t, w.root, "src/app/Config.java", "class Config { int edited; }\n")
	assert.False(t, w.selfWrite("src/app/Config.java"), "a user edit after the run triggers")
	assert.False(t, w.selfWrite("src/app/Config.java"))
}

func TestWatcher_RememberSkipsDryRun(t *testing.T) {
	w := newTestWatcher(t)
	report := testReport()
	report.DryRun = true

	w.remember(report)

	assert.False(t, w.selfWrite("src/app/Config.java"))
}

func TestWatcher_Triggers(t *testing.T) {
	w := newTestWatcher(t)
	config := filepath.Join(w.root, "src", "app", "Config.java")

	assert.True(t, w.triggers(fsnotify.Event{Name: config, Op: fsnotify.Write}))
	assert.True(t, w.triggers(fsnotify.Event{Name: config, Op: fsnotify.Remove}))
	assert.False(t, w.triggers(fsnotify.Event{Name: config, Op: fsnotify.Chmod}))
	assert.False(t, w.triggers(fsnotify.Event{Name: filepath.Join(w.root, "README.md"), Op: fsnotify.Write}))

	w.remember(testReport())
	assert.False(t, w.triggers(fsnotify.Event{Name: config, Op: fsnotify.Write}), "own write")

	dir := filepath.Join(w.root, "src", "app", "domain")
	require.NoError(t, os.Mkdir(dir, 0o755))
	assert.True(t, w.triggers(fsnotify.Event{Name: dir, Op: fsnotify.Create}))
	assert.Contains(t, w.fsw.WatchList(), dir)
}

func TestWatcher_Loop(t *testing.T) {
	w := newTestWatcher(t)
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- w.loop(ctx, domain.WatchSettings{Debounce: 20 * time.Millisecond, MaxWait: 200 * time.Millisecond},
			func(context.Context) { runs.Add(1) })
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond, "initial run")

	writeFile(t, w.root, "src/app/Config.java", "class Config { int x; }\n")
	writeFile(t, w.root, "src/app/Other.java", "class Other {}\n")
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond, "rerun after change")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}
