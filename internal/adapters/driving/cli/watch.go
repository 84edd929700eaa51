package cli

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/annlib/internal/adapters/driven/diagnostics"
	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rerun the processor when Java sources change",
	Long: `Runs the processor once, then again whenever a matching .java file is
created, changed or removed. Bursts of changes are coalesced; the wait is set
by watch.debounce and watch.max_wait in the configuration.

Files written by the processor itself do not trigger another run.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&onlyFlag, "only", nil, "annotation kinds to process (default all)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	only, err := domain.ParseAnnotationKinds(onlyFlag)
	if err != nil {
		return err
	}

	sink := diagnostics.NewConsoleSink(cmd.ErrOrStderr())
	p, err := openProject(sink)
	if err != nil {
		return err
	}
	defer p.close()

	w, err := newWatcher(p.dir, p.settings.Processor)
	if err != nil {
		return err
	}
	defer w.close()

	out := newPrinter(cmd.OutOrStdout())
	run := func(ctx context.Context) {
		report, err := p.Processor.Run(ctx, domain.RunOptions{Only: only})
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("run failed: %v", err)
			}
			return
		}
		w.remember(report)
		out.outcomes(report, false)
		out.summary(report)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", p.dir)
	return w.loop(cmd.Context(), p.settings.Watch, run)
}

// watcher follows the project tree and filters events down to source
// changes that were not made by the processor.
type watcher struct {
	root    string
	include []string
	exclude []string
	fsw     *fsnotify.Watcher

	mu      sync.Mutex
	written map[string][32]byte
}

func newWatcher(root string, cfg domain.ProcessorSettings) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &watcher{
		root:    root,
		include: cfg.Include,
		exclude: cfg.Exclude,
		fsw:     fsw,
		written: make(map[string][32]byte),
	}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *watcher) close() {
	if err := w.fsw.Close(); err != nil {
		logger.Warn("closing watcher: %v", err)
	}
}

// addTree watches dir and every directory below it that is not excluded.
func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.excludedDir(w.rel(path)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logger.Warn("failed to watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// excludedDir reports whether an exclude pattern covers everything in dir.
func (w *watcher) excludedDir(rel string) bool {
	if strings.HasPrefix(rel, ".") && rel != "." {
		return true
	}
	sample := rel + "/x.java"
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, sample); ok {
			return true
		}
	}
	return false
}

// relevant reports whether a file path takes part in processing.
func (w *watcher) relevant(rel string) bool {
	matched := false
	for _, pattern := range w.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

// remember records the content hash of every file a run wrote.
func (w *watcher) remember(report *domain.RunReport) {
	if report.DryRun {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, o := range report.Changed() {
		data, err := os.ReadFile(filepath.Join(w.root, filepath.FromSlash(o.Path)))
		if err != nil {
			continue
		}
		w.written[o.Path] = sha256.Sum256(data)
	}
}

// selfWrite reports whether the file still has the content the processor
// wrote to it.
func (w *watcher) selfWrite(rel string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	sum, ok := w.written[rel]
	if !ok {
		return false
	}
	data, err := os.ReadFile(filepath.Join(w.root, filepath.FromSlash(rel)))
	if err != nil || sha256.Sum256(data) != sum {
		delete(w.written, rel)
		return false
	}
	return true
}

// triggers reports whether an event should cause a run. New directories
// are added to the watch list.
func (w *watcher) triggers(ev fsnotify.Event) bool {
	rel := w.rel(ev.Name)
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if w.excludedDir(rel) {
				return false
			}
			if err := w.addTree(ev.Name); err != nil {
				logger.Warn("failed to watch %s: %v", ev.Name, err)
			}
			return true
		}
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if !w.relevant(rel) {
		return false
	}
	if (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) && w.selfWrite(rel) {
		logger.Debug("ignoring own write to %s", rel)
		return false
	}
	return true
}

// loop runs once, then after every coalesced burst of relevant events
// until ctx is done.
func (w *watcher) loop(ctx context.Context, cfg domain.WatchSettings, run func(context.Context)) error {
	pending := make(chan struct{}, 1)
	schedule, cancel := debounce.NewWithMaxWait(cfg.Debounce, cfg.MaxWait, func() {
		select {
		case pending <- struct{}{}:
		default:
			// a run is already queued
		}
	})
	defer cancel()

	run(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.triggers(ev) {
				logger.Debug("change detected: %s", ev)
				schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		case <-pending:
			run(ctx)
		}
	}
}
