package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
	"github.com/custodia-labs/annlib/internal/core/ports/driving"
	"github.com/custodia-labs/annlib/internal/logger"
)

// Ensure Processor implements the interface.
var _ driving.Processor = (*Processor)(nil)

// Processor drives the generators over every annotated element of the
// project. Elements are handled one at a time; a failing element is
// reported and skipped, and never causes a partial write.
type Processor struct {
	host     driven.ElementHost
	tree     driven.SourceTree
	codec    driven.SourceCodec
	registry *GeneratorRegistry
	sink     driven.DiagnosticSink
	store    driven.RunStore
	roots    []string

	// Runs are serialised.
	mu sync.Mutex
}

// NewProcessor creates a processor. store may be nil to disable the journal.
func NewProcessor(
	host driven.ElementHost,
	tree driven.SourceTree,
	codec driven.SourceCodec,
	registry *GeneratorRegistry,
	sink driven.DiagnosticSink,
	store driven.RunStore,
	roots []string,
) *Processor {
	return &Processor{
		host:     host,
		tree:     tree,
		codec:    codec,
		registry: registry,
		sink:     sink,
		store:    store,
		roots:    roots,
	}
}

// Kinds returns the registered annotation kinds in processing order.
func (p *Processor) Kinds() []domain.AnnotationKind {
	return p.registry.Kinds()
}

// Run processes every annotated element once. The returned error is only
// set for failures of the run itself (cancellation, enumeration); element
// failures are reported through the sink and recorded in the report.
func (p *Processor) Run(ctx context.Context, opts domain.RunOptions) (*domain.RunReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	report := &domain.RunReport{
		ID:        uuid.New().String(),
		Project:   p.tree.Root(),
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
	}
	logger.Section("Run " + report.ID)

	p.host.Refresh()
	err := p.run(ctx, opts, report)
	report.FinishedAt = time.Now()

	if p.store != nil {
		if serr := p.store.Save(context.WithoutCancel(ctx), report); serr != nil {
			logger.Warn("journal run %s: %v", report.ID, serr)
		}
	}
	logger.Debug("run %s: %d outcomes in %s", report.ID, len(report.Outcomes), report.Duration())
	return report, err
}

func (p *Processor) run(ctx context.Context, opts domain.RunOptions, report *domain.RunReport) error {
	for _, kind := range p.registry.Kinds() {
		if len(opts.Only) > 0 && !slices.Contains(opts.Only, kind) {
			continue
		}
		gen, err := p.registry.Get(kind)
		if err != nil {
			return err
		}
		elements, err := p.host.Elements(ctx, kind)
		if err != nil {
			return fmt.Errorf("enumerate @%s: %w", kind, err)
		}
		logger.Debug("@%s: %d elements", kind, len(elements))

		for _, el := range elements {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Outcomes = append(report.Outcomes, p.process(ctx, gen, el, opts.DryRun)...)
		}
	}
	return nil
}

// pendingWrite is a printed edit that differs from the file on disk.
type pendingWrite struct {
	path   string
	data   []byte
	status domain.OutcomeStatus
	diff   string
}

// process runs one generator on one element. All edits are printed before
// the first write, so a failing element leaves the tree untouched.
func (p *Processor) process(ctx context.Context, gen Generator, el domain.AnnotatedElement, dryRun bool) []domain.FileOutcome {
	fail := func(err error) []domain.FileOutcome {
		msg := domain.DiagnosticMessage(err)
		logger.Debug("%s: %v", el, err)
		p.sink.Report(domain.NewElementDiagnostic(domain.SeverityError, msg, el, domain.IsConfigurationError(err)))
		return []domain.FileOutcome{{
			Element:    el.QualifiedName(),
			Annotation: el.Kind,
			Path:       el.File,
			Status:     domain.OutcomeFailed,
			Message:    msg,
		}}
	}

	root, err := p.sourceRoot(el)
	if err != nil {
		return fail(err)
	}
	src, err := p.tree.ReadFile(el.File)
	if err != nil {
		return fail(fmt.Errorf("read %s: %w", el.File, err))
	}
	unit, err := p.codec.Parse(el.File, src)
	if err != nil {
		return fail(err)
	}
	attrs, err := p.host.Attributes(ctx, el)
	if err != nil {
		return fail(err)
	}

	job := &Job{
		Element: el,
		Unit:    unit,
		Path:    el.File,
		Root:    root,
		Roots:   p.rootsFrom(root),
		Attrs:   attrs,
	}
	edits, err := gen.Generate(ctx, job)
	if err != nil {
		return fail(err)
	}

	var (
		outcomes []domain.FileOutcome
		writes   []pendingWrite
	)
	outcome := func(path string, status domain.OutcomeStatus, diff string) domain.FileOutcome {
		return domain.FileOutcome{
			Element:    el.QualifiedName(),
			Annotation: el.Kind,
			Path:       path,
			Status:     status,
			Diff:       diff,
		}
	}
	for _, edit := range edits {
		w, changed, err := p.prepare(edit)
		if err != nil {
			return fail(err)
		}
		if !changed {
			outcomes = append(outcomes, outcome(edit.Path, domain.OutcomeUnchanged, ""))
			continue
		}
		writes = append(writes, w)
	}

	for _, w := range writes {
		if !dryRun {
			if err := p.tree.WriteFile(w.path, w.data); err != nil {
				return append(outcomes, fail(fmt.Errorf("write %s: %w", w.path, err))...)
			}
			logger.Info("%s %s", w.status, w.path)
		}
		outcomes = append(outcomes, outcome(w.path, w.status, w.diff))
	}
	return outcomes
}

// prepare prints an edit and compares it with the current file contents.
func (p *Processor) prepare(edit domain.FileEdit) (pendingWrite, bool, error) {
	exists := p.tree.Exists(edit.Path)
	if exists && !edit.Unit.Changed {
		return pendingWrite{}, false, nil
	}
	data, err := p.codec.Print(edit.Unit)
	if err != nil {
		return pendingWrite{}, false, fmt.Errorf("print %s: %w", edit.Path, err)
	}

	var old []byte
	status := domain.OutcomeCreated
	if exists {
		old, err = p.tree.ReadFile(edit.Path)
		if err != nil {
			return pendingWrite{}, false, fmt.Errorf("read %s: %w", edit.Path, err)
		}
		if bytes.Equal(old, data) {
			return pendingWrite{}, false, nil
		}
		status = domain.OutcomeRewritten
	}

	return pendingWrite{
		path:   edit.Path,
		data:   data,
		status: status,
		diff:   unifiedDiff(edit.Path, old, data, exists),
	}, true, nil
}

func unifiedDiff(p string, old, data []byte, exists bool) string {
	from := "a/" + p
	if !exists {
		from = "/dev/null"
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(data)),
		FromFile: from,
		ToFile:   "b/" + p,
		Context:  3,
	})
	if err != nil {
		logger.Debug("diff %s: %v", p, err)
		return ""
	}
	return diff
}

// sourceRoot returns the configured source root holding the element's
// file at the location its package implies. A file that sits under a root
// in another directory still resolves to that root.
func (p *Processor) sourceRoot(el domain.AnnotatedElement) (string, error) {
	file := path.Clean(el.File)
	rel := path.Join(domain.PackageToPath(el.Package), el.TypeName+".java")
	for _, root := range p.roots {
		if path.Join(root, rel) == file {
			return root, nil
		}
	}
	for _, root := range p.roots {
		if strings.HasPrefix(file, path.Clean(root)+"/") {
			return root, nil
		}
	}
	return "", domain.NewSourceRootError(el.QualifiedName(), p.roots)
}

// rootsFrom returns the configured roots with root first.
func (p *Processor) rootsFrom(root string) []string {
	out := make([]string, 0, len(p.roots))
	out = append(out, root)
	for _, r := range p.roots {
		if r != root {
			out = append(out, r)
		}
	}
	return out
}
