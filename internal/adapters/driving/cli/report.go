package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/custodia-labs/annlib/internal/adapters/driven/diagnostics"
	"github.com/custodia-labs/annlib/internal/core/domain"
)

// printer renders run reports.
type printer struct {
	w      io.Writer
	styles *diagnostics.Styles
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, styles: diagnostics.NewStyles(nil, diagnostics.IsTerminal(w))}
}

// outcomes prints one line per written, would-be-written or failed file.
// Unchanged files are listed only when all is set.
func (p *printer) outcomes(r *domain.RunReport, all bool) {
	for _, o := range r.Outcomes {
		if o.Status == domain.OutcomeUnchanged && !all {
			continue
		}
		status := string(o.Status)
		if r.DryRun && (o.Status == domain.OutcomeCreated || o.Status == domain.OutcomeRewritten) {
			status = "would be " + status
		}
		target := o.Path
		if target == "" {
			target = o.Element
		}
		line := fmt.Sprintf("%-20s %s", status, target)
		if o.Message != "" {
			line += ": " + o.Message
		}
		fmt.Fprintln(p.w, p.styles.Outcome(o.Status).Render(line))
	}
}

// diffs prints the unified diff of every changed file.
func (p *printer) diffs(r *domain.RunReport) {
	for _, o := range r.Changed() {
		if o.Diff == "" {
			continue
		}
		fmt.Fprint(p.w, o.Diff)
		if !strings.HasSuffix(o.Diff, "\n") {
			fmt.Fprintln(p.w)
		}
	}
}

// summary prints the one-line run summary.
func (p *printer) summary(r *domain.RunReport) {
	line := fmt.Sprintf("%s %s: %s", prefixFor(r), shortID(r.ID), counts(r))
	line += fmt.Sprintf(" in %s", r.Duration().Round(time.Millisecond))
	style := p.styles.Success
	if r.Failed() {
		style = p.styles.Error
	}
	fmt.Fprintln(p.w, style.Render(line))
}

func prefixFor(r *domain.RunReport) string {
	if r.DryRun {
		return "Dry run"
	}
	return "Run"
}

func counts(r *domain.RunReport) string {
	return fmt.Sprintf("%d created, %d rewritten, %d unchanged, %d failed",
		r.Count(domain.OutcomeCreated),
		r.Count(domain.OutcomeRewritten),
		r.Count(domain.OutcomeUnchanged),
		r.Count(domain.OutcomeFailed))
}

// shortID returns the first eight characters of a run ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
