package domain

import "time"

// OutcomeStatus is the result of processing one file for one element.
type OutcomeStatus string

// Outcome statuses.
const (
	OutcomeUnchanged OutcomeStatus = "unchanged"
	OutcomeRewritten OutcomeStatus = "rewritten"
	OutcomeCreated   OutcomeStatus = "created"
	OutcomeFailed    OutcomeStatus = "failed"
)

// FileOutcome records what happened to one target file, or to an element
// that failed before any file was touched (Path empty).
type FileOutcome struct {
	Element    string
	Annotation AnnotationKind
	Path       string
	Status     OutcomeStatus
	Message    string
	Diff       string
}

// RunReport summarises one processor run.
type RunReport struct {
	ID         string
	Project    string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []FileOutcome
}

// Count returns the number of outcomes with the given status.
func (r *RunReport) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any element failed.
func (r *RunReport) Failed() bool {
	return r.Count(OutcomeFailed) > 0
}

// Changed returns the outcomes that wrote (or would write) a file.
func (r *RunReport) Changed() []FileOutcome {
	var out []FileOutcome
	for _, o := range r.Outcomes {
		if o.Status == OutcomeRewritten || o.Status == OutcomeCreated {
			out = append(out, o)
		}
	}
	return out
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunOptions controls a processor run.
type RunOptions struct {
	// DryRun computes outcomes and diffs without writing files.
	DryRun bool

	// Only restricts processing to the listed annotation kinds. Empty means all.
	Only []AnnotationKind
}
