package mcp

import (
	"time"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// RunOutput is the JSON form of a run report.
type RunOutput struct {
	ID          string          `json:"id"`
	Project     string          `json:"project"`
	DryRun      bool            `json:"dry_run"`
	StartedAt   time.Time       `json:"started_at"`
	DurationMS  int64           `json:"duration_ms"`
	Created     int             `json:"created"`
	Rewritten   int             `json:"rewritten"`
	Unchanged   int             `json:"unchanged"`
	Failed      int             `json:"failed"`
	Outcomes    []OutcomeOutput `json:"outcomes"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

// OutcomeOutput is the JSON form of a file outcome.
type OutcomeOutput struct {
	Element    string `json:"element"`
	Annotation string `json:"annotation"`
	Path       string `json:"path,omitempty"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Diff       string `json:"diff,omitempty"`
}

// toRunOutput converts a report. Diffs are dropped unless withDiff is set.
func toRunOutput(r *domain.RunReport, withDiff bool) RunOutput {
	out := RunOutput{
		ID:         r.ID,
		Project:    r.Project,
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt,
		DurationMS: r.Duration().Milliseconds(),
		Created:    r.Count(domain.OutcomeCreated),
		Rewritten:  r.Count(domain.OutcomeRewritten),
		Unchanged:  r.Count(domain.OutcomeUnchanged),
		Failed:     r.Count(domain.OutcomeFailed),
		Outcomes:   make([]OutcomeOutput, len(r.Outcomes)),
	}
	for i, o := range r.Outcomes {
		out.Outcomes[i] = OutcomeOutput{
			Element:    o.Element,
			Annotation: string(o.Annotation),
			Path:       o.Path,
			Status:     string(o.Status),
			Message:    o.Message,
		}
		if withDiff {
			out.Outcomes[i].Diff = o.Diff
		}
	}
	return out
}
