package driven

import "github.com/custodia-labs/annlib/internal/core/domain"

// DiagnosticSink receives diagnostics produced during a run.
type DiagnosticSink interface {
	// Report delivers one diagnostic.
	Report(d domain.Diagnostic)
}
