package diagnostics

import (
	"sync"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Ensure the sinks implement the interface.
var (
	_ driven.DiagnosticSink = (*CollectingSink)(nil)
	_ driven.DiagnosticSink = Multi(nil)
)

// CollectingSink keeps every reported diagnostic in memory.
type CollectingSink struct {
	mu    sync.Mutex
	diags []domain.Diagnostic
}

// NewCollectingSink creates an empty collecting sink.
func NewCollectingSink() *CollectingSink {
	return &CollectingSink{}
}

// Report stores d.
func (s *CollectingSink) Report(d domain.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = append(s.diags, d)
}

// Diagnostics returns a copy of the collected diagnostics.
func (s *CollectingSink) Diagnostics() []domain.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Diagnostic(nil), s.diags...)
}

// Drain returns the collected diagnostics and clears the sink.
func (s *CollectingSink) Drain() []domain.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.diags
	s.diags = nil
	return out
}

// Multi fans a diagnostic out to several sinks.
type Multi []driven.DiagnosticSink

// Report delivers d to every sink.
func (m Multi) Report(d domain.Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}
