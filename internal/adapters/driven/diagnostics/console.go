package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Ensure ConsoleSink implements the interface.
var _ driven.DiagnosticSink = (*ConsoleSink)(nil)

// Prefix starts every console diagnostic line.
const Prefix = "[annlib]"

// ConsoleSink prints diagnostics, one per line.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	styles *Styles
	counts map[domain.Severity]int
}

// NewConsoleSink creates a sink writing to w. Colour is used only when w
// is a terminal.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{
		w:      w,
		styles: NewStyles(nil, IsTerminal(w)),
		counts: make(map[domain.Severity]int),
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Report prints "[annlib] file:line:col: severity: message (element)".
func (s *ConsoleSink) Report(d domain.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[d.Severity]++
	fmt.Fprintf(s.w, "%s %s\n", s.styles.Prefix.Render(Prefix), s.styles.Severity(d.Severity).Render(d.String()))
}

// Count returns how many diagnostics of sev were reported.
func (s *ConsoleSink) Count(sev domain.Severity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[sev]
}
