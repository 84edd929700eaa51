package mcp

import (
	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driving"
)

// DiagnosticSource hands over the diagnostics reported since the last call.
type DiagnosticSource interface {
	Drain() []domain.Diagnostic
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Processor runs the generators.
	Processor driving.Processor

	// History reads the run journal. Optional.
	History driving.HistoryService

	// Diagnostics collects what the processor reported. Optional.
	Diagnostics DiagnosticSource
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Processor == nil {
		return ErrMissingProcessor
	}
	return nil
}
