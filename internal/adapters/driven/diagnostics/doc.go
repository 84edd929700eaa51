// Package diagnostics provides DiagnosticSink implementations: a console
// sink that prints "[annlib]" prefixed lines, styled with lipgloss when the
// output is a terminal, and a collecting sink that keeps diagnostics in
// memory for MCP responses and tests.
package diagnostics
