// Package mcp provides an MCP (Model Context Protocol) server adapter for annlib.
// It lets AI assistants run the processor and read the run journal.
package mcp

import "errors"

// ErrMissingProcessor is returned when the processor is not provided.
var ErrMissingProcessor = errors.New("mcp: processor is required")
