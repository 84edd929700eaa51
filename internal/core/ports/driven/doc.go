// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ElementHost: Enumerates annotated declarations and resolves class literals
//   - SourceTree: Reads and writes project files
//   - SourceCodec: Parses and prints Java source units
//   - DiagnosticSink: Receives errors and warnings attributed to elements
//   - ConfigStore: Project configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run journal. Without it, runs are not recorded and history is unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
