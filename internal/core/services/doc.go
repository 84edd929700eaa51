// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The generators patch parsed Java sources through the Reconciler and
// never write files themselves; the Processor owns all writes.
package services
