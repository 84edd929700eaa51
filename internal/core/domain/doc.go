// Package domain defines the core entities for annlib.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceUnit: One Java file (package, imports, one top-level type)
//   - TypeDeclaration: A class or interface with its ordered members
//   - FieldSlot, MethodSlot, ConstructorSlot: Members the generators reconcile
//   - AnnotatedElement: A type carrying a processor annotation
//   - RunReport: The outcome of one processor run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
