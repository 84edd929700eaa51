// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: project configuration in annlib.toml (TOML) or
//     annlib.yaml (YAML)
package file
