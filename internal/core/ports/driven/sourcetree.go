package driven

import "io/fs"

// SourceTree is a writable view of the project directory.
// All paths are relative to Root and use forward slashes.
type SourceTree interface {
	// Root returns the absolute project directory.
	Root() string

	// Exists reports whether a file or directory exists.
	Exists(path string) bool

	// IsDir reports whether path is an existing directory.
	IsDir(path string) bool

	// ReadFile returns the file contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file contents, creating parent directories.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and its parents.
	MkdirAll(path string) error

	// ReadDir lists a directory sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)

	// Glob returns files matching any include pattern and no exclude pattern.
	Glob(include, exclude []string) ([]string, error)
}
