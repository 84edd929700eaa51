package filesystem

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Ensure SourceTree implements the interface.
var _ driven.SourceTree = (*SourceTree)(nil)

// SourceTree is an afero-backed view of a project directory. Paths passed
// in are project-relative with forward slashes.
type SourceTree struct {
	fs   afero.Fs
	root string
}

// NewSourceTree opens the project directory on the OS filesystem.
func NewSourceTree(root string) (*SourceTree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: abs, Err: fs.ErrInvalid}
	}
	return &SourceTree{fs: afero.NewBasePathFs(afero.NewOsFs(), abs), root: abs}, nil
}

// NewSourceTreeFs wraps an existing filesystem, such as afero.NewMemMapFs
// in tests. root is only reported, never joined.
func NewSourceTreeFs(fsys afero.Fs, root string) *SourceTree {
	return &SourceTree{fs: fsys, root: root}
}

// Root returns the project directory.
func (t *SourceTree) Root() string {
	return t.root
}

func native(p string) string {
	return filepath.FromSlash(path.Clean(p))
}

// Exists reports whether a file or directory exists.
func (t *SourceTree) Exists(p string) bool {
	ok, err := afero.Exists(t.fs, native(p))
	return err == nil && ok
}

// IsDir reports whether p is an existing directory.
func (t *SourceTree) IsDir(p string) bool {
	ok, err := afero.IsDir(t.fs, native(p))
	return err == nil && ok
}

// ReadFile returns the file contents.
func (t *SourceTree) ReadFile(p string) ([]byte, error) {
	return afero.ReadFile(t.fs, native(p))
}

// WriteFile replaces the file contents, creating parent directories.
// Existing files keep their permissions.
func (t *SourceTree) WriteFile(p string, data []byte) error {
	name := native(p)
	if err := t.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if info, err := t.fs.Stat(name); err == nil {
		perm = info.Mode().Perm()
	}
	return afero.WriteFile(t.fs, name, data, perm)
}

// MkdirAll creates a directory and its parents.
func (t *SourceTree) MkdirAll(p string) error {
	return t.fs.MkdirAll(native(p), 0o755)
}

// ReadDir lists a directory sorted by name.
func (t *SourceTree) ReadDir(p string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(t.fs, native(p))
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Glob returns the files matching any include pattern and no exclude
// pattern, sorted and without duplicates.
func (t *SourceTree) Glob(include, exclude []string) ([]string, error) {
	fsys := afero.NewIOFS(t.fs)
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, strings.TrimPrefix(pattern, "/"), doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if seen[m] || excluded(m, exclude) {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func excluded(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}
