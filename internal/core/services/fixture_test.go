package services

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/annlib/internal/adapters/driven/host"
	"github.com/custodia-labs/annlib/internal/adapters/driven/java"
	"github.com/custodia-labs/annlib/internal/core/domain"
)

// project is an in-memory Java project wired to a real codec and host.
type project struct {
	fs    afero.Fs
	tree  *filesystem.SourceTree
	codec *java.Codec
	host  *host.Host
	sink  *mockSink
	store *mockRunStore
	proc  *Processor
}

func newProject(t *testing.T, files map[string]string) *project {
	t.Helper()

	fs := afero.NewMemMapFs()
	tree := filesystem.NewSourceTreeFs(fs, "/project")
	for p, src := range files {
		require.NoError(t, tree.WriteFile(p, []byte(src)))
	}

	settings := domain.DefaultSettings()
	codec := java.NewCodec()
	h := host.NewHost(tree, codec, host.Config{
		AnnotationPackage: settings.Processor.AnnotationPackage,
		Include:           settings.Processor.Include,
		Exclude:           settings.Processor.Exclude,
	})
	registry := NewBuiltinRegistry(GeneratorDeps{Host: h, Tree: tree, Codec: codec, Settings: settings})
	sink := &mockSink{}
	store := newMockRunStore()

	return &project{
		fs:    fs,
		tree:  tree,
		codec: codec,
		host:  h,
		sink:  sink,
		store: store,
		proc:  NewProcessor(h, tree, codec, registry, sink, store, settings.Processor.SourceRoots),
	}
}

func (p *project) run(t *testing.T, opts domain.RunOptions) *domain.RunReport {
	t.Helper()
	report, err := p.proc.Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func (p *project) read(t *testing.T, path string) string {
	t.Helper()
	data, err := p.tree.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// snapshot returns every file in the project keyed by path.
func (p *project) snapshot(t *testing.T) map[string]string {
	t.Helper()
	files, err := p.tree.Glob([]string{"**/*"}, nil)
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f] = p.read(t, f)
	}
	return out
}

// assertIdempotent runs the processor again and checks nothing changes.
func (p *project) assertIdempotent(t *testing.T) {
	t.Helper()
	before := p.snapshot(t)
	report := p.run(t, domain.RunOptions{})
	require.Empty(t, report.Changed(), "second run must not change files")
	require.False(t, report.Failed())
	require.Equal(t, before, p.snapshot(t))
}

// unit parses a project file.
func (p *project) unit(t *testing.T, path string) *domain.SourceUnit {
	t.Helper()
	u, err := p.codec.Parse(path, []byte(p.read(t, path)))
	require.NoError(t, err)
	return u
}

func replaceOnce(t *testing.T, s, old, repl string) string {
	t.Helper()
	require.Contains(t, s, old)
	return strings.Replace(s, old, repl, 1)
}
