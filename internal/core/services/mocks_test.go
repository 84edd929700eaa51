package services

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// mockSink implements driven.DiagnosticSink for testing.
type mockSink struct {
	mu    sync.Mutex
	diags []domain.Diagnostic
}

func (m *mockSink) Report(d domain.Diagnostic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diags = append(m.diags, d)
}

func (m *mockSink) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.diags))
	for i, d := range m.diags {
		out[i] = d.Message
	}
	return out
}

// mockRunStore implements driven.RunStore for testing.
type mockRunStore struct {
	mu      sync.Mutex
	runs    map[string]domain.RunReport
	saveErr error
	getErr  error
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{runs: make(map[string]domain.RunReport)}
}

func (m *mockRunStore) Save(_ context.Context, report *domain.RunReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if report == nil {
		return domain.ErrInvalidInput
	}
	m.runs[report.ID] = *report
	return nil
}

func (m *mockRunStore) Get(_ context.Context, id string) (*domain.RunReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *mockRunStore) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RunReport, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRunStore) Latest(ctx context.Context) (*domain.RunReport, error) {
	runs, _ := m.List(ctx, 1)
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &runs[0], nil
}

func (m *mockRunStore) Prune(ctx context.Context, keep int) (int, error) {
	runs, _ := m.List(ctx, 0)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for i, r := range runs {
		if i >= keep {
			delete(m.runs, r.ID)
			removed++
		}
	}
	return removed, nil
}

// mockGenerator implements Generator for testing.
type mockGenerator struct {
	kind  domain.AnnotationKind
	edits func(job *Job) []domain.FileEdit
	err   error
	calls []string
}

func (m *mockGenerator) Kind() domain.AnnotationKind {
	return m.kind
}

func (m *mockGenerator) Generate(_ context.Context, job *Job) ([]domain.FileEdit, error) {
	m.calls = append(m.calls, job.Element.QualifiedName())
	if m.err != nil {
		return nil, m.err
	}
	if m.edits == nil {
		return []domain.FileEdit{{Path: job.Path, Unit: job.Unit}}, nil
	}
	return m.edits(job), nil
}

// mockHost implements driven.ElementHost for testing.
type mockHost struct {
	elements  map[domain.AnnotationKind][]domain.AnnotatedElement
	attrs     domain.AttributeSet
	classes   map[string]*domain.ClassInfo
	elemErr   error
	refreshed int
}

func (m *mockHost) Elements(_ context.Context, kind domain.AnnotationKind) ([]domain.AnnotatedElement, error) {
	if m.elemErr != nil {
		return nil, m.elemErr
	}
	return m.elements[kind], nil
}

func (m *mockHost) Attributes(_ context.Context, _ domain.AnnotatedElement) (domain.AttributeSet, error) {
	return m.attrs, nil
}

func (m *mockHost) ResolveClass(_ context.Context, _ domain.AnnotatedElement, literal string) (*domain.ClassInfo, error) {
	if c, ok := m.classes[literal]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockHost) Refresh() {
	m.refreshed++
}
