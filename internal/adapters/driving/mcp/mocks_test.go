package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

// mockProcessor is a mock implementation of driving.Processor.
type mockProcessor struct {
	report *domain.RunReport
	err    error
	opts   []domain.RunOptions
	onRun  func()
}

func (m *mockProcessor) Run(_ context.Context, opts domain.RunOptions) (*domain.RunReport, error) {
	m.opts = append(m.opts, opts)
	if m.onRun != nil {
		m.onRun()
	}
	return m.report, m.err
}

func (m *mockProcessor) Kinds() []domain.AnnotationKind {
	return domain.AllAnnotationKinds()
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs   []domain.RunReport
	report *domain.RunReport
	err    error
	limit  int
	id     string
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	m.limit = limit
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.RunReport, error) {
	m.id = id
	return m.report, m.err
}

func (m *mockHistoryService) Latest(_ context.Context) (*domain.RunReport, error) {
	return m.report, m.err
}

func (m *mockHistoryService) Prune(_ context.Context, _ int) (int, error) {
	return 0, m.err
}

// mockDiagnostics is a mock implementation of DiagnosticSource.
type mockDiagnostics struct {
	diags  []domain.Diagnostic
	drains int
}

func (m *mockDiagnostics) Drain() []domain.Diagnostic {
	m.drains++
	out := m.diags
	m.diags = nil
	return out
}

func testReport() *domain.RunReport {
	started := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	return &domain.RunReport{
		ID:         "3f2a9c1e-0000",
		Project:    "/work/shop",
		StartedAt:  started,
		FinishedAt: started.Add(42 * time.Millisecond),
		Outcomes: []domain.FileOutcome{
			{
				Element:    "app.Config",
				Annotation: domain.KindSingleton,
				Path:       "src/app/Config.java",
				Status:     domain.OutcomeRewritten,
				Diff:       "--- a/src/app/Config.java\n+++ b/src/app/Config.java\n",
			},
			{
				Element:    "app.App",
				Annotation: domain.KindGenerateRepositories,
				Path:       "src/app/App.java",
				Status:     domain.OutcomeFailed,
				Message:    `Entity "Order" doesn't have field annotated with @Id!`,
			},
		},
	}
}
