package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
	"github.com/custodia-labs/annlib/internal/core/ports/driving"
)

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.Settings
	err      error
	created  bool
	initErr  error
	path     string
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		s := domain.DefaultSettings()
		return &s, nil
	}
	return m.settings, nil
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsService) Init() (bool, error) {
	return m.created, m.initErr
}

func (m *mockSettingsService) Path() string {
	return m.path
}

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
	if m.err != nil {
		return nil, m.err
	}
	r := *m.report
	r.DryRun = opts.DryRun
	return &r, nil
}

func (m *mockProcessor) Kinds() []domain.AnnotationKind {
	return domain.AllAnnotationKinds()
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs   []domain.RunReport
	report *domain.RunReport
	pruned int
	err    error
	limit  int
	id     string
	keep   int
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

func (m *mockHistoryService) Prune(_ context.Context, keep int) (int, error) {
	m.keep = keep
	return m.pruned, m.err
}

// testApp is the wiring used by command tests.
type testApp struct {
	settings  *mockSettingsService
	processor *mockProcessor
	history   *mockHistoryService
	sink      driven.DiagnosticSink
	closed    bool
	project   string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return &testApp{
		settings:  &mockSettingsService{path: "/work/shop/annlib.toml"},
		processor: &mockProcessor{report: testReport()},
		history:   &mockHistoryService{},
		project:   t.TempDir(),
	}
}

func (a *testApp) wiring() *Wiring {
	return &Wiring{
		Settings: func(_, _ string) (driving.SettingsService, error) {
			return a.settings, nil
		},
		Services: func(_ string, _ *domain.Settings, sink driven.DiagnosticSink) (*Services, error) {
			a.sink = sink
			svc := &Services{
				Processor: a.processor,
				Close: func() error {
					a.closed = true
					return nil
				},
			}
			if a.history != nil {
				svc.History = a.history
			}
			return svc, nil
		},
	}
}

// execute runs the root command with fresh flag values and returns what
// it wrote to stdout and stderr.
func (a *testApp) execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	previous := wiring
	SetWiring(a.wiring())
	resetFlags()
	t.Cleanup(func() {
		SetWiring(previous)
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"-C", a.project}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// outcomeLine is how the printer lays out one outcome without colour.
func outcomeLine(status, target string) string {
	return fmt.Sprintf("%-20s %s", status, target)
}

func resetFlags() {
	projectFlag = "."
	configFlag = ""
	verboseFlag = false
	logLevelFlag = ""
	logJSONFlag = false
	dryRunFlag = false
	diffFlag = false
	onlyFlag = nil
	historyLimitFlag = 20
	pruneKeepFlag = 50
	mcpPortFlag = 0
}

func testReport() *domain.RunReport {
	started := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	return &domain.RunReport{
		ID:         "3f2a9c1e-5b7d-4e21-9a0f-2c6d8e4b1a73",
		Project:    "/work/shop",
		StartedAt:  started,
		FinishedAt: started.Add(42 * time.Millisecond),
		Outcomes: []domain.FileOutcome{
			{
				Element:    "app.Config",
				Annotation: domain.KindSingleton,
				Path:       "src/app/Config.java",
				Status:     domain.OutcomeRewritten,
				Diff:       "--- a/src/app/Config.java\n+++ b/src/app/Config.java\n@@ -1 +1 @@\n-class Config {}\n+public class Config {}\n",
			},
			{
				Element:    "app.Worker",
				Annotation: domain.KindThreadTemplate,
				Path:       "src/app/Worker.java",
				Status:     domain.OutcomeUnchanged,
			},
		},
	}
}

func failedReport() *domain.RunReport {
	r := testReport()
	r.Outcomes = append(r.Outcomes, domain.FileOutcome{
		Element:    "app.App",
		Annotation: domain.KindGenerateRepositories,
		Path:       "src/app/App.java",
		Status:     domain.OutcomeFailed,
		Message:    `Entity "Order" doesn't have field annotated with @Id!`,
	})
	return r
}
