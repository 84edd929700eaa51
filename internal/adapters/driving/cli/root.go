// Package cli implements the annlib command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
	"github.com/custodia-labs/annlib/internal/core/ports/driving"
	"github.com/custodia-labs/annlib/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services are the driving ports built for one project.
type Services struct {
	Processor driving.Processor
	History   driving.HistoryService

	// Close releases the journal. May be nil.
	Close func() error
}

// Wiring builds the application for a project directory. It is provided by
// main so the command layer stays independent of the adapters.
type Wiring struct {
	// Settings opens the configuration of project. configPath overrides
	// the file location when set.
	Settings func(project, configPath string) (driving.SettingsService, error)

	// Services builds the processor and journal from validated settings.
	Services func(project string, settings *domain.Settings, sink driven.DiagnosticSink) (*Services, error)
}

var wiring *Wiring

// Global flags.
var (
	projectFlag  string
	configFlag   string
	verboseFlag  bool
	logLevelFlag string
	logJSONFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "annlib",
	Short: "Annotation-driven Java source generator",
	Long: `annlib patches a Java source tree according to the processor annotations
found on its classes: @Singleton, @ThreadTemplate, @GenerateRepositories and
@GenerateControllers.

Existing code is merged, never regenerated from scratch, so hand-written
members survive every run.`,
	SilenceUsage:      true,
	PersistentPreRunE: configureLogging,
}

// SetWiring sets how commands build their services.
func SetWiring(w *Wiring) {
	wiring = w
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&projectFlag, "project", "C", ".", "project directory")
	flags.StringVar(&configFlag, "config", "", "configuration file (default <project>/annlib.toml)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "log every processor step")
	flags.StringVar(&logLevelFlag, "log-level", "", "minimum log level: debug, info, warn or error")
	flags.BoolVar(&logJSONFlag, "log-json", false, "write logs as JSON")
}

func configureLogging(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)
	logger.SetJSON(logJSONFlag)
	if logLevelFlag != "" {
		if err := logger.SetLevel(logLevelFlag); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	return nil
}

// projectDir returns the absolute project directory.
func projectDir() (string, error) {
	dir, err := filepath.Abs(projectFlag)
	if err != nil {
		return "", fmt.Errorf("resolving project directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory: %s is not a directory", dir)
	}
	return dir, nil
}

// openSettings opens the project configuration.
func openSettings() (driving.SettingsService, string, error) {
	if wiring == nil || wiring.Settings == nil {
		return nil, "", errors.New("settings service not configured")
	}
	dir, err := projectDir()
	if err != nil {
		return nil, "", err
	}
	svc, err := wiring.Settings(dir, configFlag)
	if err != nil {
		return nil, "", err
	}
	return svc, dir, nil
}

// project is an opened project: its settings and services. Runs go
// through the project lock.
type project struct {
	dir      string
	settings *domain.Settings
	*Services
}

// openProject loads settings and builds the services for the project.
func openProject(sink driven.DiagnosticSink) (*project, error) {
	settingsSvc, dir, err := openSettings()
	if err != nil {
		return nil, err
	}
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", settingsSvc.Path(), err)
	}
	if wiring.Services == nil {
		return nil, errors.New("processor not configured")
	}
	svc, err := wiring.Services(dir, settings, sink)
	if err != nil {
		return nil, err
	}
	svc.Processor = withProjectLock(svc.Processor, dir)
	return &project{dir: dir, settings: settings, Services: svc}, nil
}

// close releases the project services.
func (p *project) close() {
	if p.Close == nil {
		return
	}
	if err := p.Close(); err != nil {
		logger.Warn("closing journal: %v", err)
	}
}
