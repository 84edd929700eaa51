// Command annlib patches Java sources according to processor annotations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/annlib/internal/adapters/driven/config/file"
	"github.com/custodia-labs/annlib/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/annlib/internal/adapters/driven/host"
	"github.com/custodia-labs/annlib/internal/adapters/driven/java"
	"github.com/custodia-labs/annlib/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/annlib/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/annlib/internal/adapters/driving/cli"
	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
	"github.com/custodia-labs/annlib/internal/core/ports/driving"
	"github.com/custodia-labs/annlib/internal/core/services"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetWiring(&cli.Wiring{
		Settings: openSettings,
		Services: buildServices,
	})

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// openSettings opens annlib.toml (or the file given by --config).
func openSettings(project, configPath string) (driving.SettingsService, error) {
	if configPath == "" {
		configPath = file.FindConfig(project)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(project, configPath)
	}
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return services.NewSettingsService(store, project), nil
}

// buildServices wires the processor over the project tree and opens the
// run journal.
func buildServices(project string, settings *domain.Settings, sink driven.DiagnosticSink) (*cli.Services, error) {
	tree, err := filesystem.NewSourceTree(project)
	if err != nil {
		return nil, err
	}
	codec := java.NewCodec()
	elements := host.NewHost(tree, codec, host.Config{
		AnnotationPackage: settings.Processor.AnnotationPackage,
		Include:           settings.Processor.Include,
		Exclude:           settings.Processor.Exclude,
		KnownTypes:        settings.Types.Known,
	})

	store, closeStore, err := openJournal(settings.Journal)
	if err != nil {
		return nil, err
	}

	registry := services.NewBuiltinRegistry(services.GeneratorDeps{
		Host:     elements,
		Tree:     tree,
		Codec:    codec,
		Settings: *settings,
	})
	processor := services.NewProcessor(elements, tree, codec, registry, sink, store, settings.Processor.SourceRoots)

	return &cli.Services{
		Processor: processor,
		History:   services.NewHistoryService(store),
		Close:     closeStore,
	}, nil
}

// openJournal opens the configured run store.
func openJournal(cfg domain.JournalSettings) (driven.RunStore, func() error, error) {
	switch cfg.Backend {
	case domain.JournalMemory:
		return memory.NewRunStore(), nil, nil
	case domain.JournalSQLite, "":
		db, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening journal: %w", err)
		}
		return db.RunStore(), db.Close, nil
	default:
		return nil, nil, errors.New("unknown journal backend " + string(cfg.Backend))
	}
}
