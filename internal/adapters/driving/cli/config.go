package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the project configuration",
	Long: `View or create the project configuration file.

The file is annlib.toml in the project directory (annlib.yaml is also
accepted). Keys missing from the file keep their default values.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long:  `Writes the default configuration file unless it already has a processor section.`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, _, err := openSettings()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n", svc.Path())
	cmd.Println()

	cmd.Println("[Processor]")
	cmd.Printf("  Source roots: %s\n", strings.Join(settings.Processor.SourceRoots, ", "))
	cmd.Printf("  Annotation package: %s\n", settings.Processor.AnnotationPackage)
	cmd.Printf("  Include: %s\n", strings.Join(settings.Processor.Include, ", "))
	cmd.Printf("  Exclude: %s\n", listOrNone(settings.Processor.Exclude))
	cmd.Println()

	cmd.Println("[Markers]")
	cmd.Printf("  Entity: @%s\n", settings.Markers.Entity)
	cmd.Printf("  Id: @%s\n", settings.Markers.ID)
	cmd.Println()

	cmd.Println("[Controller]")
	cmd.Printf("  Mapping annotation: %s\n", settings.Controller.MappingAnnotation)
	cmd.Println()

	cmd.Println("[Types]")
	if len(settings.Types.Known) == 0 {
		cmd.Println("  Known: (defaults only)")
	}
	for _, k := range settings.Types.Known {
		cmd.Printf("  %s\n", formatKnownType(k))
	}
	cmd.Println()

	cmd.Println("[Journal]")
	cmd.Printf("  Backend: %s\n", settings.Journal.Backend)
	if settings.Journal.Backend == domain.JournalSQLite {
		cmd.Printf("  Path: %s\n", settings.Journal.Path)
	}
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Debounce: %s\n", settings.Watch.Debounce)
	cmd.Printf("  Max wait: %s\n", settings.Watch.MaxWait)

	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	svc, _, err := openSettings()
	if err != nil {
		return err
	}
	cmd.Println(svc.Path())
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	svc, _, err := openSettings()
	if err != nil {
		return err
	}

	created, err := svc.Init()
	if err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}
	if !created {
		cmd.Printf("%s already configured.\n", svc.Path())
		return nil
	}
	cmd.Printf("Wrote default configuration to %s\n", svc.Path())
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// formatKnownType renders a known type as it is written in the file.
func formatKnownType(k domain.KnownType) string {
	s := k.QualifiedName + ":" + string(k.Kind)
	if k.TypeParams > 0 {
		s += fmt.Sprintf(":%d", k.TypeParams)
	}
	return s
}
