package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annlib/internal/adapters/driven/diagnostics"
	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/logger"
)

// errElementsFailed makes the process exit non-zero when an element failed.
var errElementsFailed = errors.New("one or more annotated elements failed")

var (
	dryRunFlag bool
	diffFlag   bool
	onlyFlag   []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the processor over the project",
	Long: `Processes every class carrying a processor annotation and patches the
affected files in place.

Kinds run in order: Singleton, ThreadTemplate, GenerateRepositories,
GenerateControllers. A failing element is reported and leaves its files
untouched; the other elements are still processed.

Examples:
  annlib generate
  annlib generate --dry-run
  annlib generate --only GenerateRepositories,GenerateControllers --diff`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "show what would change without writing files")
	generateCmd.Flags().BoolVar(&diffFlag, "diff", false, "print unified diffs of changed files")
	generateCmd.Flags().StringSliceVar(&onlyFlag, "only", nil, "annotation kinds to process (default all)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	only, err := domain.ParseAnnotationKinds(onlyFlag)
	if err != nil {
		return err
	}

	sink := diagnostics.NewConsoleSink(cmd.ErrOrStderr())
	p, err := openProject(sink)
	if err != nil {
		return err
	}
	defer p.close()

	report, err := p.Processor.Run(cmd.Context(), domain.RunOptions{DryRun: dryRunFlag, Only: only})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	out := newPrinter(cmd.OutOrStdout())
	out.outcomes(report, logger.IsVerbose())
	if diffFlag || dryRunFlag {
		out.diffs(report)
	}
	out.summary(report)

	if report.Failed() {
		return errElementsFailed
	}
	return nil
}
