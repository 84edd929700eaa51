package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/annlib/internal/adapters/driven/diagnostics"
	"github.com/custodia-labs/annlib/internal/core/domain"
)

var (
	historyLimitFlag int
	pruneKeepFlag    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent processor runs",
	Long: `Lists the runs recorded in the project journal, newest first.

Use "history show <run-id>" for the outcomes and diffs of one run; any unique
prefix of the ID is accepted.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its diffs",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old runs from the journal",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "l", 20, "maximum number of runs")
	historyPruneCmd.Flags().IntVar(&pruneKeepFlag, "keep", 50, "number of recent runs to keep")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*project, error) {
	p, err := openProject(diagnostics.NewCollectingSink())
	if err != nil {
		return nil, err
	}
	if p.History == nil {
		p.close()
		return nil, errors.New("run journal not configured")
	}
	return p, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	p, err := openHistory()
	if err != nil {
		return err
	}
	defer p.close()

	runs, err := p.History.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	out := newPrinter(cmd.OutOrStdout())
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(out.styles.Muted).
		Headers("ID", "STARTED", "MODE", "CREATED", "REWRITTEN", "FAILED")
	for i := range runs {
		r := &runs[i]
		mode := "write"
		if r.DryRun {
			mode = "dry-run"
		}
		t.Row(
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			mode,
			strconv.Itoa(r.Count(domain.OutcomeCreated)),
			strconv.Itoa(r.Count(domain.OutcomeRewritten)),
			strconv.Itoa(r.Count(domain.OutcomeFailed)),
		)
	}
	cmd.Println(t.String())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	p, err := openHistory()
	if err != nil {
		return err
	}
	defer p.close()

	report, err := p.History.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}

	out := newPrinter(cmd.OutOrStdout())
	cmd.Println(out.styles.Title.Render("Run " + report.ID))
	cmd.Printf("Project: %s\n", report.Project)
	cmd.Printf("Started: %s\n", report.StartedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Println()
	out.outcomes(report, true)
	out.diffs(report)
	out.summary(report)
	return nil
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	p, err := openHistory()
	if err != nil {
		return err
	}
	defer p.close()

	n, err := p.History.Prune(cmd.Context(), pruneKeepFlag)
	if err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	cmd.Printf("Deleted %d run(s), kept the latest %d.\n", n, pruneKeepFlag)
	return nil
}
