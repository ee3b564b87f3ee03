package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previously generated reports",
	Long: `List the reports recorded in the render history.

Use --run to narrow to one assessment run, or --latest to show the most
recent report of a type.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyRun    string
	historyLatest string
	historyJSON   bool
)

func init() {
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Only show reports for this run id")
	historyCmd.Flags().StringVar(&historyLatest, "latest", "", "Show the latest report of this type")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNotConfigured("history")
	}
	ctx := commandContext(cmd)

	if historyLatest != "" {
		report, err := historyService.Latest(ctx, historyLatest)
		if errors.Is(err, domain.ErrNotFound) {
			newPrinter(cmd.OutOrStdout()).Muted("No %s reports recorded", historyLatest)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if historyJSON {
			return writeJSON(cmd, reportJSON(report, nil))
		}
		newPrinter(cmd.OutOrStdout()).Report(report)
		return nil
	}

	reports, err := historyService.List(ctx, historyRun)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyJSON {
		out := make([]map[string]any, len(reports))
		for i := range reports {
			out[i] = reportJSON(&reports[i], nil)
		}
		return writeJSON(cmd, out)
	}

	p := newPrinter(cmd.OutOrStdout())
	if len(reports) == 0 {
		p.Muted("No reports recorded")
		return nil
	}

	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{
			r.GeneratedAt.Local().Format(time.DateTime),
			r.RunID,
			r.ReportType,
			fmt.Sprintf("%.0f %s", r.HealthScore, r.HealthBand),
			r.DocumentPath,
		}
	}
	p.Table([]string{"GENERATED", "RUN", "REPORT", "SCORE", "DOCUMENT"}, rows)
	p.Muted("Total: %d reports", len(reports))
	return nil
}
