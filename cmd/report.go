package cmd

import (
	"github.com/Ever-fnf/imc/internal/config"
	"github.com/Ever-fnf/imc/internal/observability"
	"github.com/Ever-fnf/imc/internal/output"
	"github.com/Ever-fnf/imc/internal/report"
	"github.com/Ever-fnf/imc/internal/ui"
	"github.com/spf13/cobra"
)

var (
	reportStrict bool
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the promotion performance report",
	Long: `Join the promotion plan table with daily channel sales and write one JSON
object per promotion with its goal, actual sales and daily trend.

Promotions with unparseable dates are written with zero sales and reported as
skipped. With --strict such a run exits with an error after writing the file.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportStrict, "strict", false, "fail when any promotion is skipped")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (overrides report.output)")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rc, err := prepare(cmd, config.StageReport, observability.StageReport)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("strict") {
		rc.cfg.Report.Strict = reportStrict
	}
	if reportOutput != "" {
		rc.cfg.Report.Output = reportOutput
	}

	rc.ui.Header("imc - Report")

	store, err := rc.connect(ctx)
	if err != nil {
		return rc.finish(err)
	}
	defer closeQuietly(store, rc.log)

	runner := &report.Runner{
		Store:   store,
		Writer:  output.NewJSONWriter(),
		Log:     rc.log,
		Metrics: rc.metrics,
	}
	result, runErr := runner.Run(ctx, rc.cfg)
	if result != nil && !rc.ui.IsQuiet() {
		ui.RenderReportSummary(rc.ui.Out, result, ui.SupportsColor())
		summary := ui.ReportSummary(result, rc.cfg.Report.Output)
		if result.Skipped() > 0 {
			rc.ui.Warning(summary)
		} else {
			rc.ui.Success(summary)
		}
	}
	return rc.finish(runErr)
}
