package cmd

import (
	"github.com/Ever-fnf/imc/internal/config"
	"github.com/Ever-fnf/imc/internal/export"
	"github.com/Ever-fnf/imc/internal/observability"
	"github.com/Ever-fnf/imc/internal/output"
	"github.com/Ever-fnf/imc/internal/ui"
	"github.com/spf13/cobra"
)

var exportTabsCmd = &cobra.Command{
	Use:   "export-tabs",
	Short: "Export auxiliary sheet tabs to JSON",
	Long: `Copy every tab listed under sheets.export_tabs to its JSON file. The first
row of a tab is the header; numbers stay numbers and blank cells become "".

A tab that does not exist is reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runExportTabs,
}

func init() {
	rootCmd.AddCommand(exportTabsCmd)
}

func runExportTabs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rc, err := prepare(cmd, config.StageExportTabs, observability.StageExportTabs)
	if err != nil {
		return err
	}

	rc.ui.Header("imc - Export Tabs")

	source, err := newSource(ctx, rc.cfg.Sheets, rc.log)
	if err != nil {
		return rc.finish(err)
	}

	runner := &export.Runner{
		Source:  source,
		Writer:  output.NewJSONWriter(),
		Log:     rc.log,
		Metrics: rc.metrics,
	}

	var progress *ui.ProgressBar
	if !rc.ui.IsQuiet() && ui.SupportsColor() {
		progress = ui.NewProgressBar(rc.ui.Out, len(rc.cfg.Sheets.ExportTabs))
		runner.Progress = func(done int, r export.TabResult) {
			progress.Update(done, r.Tab, !r.Missing)
		}
	}

	results, runErr := runner.Run(ctx, rc.cfg)
	if progress != nil {
		progress.Finish("Export")
	}
	if !rc.ui.IsQuiet() && len(results) > 0 {
		ui.RenderExportSummary(rc.ui.Out, results, ui.SupportsColor())
	}
	for _, r := range results {
		if r.Missing {
			rc.ui.Warning("Tab not found: " + r.Tab)
		}
	}
	return rc.finish(runErr)
}
