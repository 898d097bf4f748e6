package cmd

import (
	"time"

	"github.com/Ever-fnf/imc/internal/config"
	"github.com/Ever-fnf/imc/internal/ingest"
	"github.com/Ever-fnf/imc/internal/observability"
	"github.com/Ever-fnf/imc/internal/ui"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the promotion plan sheet into Snowflake",
	Long: `Read the plan tab of the planning spreadsheet, keep the rows that have a
brand, and replace the Snowflake plan table with them in one transaction.

An empty tab leaves the table untouched.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rc, err := prepare(cmd, config.StageIngest, observability.StageIngest)
	if err != nil {
		return err
	}

	rc.ui.Header("imc - Ingest")

	source, err := newSource(ctx, rc.cfg.Sheets, rc.log)
	if err != nil {
		return rc.finish(err)
	}

	store, err := rc.connect(ctx)
	if err != nil {
		return rc.finish(err)
	}
	defer closeQuietly(store, rc.log)

	runner := &ingest.Runner{
		Source:  source,
		Store:   store,
		Log:     rc.log,
		Metrics: rc.metrics,
	}
	result, err := runner.Run(ctx, rc.cfg)
	if err != nil {
		return rc.finish(err)
	}

	summary := ui.IngestSummary(result, time.Since(rc.start))
	if result.NoData {
		rc.ui.Warning(summary)
	} else {
		rc.ui.Success(summary)
	}
	if result.Dropped > 0 {
		rc.ui.VerbosePrintf("  %d rows without a brand were ignored\n", result.Dropped)
	}
	return rc.finish(nil)
}
