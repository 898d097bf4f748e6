package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Ever-fnf/imc/internal/config"
	"github.com/Ever-fnf/imc/internal/observability"
	"github.com/Ever-fnf/imc/internal/sheets"
	"github.com/Ever-fnf/imc/internal/snowflake"
	"github.com/Ever-fnf/imc/internal/ui"
	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "imc",
		Short: "Sync promotion plans between Google Sheets and Snowflake",
		Long: `imc moves the promotion plan from the planning spreadsheet into Snowflake
and builds the promotion performance report (data.json) from the warehouse.

Stages:
  ingest       planning sheet -> Snowflake plan table
  report       plan table + daily sales -> data.json
  export-tabs  auxiliary sheet tabs -> JSON files`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Hooks replaced by tests.
var (
	secretStore = config.Keyring()

	newSource = func(ctx context.Context, cfg models.Sheets, log *logrus.Entry) (sheets.Source, error) {
		return sheets.NewClient(ctx, cfg, log)
	}

	newWarehouse = func(ctx context.Context, cfg models.Snowflake, log *logrus.Entry) (warehouse, error) {
		service := snowflake.NewService(snowflake.ConfigFromModel(cfg), log)
		if err := service.Connect(ctx); err != nil {
			return nil, err
		}
		return service, nil
	}
)

// warehouse is a connected store that must be closed after the run.
type warehouse interface {
	snowflake.Store
	Close() error
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadEnvFile)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or $HOME/.imc/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging and extra output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress terminal output except errors")
	flags.StringVar(&logFormat, "log-format", "", "log format: text or json (overrides log.format)")
}

// loadEnvFile reads ./.env when present. Variables already set win.
func loadEnvFile() {
	_ = godotenv.Load()
}

// runContext is what every stage command needs.
type runContext struct {
	cfg     *models.Config
	log     *logrus.Entry
	metrics *observability.Metrics
	ui      *ui.UI
	stage   string
	start   time.Time
}

// prepare loads and validates the configuration for stage and builds the
// logger, metrics and terminal output.
func prepare(cmd *cobra.Command, stage config.Stage, metricStage string) (*runContext, error) {
	out := ui.NewUI(verbose, quiet)
	out.Out = cmd.OutOrStdout()

	v := config.NewViper()
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		v.Set("log.format", logFormat)
	}

	cfg, err := config.LoadWith(v, cfgFile)
	if err != nil {
		return nil, reportError(out, nil, err)
	}
	if err := config.ResolvePassword(cfg, secretStore); err != nil {
		return nil, reportError(out, nil, err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err := observability.NewLogger(observability.LoggerConfig{
		Level:   level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		Service: "imc",
		Version: Version,
	})
	if err != nil {
		return nil, reportError(out, nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "Invalid log settings"))
	}
	log = log.WithField("stage", metricStage)

	if err := config.Validate(cfg, stage); err != nil {
		return nil, reportError(out, log, err)
	}

	return &runContext{
		cfg:     cfg,
		log:     log,
		metrics: observability.NewMetrics(),
		ui:      out,
		stage:   metricStage,
		start:   time.Now(),
	}, nil
}

// finish records the run metrics, writes the textfile and reports err.
func (rc *runContext) finish(err error) error {
	rc.metrics.Finish(rc.stage, rc.start, err)
	if werr := rc.metrics.WriteTextfile(rc.cfg.Metrics.Textfile); werr != nil {
		rc.log.WithError(werr).WithField("path", rc.cfg.Metrics.Textfile).Warn("Failed to write metrics textfile")
	}
	if err != nil {
		return reportError(rc.ui, rc.log, err)
	}
	rc.log.WithField("duration", time.Since(rc.start).String()).Info("Run finished")
	return nil
}

// connect opens the warehouse with a spinner on interactive terminals.
func (rc *runContext) connect(ctx context.Context) (warehouse, error) {
	rc.ui.StartProgress("Connecting to Snowflake...")
	store, err := newWarehouse(ctx, rc.cfg.Snowflake, rc.log)
	if err != nil {
		rc.ui.StopProgress(false, "Connection failed")
		return nil, err
	}
	rc.ui.StopProgress(true, fmt.Sprintf("Connected to Snowflake (%s.%s)", rc.cfg.Snowflake.Database, rc.cfg.Snowflake.Schema))
	return store, nil
}

// reportError logs err with its classification and prints it. The returned
// error is err itself so cobra propagates the failure.
func reportError(out *ui.UI, log *logrus.Entry, err error) error {
	if log != nil {
		entry := apperrors.Entry(err)
		log.WithFields(logrus.Fields(entry.Fields())).Error(entry.Message)
	}
	out.Error(err)
	return err
}

func closeQuietly(c io.Closer, log *logrus.Entry) {
	if err := c.Close(); err != nil {
		log.WithError(err).Warn("Failed to close connection")
	}
}
