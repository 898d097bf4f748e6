package cmd

import (
	"fmt"
	"strings"

	"github.com/Ever-fnf/imc/internal/config"
	"github.com/Ever-fnf/imc/internal/ui"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [stage...]",
	Short: "Check the configuration for the given stages (default: all)",
	Long: `Check that everything the given stages need is configured.
Stages: ingest, report, export-tabs.`,
	ValidArgs: []string{string(config.StageIngest), string(config.StageReport), string(config.StageExportTabs)},
	Args:      cobra.OnlyValidArgs,
	RunE:      runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func loadForInspection(cmd *cobra.Command) (*models.Config, *ui.UI, error) {
	out := ui.NewUI(verbose, quiet)
	out.Out = cmd.OutOrStdout()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, out, reportError(out, nil, err)
	}
	if err := config.ResolvePassword(cfg, secretStore); err != nil {
		return nil, out, reportError(out, nil, err)
	}
	return cfg, out, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, out, err := loadForInspection(cmd)
	if err != nil {
		return err
	}

	masked := *cfg
	masked.Snowflake.Password = mask(cfg.Snowflake.Password)
	masked.Sheets.CredentialsJSON = mask(cfg.Sheets.CredentialsJSON)

	data, err := yaml.Marshal(&masked)
	if err != nil {
		return reportError(out, nil, fmt.Errorf("failed to encode configuration: %w", err))
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, out, err := loadForInspection(cmd)
	if err != nil {
		return err
	}

	stages := []config.Stage{config.StageIngest, config.StageReport, config.StageExportTabs}
	if len(args) > 0 {
		stages = stages[:0]
		for _, a := range args {
			stages = append(stages, config.Stage(a))
		}
	}

	var failed []string
	for _, stage := range stages {
		if err := config.Validate(cfg, stage); err != nil {
			out.Warning(fmt.Sprintf("%s: %s", stage, firstLine(err.Error())))
			failed = append(failed, string(stage))
			continue
		}
		out.Success(fmt.Sprintf("%s: ok", stage))
	}

	if len(failed) > 0 {
		return fmt.Errorf("configuration incomplete for %s", strings.Join(failed, ", "))
	}
	return nil
}

// mask keeps only whether a secret is set.
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
