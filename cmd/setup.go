package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/Ever-fnf/imc/internal/config"
	"github.com/Ever-fnf/imc/internal/ui"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

// Hooks replaced by tests.
var (
	newWizard = ui.NewConfigWizard

	confirmOverwrite = func(path string) (bool, error) {
		overwrite := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s already exists. Overwrite it?", path),
			Default: false,
		}
		err := survey.AskOne(prompt, &overwrite)
		return overwrite, err
	}
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	out := ui.NewUI(verbose, quiet)
	out.Out = cmd.OutOrStdout()

	path := cfgFile
	if path == "" {
		path = config.GetConfigFile()
	}

	base, err := config.Load(path)
	if err != nil {
		// Missing or unreadable file: start from the defaults.
		base, err = config.LoadWith(config.NewViper(), "")
		if err != nil {
			return reportError(out, nil, err)
		}
	}

	if fileExists(path) {
		overwrite, err := confirmOverwrite(path)
		if err != nil {
			return reportError(out, nil, err)
		}
		if !overwrite {
			out.Info("Setup cancelled.")
			return nil
		}
	}

	wizard := newWizard()
	wizard.Out = out.Out
	result, err := wizard.Run(base)
	if errors.Is(err, ui.ErrCancelled) {
		out.Info("Setup cancelled.")
		return nil
	}
	if err != nil {
		return reportError(out, nil, err)
	}

	if err := config.Save(result.Config, path); err != nil {
		return reportError(out, nil, err)
	}
	out.Success("Configuration saved to " + path)

	user := result.Config.Snowflake.Username
	if err := config.StorePassword(secretStore, user, result.Password); err != nil {
		out.Warning(fmt.Sprintf("Could not store the password in the OS keyring: %v", err))
		out.Info("Export SF_PASSWORD before running imc instead.")
	} else {
		out.Success(fmt.Sprintf("Password for %s stored in the OS keyring", user))
	}

	out.Printf("\nNext steps:\n")
	out.Printf("  imc config validate\n")
	out.Printf("  imc ingest && imc report\n")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
