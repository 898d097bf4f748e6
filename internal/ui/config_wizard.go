package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/Ever-fnf/imc/pkg/models"
)

// ErrCancelled is returned when the user aborts the wizard.
var ErrCancelled = errors.New("configuration cancelled")

// Asker runs survey prompts. The default implementation talks to the terminal.
type Asker interface {
	Ask(qs []*survey.Question, response interface{}) error
	AskOne(p survey.Prompt, response interface{}) error
}

type surveyAsker struct{}

func (surveyAsker) Ask(qs []*survey.Question, response interface{}) error {
	return survey.Ask(qs, response)
}

func (surveyAsker) AskOne(p survey.Prompt, response interface{}) error {
	return survey.AskOne(p, response)
}

// ConfigWizard provides an interactive configuration setup
type ConfigWizard struct {
	Asker       Asker
	Out         io.Writer
	currentStep int
	totalSteps  int
}

// WizardResult holds the collected configuration. The warehouse password is
// kept apart from Config so it can go to the OS keyring instead of the file.
type WizardResult struct {
	Config   *models.Config
	Password string
}

// NewConfigWizard creates a new configuration wizard
func NewConfigWizard() *ConfigWizard {
	return &ConfigWizard{
		Asker:       surveyAsker{},
		Out:         os.Stdout,
		currentStep: 1,
		totalSteps:  4,
	}
}

// Run walks through every step, starting from base for default answers.
func (w *ConfigWizard) Run(base *models.Config) (*WizardResult, error) {
	w.header("imc - Configuration Setup")

	config := *base
	config.Sheets.ExportTabs = append([]models.TabExport(nil), base.Sheets.ExportTabs...)
	result := &WizardResult{Config: &config}

	steps := []func(*WizardResult) error{
		w.configureSheetsStep,
		w.configureSnowflakeStep,
		w.configureTablesStep,
		w.reviewConfiguration,
	}
	for _, step := range steps {
		if err := step(result); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil, ErrCancelled
			}
			return nil, err
		}
	}

	result.Config.Snowflake.Password = ""
	return result, nil
}

func (w *ConfigWizard) configureSheetsStep(result *WizardResult) error {
	w.showProgress("Google Sheets")
	cfg := &result.Config.Sheets

	questions := []*survey.Question{
		{
			Name: "spreadsheet",
			Prompt: &survey.Input{
				Message: "Spreadsheet ID:",
				Default: cfg.SpreadsheetID,
				Help:    "The long identifier in the spreadsheet URL, between /d/ and /edit",
			},
			Validate: survey.Required,
		},
		{
			Name: "plantab",
			Prompt: &survey.Input{
				Message: "Plan tab:",
				Default: cfg.PlanTab,
				Help:    "Worksheet holding the promotion plan",
			},
			Validate: survey.Required,
		},
		{
			Name: "headerrow",
			Prompt: &survey.Input{
				Message: "Header row:",
				Default: strconv.Itoa(cfg.HeaderRow),
				Help:    "1-based row that holds the column headers",
			},
			Validate: positiveInt,
		},
		{
			Name: "datastartrow",
			Prompt: &survey.Input{
				Message: "First data row:",
				Default: strconv.Itoa(cfg.DataStartRow),
				Help:    "1-based row where promotion rows begin",
			},
			Validate: positiveInt,
		},
		{
			Name: "credentials",
			Prompt: &survey.Input{
				Message: "Service account key file:",
				Default: cfg.CredentialsFile,
				Help:    "Path to the JSON key; leave empty to use GOOGLE_JSON_KEY",
			},
		},
	}

	answers := struct {
		Spreadsheet  string
		PlanTab      string
		HeaderRow    string
		DataStartRow string
		Credentials  string
	}{}

	if err := w.Asker.Ask(questions, &answers); err != nil {
		return err
	}

	headerRow, _ := strconv.Atoi(strings.TrimSpace(answers.HeaderRow))
	dataStartRow, _ := strconv.Atoi(strings.TrimSpace(answers.DataStartRow))
	if dataStartRow <= headerRow {
		return fmt.Errorf("first data row (%d) must come after the header row (%d)", dataStartRow, headerRow)
	}

	cfg.SpreadsheetID = strings.TrimSpace(answers.Spreadsheet)
	cfg.PlanTab = answers.PlanTab
	cfg.HeaderRow = headerRow
	cfg.DataStartRow = dataStartRow
	cfg.CredentialsFile = strings.TrimSpace(answers.Credentials)

	w.currentStep++
	return nil
}

func (w *ConfigWizard) configureSnowflakeStep(result *WizardResult) error {
	w.showProgress("Snowflake Connection")
	cfg := &result.Config.Snowflake

	questions := []*survey.Question{
		{
			Name: "account",
			Prompt: &survey.Input{
				Message: "Snowflake Account:",
				Default: cfg.Account,
				Help:    "Your Snowflake account identifier (e.g., xy12345.ap-northeast-2.aws)",
			},
			Validate: survey.Required,
		},
		{
			Name: "username",
			Prompt: &survey.Input{
				Message: "Username:",
				Default: cfg.Username,
			},
			Validate: survey.Required,
		},
		{
			Name: "password",
			Prompt: &survey.Password{
				Message: "Password:",
				Help:    "Stored in the OS keyring, never in the config file",
			},
			Validate: survey.Required,
		},
		{
			Name: "role",
			Prompt: &survey.Input{
				Message: "Role:",
				Default: cfg.Role,
				Help:    "Leave empty to use the user's default role",
			},
		},
		{
			Name: "warehouse",
			Prompt: &survey.Input{
				Message: "Warehouse:",
				Default: withDefault(cfg.Warehouse, "COMPUTE_WH"),
			},
			Validate: survey.Required,
		},
		{
			Name: "database",
			Prompt: &survey.Input{
				Message: "Database:",
				Default: cfg.Database,
			},
			Validate: survey.Required,
		},
		{
			Name: "schema",
			Prompt: &survey.Input{
				Message: "Schema:",
				Default: withDefault(cfg.Schema, "PUBLIC"),
			},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Account   string
		Username  string
		Password  string
		Role      string
		Warehouse string
		Database  string
		Schema    string
	}{}

	if err := w.Asker.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.Account = answers.Account
	cfg.Username = answers.Username
	cfg.Role = answers.Role
	cfg.Warehouse = answers.Warehouse
	cfg.Database = answers.Database
	cfg.Schema = answers.Schema
	result.Password = answers.Password

	w.currentStep++
	return nil
}

func (w *ConfigWizard) configureTablesStep(result *WizardResult) error {
	w.showProgress("Tables and Output")
	cfg := result.Config

	questions := []*survey.Question{
		{
			Name: "plantable",
			Prompt: &survey.Input{
				Message: "Plan table:",
				Default: cfg.Ingest.TargetTable,
				Help:    "Replaced on every ingest run and read by the report",
			},
			Validate: survey.Required,
		},
		{
			Name: "salestable",
			Prompt: &survey.Input{
				Message: "Daily sales table:",
				Default: cfg.Report.SalesTable,
			},
			Validate: survey.Required,
		},
		{
			Name: "output",
			Prompt: &survey.Input{
				Message: "Report output file:",
				Default: cfg.Report.Output,
			},
			Validate: survey.Required,
		},
	}

	answers := struct {
		PlanTable  string
		SalesTable string
		Output     string
	}{}

	if err := w.Asker.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.Ingest.TargetTable = strings.ToUpper(answers.PlanTable)
	cfg.Report.PlanTable = cfg.Ingest.TargetTable
	cfg.Report.SalesTable = strings.ToUpper(answers.SalesTable)
	cfg.Report.Output = answers.Output

	w.currentStep++
	return nil
}

func (w *ConfigWizard) reviewConfiguration(result *WizardResult) error {
	w.showProgress("Review Configuration")
	cfg := result.Config

	fmt.Fprintln(w.Out, "\n"+ColorInfo("Configuration Summary:"))
	fmt.Fprintln(w.Out, strings.Repeat("─", 50))

	fmt.Fprintln(w.Out, ColorBold("\nGoogle Sheets:"))
	fmt.Fprintf(w.Out, "  Spreadsheet: %s\n", cfg.Sheets.SpreadsheetID)
	fmt.Fprintf(w.Out, "  Plan tab:    %s (header row %d, data from row %d)\n",
		cfg.Sheets.PlanTab, cfg.Sheets.HeaderRow, cfg.Sheets.DataStartRow)

	fmt.Fprintln(w.Out, ColorBold("\nSnowflake:"))
	fmt.Fprintf(w.Out, "  Account:   %s\n", cfg.Snowflake.Account)
	fmt.Fprintf(w.Out, "  Username:  %s\n", cfg.Snowflake.Username)
	fmt.Fprintf(w.Out, "  Warehouse: %s\n", cfg.Snowflake.Warehouse)
	fmt.Fprintf(w.Out, "  Location:  %s.%s\n", cfg.Snowflake.Database, cfg.Snowflake.Schema)

	fmt.Fprintln(w.Out, ColorBold("\nTables:"))
	fmt.Fprintf(w.Out, "  Plan:   %s\n", cfg.Ingest.TargetTable)
	fmt.Fprintf(w.Out, "  Sales:  %s\n", cfg.Report.SalesTable)
	fmt.Fprintf(w.Out, "  Output: %s\n", cfg.Report.Output)

	fmt.Fprintln(w.Out, strings.Repeat("─", 50))

	confirm := false
	prompt := &survey.Confirm{
		Message: "Save this configuration?",
		Default: true,
	}

	if err := w.Asker.AskOne(prompt, &confirm); err != nil {
		return err
	}

	if !confirm {
		return ErrCancelled
	}

	return nil
}

func (w *ConfigWizard) header(title string) {
	(&UI{Out: w.Out}).Header(title)
}

func (w *ConfigWizard) showProgress(step string) {
	fmt.Fprintf(w.Out, "\n%s [Step %d/%d] %s\n\n",
		ColorProgress("►"),
		w.currentStep,
		w.totalSteps,
		ColorBold(step),
	)
}

func positiveInt(val interface{}) error {
	s, ok := val.(string)
	if !ok {
		return fmt.Errorf("expected text input")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number of 1 or more")
	}
	return nil
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
