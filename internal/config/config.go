package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ever-fnf/imc/internal/common"
	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override, e.g. IMC_SNOWFLAKE_ACCOUNT.
	EnvPrefix = "IMC"
	// ConfigEnvVar points at an explicit config file.
	ConfigEnvVar = "IMC_CONFIG"
)

// Legacy environment variables the scheduled jobs already export.
const (
	legacyEnvUser       = "SF_USER"
	legacyEnvPassword   = "SF_PASSWORD"
	legacyEnvGoogleJSON = "GOOGLE_JSON_KEY"
)

// Stage selects which settings Validate requires.
type Stage string

const (
	StageIngest     Stage = "ingest"
	StageReport     Stage = "report"
	StageExportTabs Stage = "export-tabs"
)

func GetConfigPath() string {
	if configFile := os.Getenv(ConfigEnvVar); configFile != "" {
		return filepath.Dir(configFile)
	}
	return common.ConfigDir()
}

func GetConfigFile() string {
	if configFile := os.Getenv(ConfigEnvVar); configFile != "" {
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.plan_tab", "ever_테스트중2")
	v.SetDefault("sheets.header_row", 2)
	v.SetDefault("sheets.data_start_row", 7)
	v.SetDefault("sheets.identity_header", "브랜드")
	v.SetDefault("sheets.credentials_json", "")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.export_tabs", []map[string]interface{}{
		{"tab": "2. 월별 목표 매출 관리 시트", "output": "monthly_goals.json"},
		{"tab": "3. imc/공휴일 일정 관리 시트(자사몰)", "output": "calendar_issues.json"},
	})

	v.SetDefault("snowflake.account", "")
	v.SetDefault("snowflake.username", "")
	v.SetDefault("snowflake.password", "")
	v.SetDefault("snowflake.role", "")
	v.SetDefault("snowflake.warehouse", "")
	v.SetDefault("snowflake.database", "")
	v.SetDefault("snowflake.schema", "")
	v.SetDefault("snowflake.timeout", 60*time.Second)

	v.SetDefault("ingest.target_table", "PROMOTION_PLAN")
	v.SetDefault("ingest.batch_size", 500)

	v.SetDefault("report.plan_table", "PROMOTION_PLAN")
	v.SetDefault("report.sales_table", "DAILY_CHANNEL_SALES")
	v.SetDefault("report.output", "data.json")
	v.SetDefault("report.strict", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.textfile", "")
}

// NewViper returns a viper instance with defaults and environment bindings.
// Callers may bind command flags onto it before calling LoadWith.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("snowflake.username", "IMC_SNOWFLAKE_USERNAME", legacyEnvUser)
	_ = v.BindEnv("snowflake.password", "IMC_SNOWFLAKE_PASSWORD", legacyEnvPassword)
	_ = v.BindEnv("sheets.credentials_json", "IMC_SHEETS_CREDENTIALS_JSON", legacyEnvGoogleJSON)

	return v
}

// Load builds the run configuration from the config file (if any) and the environment.
// An empty path searches ./config.yaml and $HOME/.imc/config.yaml; a missing file
// in the search path is fine, a missing explicit file is not.
func Load(path string) (*models.Config, error) {
	return LoadWith(NewViper(), path)
}

// LoadWith is Load on a caller-supplied viper instance.
func LoadWith(v *viper.Viper, path string) (*models.Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}

	if path != "" {
		cleaned, err := common.CleanPath(path)
		if err != nil {
			return nil, apperrors.ConfigError(fmt.Sprintf("invalid config file path: %v", err), "config")
		}
		v.SetConfigFile(cleaned)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := common.ConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to read config file").
				WithContext("file", v.ConfigFileUsed())
		}
	}

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to decode configuration")
	}
	return &cfg, nil
}

// Validate checks that everything the given stage needs is present.
func Validate(cfg *models.Config, stage Stage) error {
	var needSheets, needSnowflake bool
	switch stage {
	case StageIngest:
		needSheets, needSnowflake = true, true
	case StageReport:
		needSnowflake = true
	case StageExportTabs:
		needSheets = true
	default:
		return apperrors.ConfigError(fmt.Sprintf("unknown stage %q", stage), "stage")
	}

	if needSheets {
		if err := validateSheets(cfg.Sheets); err != nil {
			return err
		}
	}
	if needSnowflake {
		if err := validateSnowflake(cfg.Snowflake); err != nil {
			return err
		}
	}

	switch stage {
	case StageIngest:
		if cfg.Sheets.PlanTab == "" {
			return apperrors.MissingConfig("sheets.plan_tab")
		}
		if cfg.Sheets.HeaderRow < 1 {
			return apperrors.ConfigError("header_row must be 1 or greater", "sheets.header_row")
		}
		if cfg.Sheets.DataStartRow <= cfg.Sheets.HeaderRow {
			return apperrors.ConfigError("data_start_row must come after header_row", "sheets.data_start_row")
		}
		if cfg.Ingest.TargetTable == "" {
			return apperrors.MissingConfig("ingest.target_table")
		}
		if cfg.Ingest.BatchSize < 1 {
			return apperrors.ConfigError("batch_size must be positive", "ingest.batch_size")
		}
	case StageReport:
		if cfg.Report.PlanTable == "" {
			return apperrors.MissingConfig("report.plan_table")
		}
		if cfg.Report.SalesTable == "" {
			return apperrors.MissingConfig("report.sales_table")
		}
		if cfg.Report.Output == "" {
			return apperrors.MissingConfig("report.output")
		}
	case StageExportTabs:
		if len(cfg.Sheets.ExportTabs) == 0 {
			return apperrors.MissingConfig("sheets.export_tabs")
		}
		for i, tab := range cfg.Sheets.ExportTabs {
			if tab.Tab == "" || tab.Output == "" {
				return apperrors.ConfigError(fmt.Sprintf("export_tabs[%d] needs both tab and output", i), "sheets.export_tabs")
			}
		}
	}
	return nil
}

func validateSheets(s models.Sheets) error {
	if s.SpreadsheetID == "" {
		return apperrors.MissingConfig("sheets.spreadsheet_id")
	}
	if s.CredentialsJSON == "" && s.CredentialsFile == "" {
		return apperrors.MissingConfig("sheets.credentials_json or sheets.credentials_file")
	}
	return nil
}

func validateSnowflake(s models.Snowflake) error {
	required := []struct {
		field string
		value string
	}{
		{"snowflake.account", s.Account},
		{"snowflake.username", s.Username},
		{"snowflake.password", s.Password},
		{"snowflake.warehouse", s.Warehouse},
		{"snowflake.database", s.Database},
		{"snowflake.schema", s.Schema},
	}
	for _, r := range required {
		if r.value == "" {
			return apperrors.MissingConfig(r.field)
		}
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed.
// An empty path writes to GetConfigFile().
func Save(config *models.Config, path string) error {
	if path == "" {
		path = GetConfigFile()
	}
	cleaned, err := common.CleanPath(path)
	if err != nil {
		return apperrors.ConfigError(fmt.Sprintf("invalid config file path: %v", err), "config")
	}

	if err := os.MkdirAll(filepath.Dir(cleaned), common.DirPermissionSecure); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cleaned, data, common.FilePermissionSecure); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}
