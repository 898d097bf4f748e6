package models

import "time"

type Config struct {
	Sheets    Sheets    `yaml:"sheets" mapstructure:"sheets"`
	Snowflake Snowflake `yaml:"snowflake" mapstructure:"snowflake"`
	Ingest    Ingest    `yaml:"ingest" mapstructure:"ingest"`
	Report    Report    `yaml:"report" mapstructure:"report"`
	Log       Log       `yaml:"log" mapstructure:"log"`
	Metrics   Metrics   `yaml:"metrics" mapstructure:"metrics"`
}

// Sheets locates the planning spreadsheet and the service account used to read it.
type Sheets struct {
	SpreadsheetID   string      `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	PlanTab         string      `yaml:"plan_tab" mapstructure:"plan_tab"`
	HeaderRow       int         `yaml:"header_row" mapstructure:"header_row"`         // 1-based
	DataStartRow    int         `yaml:"data_start_row" mapstructure:"data_start_row"` // 1-based
	IdentityHeader  string      `yaml:"identity_header" mapstructure:"identity_header"`
	CredentialsJSON string      `yaml:"credentials_json,omitempty" mapstructure:"credentials_json"`
	CredentialsFile string      `yaml:"credentials_file,omitempty" mapstructure:"credentials_file"`
	ExportTabs      []TabExport `yaml:"export_tabs" mapstructure:"export_tabs"`
}

// TabExport maps a spreadsheet tab to a JSON file.
type TabExport struct {
	Tab    string `yaml:"tab" mapstructure:"tab"`
	Output string `yaml:"output" mapstructure:"output"`
}

type Snowflake struct {
	Account   string        `yaml:"account" mapstructure:"account"`
	Username  string        `yaml:"username" mapstructure:"username"`
	Password  string        `yaml:"password,omitempty" mapstructure:"password"`
	Role      string        `yaml:"role" mapstructure:"role"`
	Warehouse string        `yaml:"warehouse" mapstructure:"warehouse"`
	Database  string        `yaml:"database" mapstructure:"database"`
	Schema    string        `yaml:"schema" mapstructure:"schema"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type Ingest struct {
	TargetTable string `yaml:"target_table" mapstructure:"target_table"`
	BatchSize   int    `yaml:"batch_size" mapstructure:"batch_size"`
}

type Report struct {
	PlanTable  string `yaml:"plan_table" mapstructure:"plan_table"`
	SalesTable string `yaml:"sales_table" mapstructure:"sales_table"`
	Output     string `yaml:"output" mapstructure:"output"`
	Strict     bool   `yaml:"strict" mapstructure:"strict"` // fail the run when promotions are skipped
}

type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

type Metrics struct {
	Textfile string `yaml:"textfile,omitempty" mapstructure:"textfile"`
}
