package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Ever-fnf/imc/internal/observability"
	"github.com/Ever-fnf/imc/pkg/errors"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/snowflakedb/gosnowflake"
)

// Store is the warehouse surface used by the ingest and report stages.
type Store interface {
	Query(ctx context.Context, query string) (*ResultSet, error)
	ReplaceTable(ctx context.Context, table string, columns []models.Column, rows [][]interface{}, batchSize int) (int64, error)
}

// Service provides Snowflake database operations over a single connection.
type Service struct {
	db        *sql.DB
	config    Config
	connected bool
	log       *logrus.Entry
}

// Config holds Snowflake connection configuration
type Config struct {
	Account   string
	Username  string
	Password  string
	Database  string
	Schema    string
	Warehouse string
	Role      string
	Timeout   time.Duration
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$.]*$`)

// ConfigFromModel converts the loaded configuration section.
func ConfigFromModel(m models.Snowflake) Config {
	return Config{
		Account:   m.Account,
		Username:  m.Username,
		Password:  m.Password,
		Database:  m.Database,
		Schema:    m.Schema,
		Warehouse: m.Warehouse,
		Role:      m.Role,
		Timeout:   m.Timeout,
	}
}

// DSN builds the driver connection string.
func (c Config) DSN() (string, error) {
	sfConfig := gosnowflake.Config{
		Account:      c.Account,
		User:         c.Username,
		Password:     c.Password,
		Database:     c.Database,
		Schema:       c.Schema,
		Warehouse:    c.Warehouse,
		Role:         c.Role,
		LoginTimeout: c.Timeout,
	}
	return gosnowflake.DSN(&sfConfig)
}

// ValidateConfig validates the Snowflake configuration. Role is optional.
func ValidateConfig(config Config) error {
	if config.Account == "" {
		return fmt.Errorf("account is required")
	}
	if config.Username == "" {
		return fmt.Errorf("username is required")
	}
	if config.Password == "" {
		return fmt.Errorf("password is required")
	}
	if config.Warehouse == "" {
		return fmt.Errorf("warehouse is required")
	}
	if config.Database == "" {
		return fmt.Errorf("database is required")
	}
	if config.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	return nil
}

// NewService creates a new Snowflake service
func NewService(config Config, log *logrus.Entry) *Service {
	if log == nil {
		log = observability.Discard()
	}
	return &Service{
		config: config,
		log:    log.WithField("component", "snowflake"),
	}
}

// Connect opens the connection and pings it. There is no retry: a failed
// connect aborts the run.
func (s *Service) Connect(ctx context.Context) error {
	if s.connected {
		return nil
	}

	if err := ValidateConfig(s.config); err != nil {
		return errors.ConfigError(err.Error(), "snowflake")
	}

	dsn, err := s.config.DSN()
	if err != nil {
		return errors.ConnectionError("Failed to build Snowflake DSN", err).
			WithContext("account", s.config.Account)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return errors.ConnectionError("Failed to open Snowflake connection", err).
			WithContext("account", s.config.Account).
			WithContext("warehouse", s.config.Warehouse)
	}

	// One run, one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()

		if strings.Contains(strings.ToLower(err.Error()), "authentication") ||
			strings.Contains(strings.ToLower(err.Error()), "incorrect username or password") {
			appErr := errors.New(errors.ErrCodeAuthenticationFailed, "Authentication failed").
				WithContext("user", s.config.Username).
				WithSuggestions(
					"Verify your username and password",
					"Check if your account is locked",
				)
			appErr.Cause = err
			return appErr
		}

		return errors.ConnectionError("Failed to connect to Snowflake", err).
			WithContext("account", s.config.Account)
	}

	s.db = db
	s.connected = true
	s.log.WithFields(logrus.Fields{
		"account":   s.config.Account,
		"warehouse": s.config.Warehouse,
		"database":  s.config.Database,
		"schema":    s.config.Schema,
	}).Debug("Connected to Snowflake")
	return nil
}

// Close closes the database connection
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	s.connected = false
	return nil
}

// Query runs a statement and returns every row with values converted by column type.
func (s *Service) Query(ctx context.Context, query string) (*ResultSet, error) {
	if !s.connected {
		return nil, notConnected()
	}

	queryCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(queryCtx, query)
	if err != nil {
		return nil, errors.StoreReadError("Query failed", query, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.StoreReadError("Failed to read result columns", query, err)
	}

	converters, err := convertersFor(rows)
	if err != nil {
		return nil, errors.StoreReadError("Failed to read result column types", query, err)
	}

	result := &ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, errors.StoreReadError("Failed to scan row", query, err)
		}

		for i, convert := range converters {
			v, err := convert(values[i])
			if err != nil {
				return nil, errors.StoreReadError(
					fmt.Sprintf("Failed to convert column %s", columns[i]), query, err).
					WithContext("column", columns[i])
			}
			values[i] = v
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreReadError("Failed to read rows", query, err)
	}

	s.log.WithField("rows", len(result.Rows)).Debug("Query finished")
	return result, nil
}

// ReplaceTable recreates table with the given columns and loads rows into it.
// Everything happens in one transaction; on any failure nothing is committed.
func (s *Service) ReplaceTable(ctx context.Context, table string, columns []models.Column, rows [][]interface{}, batchSize int) (int64, error) {
	if !s.connected {
		return 0, notConnected()
	}
	if err := validateIdentifiers(table, columns); err != nil {
		return 0, err
	}
	if batchSize < 1 {
		batchSize = 1
	}

	txCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to begin transaction").
			WithContext("table", table)
	}

	loaded, err := s.replaceInTx(txCtx, tx, table, columns, rows, batchSize)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.WithError(rbErr).Warn("Rollback failed")
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.StoreWriteError("Failed to commit table load", table, err).
			WithContext("rows", len(rows))
	}

	s.log.WithFields(logrus.Fields{"table": table, "rows": loaded}).Info("Table replaced")
	return loaded, nil
}

func (s *Service) replaceInTx(ctx context.Context, tx *sql.Tx, table string, columns []models.Column, rows [][]interface{}, batchSize int) (int64, error) {
	ddl := createTableSQL(table, columns)
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return 0, errors.StoreWriteError("Failed to create table", table, err).
			WithContext("query", ddl)
	}

	var loaded int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		args := make([]interface{}, 0, len(batch)*len(columns))
		for i, row := range batch {
			if len(row) != len(columns) {
				return 0, errors.StoreWriteError(
					fmt.Sprintf("row %d has %d values, want %d", start+i, len(row), len(columns)), table, nil)
			}
			args = append(args, row...)
		}

		stmt := insertSQL(table, columns, len(batch))
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return 0, errors.StoreWriteError("Failed to insert rows", table, err).
				WithContext("batch_start", start).
				WithContext("batch_size", len(batch))
		}
		loaded += int64(len(batch))
	}
	return loaded, nil
}

func createTableSQL(table string, columns []models.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", col.Name, col.Type)
	}
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", table, strings.Join(defs, ", "))
}

func insertSQL(table string, columns []models.Column, rowCount int) string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	tuples := make([]string, rowCount)
	for i := range tuples {
		tuples[i] = placeholder
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, strings.Join(names, ", "), strings.Join(tuples, ", "))
}

// ValidIdentifier reports whether name is safe to interpolate as a table or column name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

func validateIdentifiers(table string, columns []models.Column) error {
	if !identifierPattern.MatchString(table) {
		return errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("invalid table name %q", table)).
			WithContext("table", table)
	}
	if len(columns) == 0 {
		return errors.StoreWriteError("no columns to load", table, nil)
	}
	for _, col := range columns {
		if !identifierPattern.MatchString(col.Name) {
			return errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("invalid column name %q", col.Name)).
				WithContext("table", table)
		}
	}
	return nil
}

func notConnected() error {
	return errors.New(errors.ErrCodeConnectionFailed, "Not connected to database").
		WithSuggestions("Call Connect() before running queries")
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
