package snowflake

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/shopspring/decimal"
)

// ResultSet holds a fully read query result.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

// Records returns one ordered record per row.
func (r *ResultSet) Records() []*models.Record {
	records := make([]*models.Record, len(r.Rows))
	for i, row := range r.Rows {
		records[i] = models.RecordFromRow(r.Columns, row)
	}
	return records
}

type converter func(interface{}) (interface{}, error)

func convertersFor(rows *sql.Rows) ([]converter, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	out := make([]converter, len(types))
	for i, ct := range types {
		_, scale, hasScale := ct.DecimalSize()
		out[i] = converterFor(ct.DatabaseTypeName(), scale, hasScale)
	}
	return out, nil
}

// converterFor maps a warehouse column type to a value conversion. The driver
// hands most values back as strings.
func converterFor(typeName string, scale int64, hasScale bool) converter {
	switch strings.ToUpper(typeName) {
	case "FIXED", "NUMBER", "DECIMAL", "NUMERIC", "INT", "INTEGER", "BIGINT":
		if hasScale && scale > 0 {
			return convertDecimal
		}
		return convertInteger
	case "REAL", "FLOAT", "DOUBLE":
		return convertFloat
	case "BOOLEAN":
		return convertBool
	case "DATE":
		return convertDate
	case "TEXT", "VARCHAR", "STRING":
		return convertText
	default:
		return passThrough
	}
}

func passThrough(v interface{}) (interface{}, error) {
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return v, nil
}

func convertText(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return fmt.Sprint(val), nil
	}
}

func convertInteger(v interface{}) (interface{}, error) {
	s, ok := asString(v)
	if !ok {
		return v, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Out of int64 range; keep the exact value.
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d, nil
}

func convertDecimal(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), nil
	case int64:
		return decimal.NewFromInt(val), nil
	}
	s, ok := asString(v)
	if !ok {
		return v, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d, nil
}

func convertFloat(v interface{}) (interface{}, error) {
	s, ok := asString(v)
	if !ok {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float %q: %w", s, err)
	}
	return f, nil
}

func convertBool(v interface{}) (interface{}, error) {
	s, ok := asString(v)
	if !ok {
		return v, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q: %w", s, err)
	}
	return b, nil
}

func convertDate(v interface{}) (interface{}, error) {
	s, ok := asString(v)
	if !ok {
		return v, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// asString reports whether v is textual and returns it. Non-textual values
// (already typed by the driver, or nil) are left to the caller unchanged.
func asString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return "", false
	}
}
