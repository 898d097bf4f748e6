package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is a flat column -> value mapping that remembers column order.
// Warehouse rows keep their SELECT order; columns set later are appended.
type Record struct {
	columns []string
	values  map[string]interface{}
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{values: make(map[string]interface{})}
}

// RecordFromRow zips column names with a row of values.
func RecordFromRow(columns []string, row []interface{}) *Record {
	r := NewRecord()
	for i, col := range columns {
		var v interface{}
		if i < len(row) {
			v = row[i]
		}
		r.Set(col, v)
	}
	return r
}

// Get returns the value of a column and whether the column is present.
func (r *Record) Get(column string) (interface{}, bool) {
	v, ok := r.values[column]
	return v, ok
}

// String returns the column value formatted as text; nil and missing are "".
func (r *Record) String(column string) string {
	v, ok := r.values[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Set assigns a value, appending the column if it is new.
func (r *Record) Set(column string, value interface{}) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Columns returns the column names in order.
func (r *Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns
func (r *Record) Len() int {
	return len(r.columns)
}

// Map returns a copy of the values keyed by column.
func (r *Record) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var out bytes.Buffer
	out.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			out.WriteByte(',')
		}
		buf.Reset()
		if err := enc.Encode(col); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
		out.WriteByte(':')

		buf.Reset()
		if err := enc.Encode(r.values[col]); err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping the key order of the document.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	r.columns = nil
	r.values = make(map[string]interface{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return err
		}
		r.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
