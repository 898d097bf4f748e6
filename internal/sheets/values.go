package sheets

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/samber/lo"
)

// PadRows extends every row with "" up to the widest row. The API drops
// trailing empty cells, so rows come back ragged.
func PadRows(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	width := lo.Max(lo.Map(rows, func(row []string, _ int) int { return len(row) }))

	out := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// ToRecords treats the first row as the header and converts each later row
// into a record. Numeric cells become int64 or float64; everything else stays text.
func ToRecords(values [][]string) ([]*models.Record, error) {
	if len(values) == 0 {
		return []*models.Record{}, nil
	}

	header := values[0]
	if dups := lo.FindDuplicates(header); len(dups) > 0 {
		return nil, fmt.Errorf("header row is not unique: %s", strings.Join(dups, ", "))
	}

	records := make([]*models.Record, 0, len(values)-1)
	for _, row := range values[1:] {
		r := models.NewRecord()
		for i, col := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			r.Set(col, Numericise(cell))
		}
		records = append(records, r)
	}
	return records, nil
}

// Numericise converts a cell to int64 or float64 when it reads as a number.
func Numericise(cell string) interface{} {
	if cell == "" {
		return ""
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return cell
}

func toStrings(values [][]interface{}) [][]string {
	return lo.Map(values, func(row []interface{}, _ int) []string {
		return lo.Map(row, func(cell interface{}, _ int) string {
			if cell == nil {
				return ""
			}
			if s, ok := cell.(string); ok {
				return s
			}
			return fmt.Sprint(cell)
		})
	})
}
