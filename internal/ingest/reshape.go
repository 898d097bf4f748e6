// Package ingest turns planning sheet rows into promotion plans and loads them
// into the warehouse.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ErrNoData means the tab has fewer than two rows; there is nothing to load.
var ErrNoData = errors.New("sheet has no data")

// Layout locates the header and data rows in the planning tab. Rows are 1-based.
type Layout struct {
	HeaderRow      int
	DataStartRow   int
	IdentityHeader string
}

// LayoutFromConfig reads the layout from the sheets configuration.
func LayoutFromConfig(cfg models.Sheets) Layout {
	return Layout{
		HeaderRow:      cfg.HeaderRow,
		DataStartRow:   cfg.DataStartRow,
		IdentityHeader: cfg.IdentityHeader,
	}
}

// Batch is the outcome of reshaping one tab.
type Batch struct {
	Plans []models.PromotionPlan
	// Dropped counts data rows with an empty identity cell.
	Dropped int
	// Warnings holds recoverable per-cell problems, e.g. an unreadable goal.
	Warnings []error
}

// Reshape maps sheet rows positionally onto the plan columns.
func Reshape(values [][]string, layout Layout) (*Batch, error) {
	if len(values) < 2 {
		return nil, ErrNoData
	}
	if layout.HeaderRow < 1 || layout.HeaderRow > len(values) {
		return nil, apperrors.New(apperrors.ErrCodeSheetLayout,
			fmt.Sprintf("header row %d is outside the sheet (%d rows)", layout.HeaderRow, len(values)))
	}

	header := values[layout.HeaderRow-1]
	width := len(models.PlanColumns)
	if len(header) < width {
		return nil, apperrors.New(apperrors.ErrCodeSheetLayout,
			fmt.Sprintf("header row has %d columns, want at least %d", len(header), width)).
			WithContext("header_row", layout.HeaderRow).
			WithSuggestions("Check that the planning tab still has the expected columns")
	}

	identity := lo.IndexOf(header, layout.IdentityHeader)
	if identity < 0 {
		identity = 0
	}

	var data [][]string
	if start := layout.DataStartRow - 1; start < len(values) {
		data = values[start:]
	}

	batch := &Batch{Plans: make([]models.PromotionPlan, 0, len(data))}
	for i, row := range data {
		if cell(row, identity) == "" {
			batch.Dropped++
			continue
		}

		goal, err := ParseGoal(cell(row, 13))
		if err != nil {
			batch.Warnings = append(batch.Warnings,
				apperrors.ValidationError(models.ColGoalSales, cell(row, 13), err.Error()).
					WithContext("row", layout.DataStartRow+i))
		}

		batch.Plans = append(batch.Plans, models.PromotionPlan{
			Brand:         cell(row, 0),
			Channel:       cell(row, 1),
			Division:      cell(row, 2),
			PromoType:     cell(row, 3),
			IsExclusive:   ParseFlag(cell(row, 4)),
			PromoName:     cell(row, 5),
			StartDate:     cell(row, 6),
			EndDate:       cell(row, 7),
			Status:        cell(row, 8),
			Slot:          cell(row, 9),
			ImageURL:      cell(row, 10),
			BenefitType:   cell(row, 11),
			BenefitDetail: cell(row, 12),
			GoalSales:     goal,
			MDComment:     cell(row, 14),
		})
	}
	return batch, nil
}

var (
	minGoal = decimal.NewFromInt(math.MinInt64)
	maxGoal = decimal.NewFromInt(math.MaxInt64)
)

// ParseGoal reads a goal revenue cell. Thousands separators are ignored,
// blank is 0 and fractions are truncated. An unreadable value yields 0 and an error.
func ParseGoal(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	d = d.Truncate(0)
	if d.LessThan(minGoal) || d.GreaterThan(maxGoal) {
		return 0, fmt.Errorf("%s overflows int64", s)
	}
	return d.IntPart(), nil
}

// ParseFlag is true only for the text TRUE, in any case.
func ParseFlag(s string) bool {
	return strings.ToUpper(s) == "TRUE"
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
