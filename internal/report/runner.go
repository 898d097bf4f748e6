// Package report recomputes promotion performance from warehouse sales and
// writes the enriched plans as JSON.
package report

import (
	"context"
	"fmt"

	"github.com/Ever-fnf/imc/internal/observability"
	"github.com/Ever-fnf/imc/internal/snowflake"
	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/sirupsen/logrus"
)

// Writer persists the report document.
type Writer interface {
	Write(path string, v interface{}) error
}

// Runner executes the reporting stage.
type Runner struct {
	Store   snowflake.Store
	Writer  Writer
	Log     *logrus.Entry
	Metrics *observability.Metrics
}

// PlanQuery selects every promotion plan.
func PlanQuery(table string) string {
	return fmt.Sprintf("SELECT * FROM %s", table)
}

// SalesQuery selects daily sales with the date rendered as text.
func SalesQuery(table string) string {
	return fmt.Sprintf("SELECT TO_VARCHAR(SALE_DATE, 'YYYY-MM-DD') AS SD, BRAND, CHANNEL, REVENUE FROM %s", table)
}

// Run queries plans and sales, computes performance and writes cfg.Report.Output.
// In strict mode a run with skipped promotions fails after the file is written.
func (r *Runner) Run(ctx context.Context, cfg *models.Config) (*Result, error) {
	log := r.Log
	if log == nil {
		log = observability.Discard()
	}

	for _, table := range []string{cfg.Report.PlanTable, cfg.Report.SalesTable} {
		if !snowflake.ValidIdentifier(table) {
			return nil, apperrors.ConfigError(fmt.Sprintf("invalid table name %q", table), "report")
		}
	}

	planRS, err := r.Store.Query(ctx, PlanQuery(cfg.Report.PlanTable))
	if err != nil {
		return nil, err
	}
	salesRS, err := r.Store.Query(ctx, SalesQuery(cfg.Report.SalesTable))
	if err != nil {
		return nil, err
	}

	sales, err := SalesFromRows(salesRS)
	if err != nil {
		return nil, err
	}
	idx, err := BuildSalesIndex(sales)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"plans":      len(planRS.Rows),
		"sales_rows": len(sales),
		"sales_keys": len(idx),
	}).Debug("Loaded plans and sales")

	result := CalculateAll(planRS.Records(), idx)
	if result.Plans == nil {
		result.Plans = []*models.Record{}
	}
	for _, n := range result.Notices {
		entry := log.WithFields(logrus.Fields{"promotion": n.Promotion, "field": n.Field})
		if n.Err != nil {
			entry = entry.WithError(n.Err)
		}
		if n.Skipped {
			entry.Warn("Skipping promotion with invalid dates")
		} else {
			entry.Warn("Goal sales set to 0")
		}
	}

	for _, plan := range result.Plans {
		for _, col := range plan.Columns() {
			v, _ := plan.Get(col)
			plan.Set(col, Normalize(v))
		}
	}

	if err := r.Writer.Write(cfg.Report.Output, result.Plans); err != nil {
		return nil, err
	}

	skipped := result.Skipped()
	if r.Metrics != nil {
		r.Metrics.Promotions(len(result.Plans), skipped)
		r.Metrics.RowsLoaded(observability.StageReport, cfg.Report.Output, len(result.Plans))
	}
	log.WithFields(logrus.Fields{
		"output":    cfg.Report.Output,
		"processed": len(result.Plans),
		"skipped":   skipped,
	}).Info("Report written")

	if cfg.Report.Strict && skipped > 0 {
		return &result, apperrors.New(apperrors.ErrCodePartialRun,
			fmt.Sprintf("%d of %d promotions skipped", skipped, len(result.Plans))).
			WithContext("output", cfg.Report.Output).
			WithSuggestions("Fix the START_DATE/END_DATE values of the skipped promotions")
	}
	return &result, nil
}
