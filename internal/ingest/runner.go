package ingest

import (
	"context"
	"errors"

	"github.com/Ever-fnf/imc/internal/observability"
	"github.com/Ever-fnf/imc/internal/sheets"
	"github.com/Ever-fnf/imc/internal/snowflake"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Runner executes the ingest stage.
type Runner struct {
	Source  sheets.Source
	Store   snowflake.Store
	Log     *logrus.Entry
	Metrics *observability.Metrics
}

// Result summarizes an ingest run.
type Result struct {
	Table    string
	Rows     int64
	Dropped  int
	Warnings int
	NoData   bool
}

// Run reads the plan tab, reshapes it and replaces the target table.
func (r *Runner) Run(ctx context.Context, cfg *models.Config) (*Result, error) {
	log := r.Log
	if log == nil {
		log = observability.Discard()
	}
	table := cfg.Ingest.TargetTable
	log = log.WithFields(logrus.Fields{"tab": cfg.Sheets.PlanTab, "table": table})

	values, err := r.Source.Values(ctx, cfg.Sheets.PlanTab)
	if err != nil {
		return nil, err
	}

	batch, err := Reshape(values, LayoutFromConfig(cfg.Sheets))
	if errors.Is(err, ErrNoData) {
		log.Warn("No data in plan tab, warehouse left untouched")
		return &Result{Table: table, NoData: true}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, w := range batch.Warnings {
		log.WithError(w).Warn("Goal sales set to 0")
	}
	if batch.Dropped > 0 {
		log.WithField("dropped", batch.Dropped).Debug("Dropped rows without identity value")
	}

	rows := lo.Map(batch.Plans, func(p models.PromotionPlan, _ int) []interface{} {
		return p.Values()
	})

	loaded, err := r.Store.ReplaceTable(ctx, table, models.PlanColumns, rows, cfg.Ingest.BatchSize)
	if err != nil {
		return nil, err
	}

	if r.Metrics != nil {
		r.Metrics.RowsLoaded(observability.StageIngest, table, int(loaded))
	}
	log.WithField("rows", loaded).Info("Plan table loaded")

	return &Result{
		Table:    table,
		Rows:     loaded,
		Dropped:  batch.Dropped,
		Warnings: len(batch.Warnings),
	}, nil
}
