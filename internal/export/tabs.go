// Package export copies auxiliary spreadsheet tabs to JSON files.
package export

import (
	"context"
	"errors"

	"github.com/Ever-fnf/imc/internal/observability"
	"github.com/Ever-fnf/imc/internal/sheets"
	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/sirupsen/logrus"
)

// Writer persists one exported tab.
type Writer interface {
	Write(path string, v interface{}) error
}

// Runner exports every configured tab.
type Runner struct {
	Source  sheets.Source
	Writer  Writer
	Log     *logrus.Entry
	Metrics *observability.Metrics

	// Progress, when set, is called after each tab with the number of tabs done.
	Progress func(done int, result TabResult)
}

// TabResult is the outcome for one tab.
type TabResult struct {
	Tab     string
	Output  string
	Records int
	Missing bool
}

// Run exports cfg.Sheets.ExportTabs in order. A tab that does not exist is
// logged and skipped; any other failure stops the run.
func (r *Runner) Run(ctx context.Context, cfg *models.Config) ([]TabResult, error) {
	log := r.Log
	if log == nil {
		log = observability.Discard()
	}

	results := make([]TabResult, 0, len(cfg.Sheets.ExportTabs))
	for _, tab := range cfg.Sheets.ExportTabs {
		entry := log.WithFields(logrus.Fields{"tab": tab.Tab, "output": tab.Output})

		records, err := r.Source.Records(ctx, tab.Tab)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeTabNotFound {
				entry.Warn("Tab not found, skipping")
				results = r.record(results, TabResult{Tab: tab.Tab, Output: tab.Output, Missing: true})
				continue
			}
			return results, err
		}

		if err := r.Writer.Write(tab.Output, records); err != nil {
			return results, err
		}
		if r.Metrics != nil {
			r.Metrics.RowsLoaded(observability.StageExportTabs, tab.Output, len(records))
		}
		entry.WithField("records", len(records)).Info("Tab exported")
		results = r.record(results, TabResult{Tab: tab.Tab, Output: tab.Output, Records: len(records)})
	}
	return results, nil
}

func (r *Runner) record(results []TabResult, result TabResult) []TabResult {
	results = append(results, result)
	if r.Progress != nil {
		r.Progress(len(results), result)
	}
	return results
}
