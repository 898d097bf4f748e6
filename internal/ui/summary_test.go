package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/Ever-fnf/imc/internal/export"
	"github.com/Ever-fnf/imc/internal/ingest"
	"github.com/Ever-fnf/imc/internal/report"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/stretchr/testify/assert"
)

func summaryPlan(name, start, end string, goal, actual int64) *models.Record {
	r := models.NewRecord()
	r.Set(models.ColBrand, "MLB")
	r.Set(models.ColChannel, "무신사")
	r.Set(models.ColPromoName, name)
	r.Set(models.ColStartDate, start)
	r.Set(models.ColEndDate, end)
	r.Set(models.ColGoalSales, goal)
	r.Set(models.ColActualSales, actual)
	return r
}

func TestRenderReportSummary(t *testing.T) {
	result := &report.Result{
		Plans: []*models.Record{
			summaryPlan("Spring Sale", "2024-03-01", "2024-03-03", 2000000, 1500000),
			summaryPlan("Broken", "2024/13/01", "2024-03-03", 0, 0),
		},
		Notices: []report.Notice{{Promotion: "Broken", Field: models.ColStartDate, Err: errors.New("bad"), Skipped: true}},
	}

	var buf bytes.Buffer
	RenderReportSummary(&buf, result, false)
	out := buf.String()

	assert.Contains(t, out, "ATTAINMENT")
	assert.Contains(t, out, "Spring Sale")
	assert.Contains(t, out, "2024-03-01 ~ 2024-03-03")
	assert.Contains(t, out, "2,000,000")
	assert.Contains(t, out, "1,500,000")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "SKIPPED")
}

func TestRenderExportSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderExportSummary(&buf, []export.TabResult{
		{Tab: "goals", Output: "goals.json", Records: 12},
		{Tab: "calendar", Output: "calendar.json", Missing: true},
	}, false)
	out := buf.String()

	assert.Contains(t, out, "goals.json")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "MISSING")
}

func TestIngestSummary(t *testing.T) {
	assert.Equal(t,
		"No data in plan tab; PROMOTION_PLAN left untouched",
		IngestSummary(&ingest.Result{Table: "PROMOTION_PLAN", NoData: true}, time.Second))
	assert.Equal(t,
		"3 rows loaded into PROMOTION_PLAN in 1.5s (1 goal values set to 0)",
		IngestSummary(&ingest.Result{Table: "PROMOTION_PLAN", Rows: 3, Warnings: 1}, 1500*time.Millisecond))
}

func TestReportSummary(t *testing.T) {
	result := &report.Result{
		Plans:   []*models.Record{models.NewRecord(), models.NewRecord()},
		Notices: []report.Notice{{Promotion: "x", Skipped: true}},
	}
	assert.Equal(t, "2 promotions processed, written to data.json (1 skipped)", ReportSummary(result, "data.json"))
}

func TestFormatAmount(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatAmount(in))
	}
}

func TestAttainment(t *testing.T) {
	assert.Equal(t, "-", attainment(0, 100))
	assert.Equal(t, "150.0%", attainment(100, 150))
}
