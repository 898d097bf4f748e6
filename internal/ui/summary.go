package ui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Ever-fnf/imc/internal/export"
	"github.com/Ever-fnf/imc/internal/ingest"
	"github.com/Ever-fnf/imc/internal/report"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// RenderReportSummary prints one line per promotion with its goal attainment.
func RenderReportSummary(w io.Writer, result *report.Result, useColor bool) {
	skipped := make(map[string]bool)
	for _, n := range result.Notices {
		if n.Skipped {
			skipped[n.Promotion] = true
		}
	}

	table := newTable(w, []string{"Promotion", "Brand", "Channel", "Window", "Goal", "Actual", "Attainment", "Status"})
	for _, plan := range result.Plans {
		name := plan.String(models.ColPromoName)
		if name == "" {
			name = "Unknown"
		}

		goal := intValue(plan, models.ColGoalSales)
		actual := intValue(plan, models.ColActualSales)

		status := "OK"
		if skipped[name] {
			status = "SKIPPED"
		}
		if useColor {
			if skipped[name] {
				status = color.YellowString(status)
			} else {
				status = color.GreenString(status)
			}
		}

		table.Append([]string{
			name,
			plan.String(models.ColBrand),
			plan.String(models.ColChannel),
			plan.String(models.ColStartDate) + " ~ " + plan.String(models.ColEndDate),
			formatAmount(goal),
			formatAmount(actual),
			attainment(goal, actual),
			status,
		})
	}
	table.Render()
}

// RenderExportSummary prints the exported tabs.
func RenderExportSummary(w io.Writer, results []export.TabResult, useColor bool) {
	table := newTable(w, []string{"Tab", "Output", "Records", "Status"})
	for _, r := range results {
		status := "OK"
		records := strconv.Itoa(r.Records)
		if r.Missing {
			status = "MISSING"
			records = "-"
			if useColor {
				status = color.YellowString(status)
			}
		} else if useColor {
			status = color.GreenString(status)
		}
		table.Append([]string{r.Tab, r.Output, records, status})
	}
	table.Render()
}

// IngestSummary returns the one-line ingest outcome.
func IngestSummary(result *ingest.Result, elapsed time.Duration) string {
	if result.NoData {
		return fmt.Sprintf("No data in plan tab; %s left untouched", result.Table)
	}
	msg := fmt.Sprintf("%d rows loaded into %s in %s", result.Rows, result.Table, formatDuration(elapsed))
	if result.Warnings > 0 {
		msg += fmt.Sprintf(" (%d goal values set to 0)", result.Warnings)
	}
	return msg
}

// ReportSummary returns the one-line report outcome.
func ReportSummary(result *report.Result, output string) string {
	msg := fmt.Sprintf("%d promotions processed, written to %s", len(result.Plans), output)
	if skipped := result.Skipped(); skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", skipped)
	}
	return msg
}

func intValue(plan *models.Record, column string) int64 {
	v, _ := plan.Get(column)
	n, err := report.ToInt64(v)
	if err != nil {
		return 0
	}
	return n
}

// formatAmount groups thousands: 1234567 -> 1,234,567.
func formatAmount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

func attainment(goal, actual int64) string {
	if goal <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(actual)/float64(goal)*100)
}
