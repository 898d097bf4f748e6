package testutil

import (
	"time"

	"github.com/Ever-fnf/imc/pkg/models"
)

// TestConfig returns a complete configuration for stage tests.
func TestConfig() *models.Config {
	return &models.Config{
		Sheets: models.Sheets{
			SpreadsheetID:   "sheet-123",
			PlanTab:         "plans",
			HeaderRow:       2,
			DataStartRow:    4,
			IdentityHeader:  "브랜드",
			CredentialsJSON: `{"type":"service_account"}`,
			ExportTabs: []models.TabExport{
				{Tab: "goals", Output: "monthly_goals.json"},
				{Tab: "calendar", Output: "calendar_issues.json"},
			},
		},
		Snowflake: models.Snowflake{
			Account:   "test123.ap-northeast-2.aws",
			Username:  "testuser",
			Password:  "testpass",
			Warehouse: "TEST_WH",
			Database:  "TEST_DB",
			Schema:    "PUBLIC",
			Timeout:   5 * time.Second,
		},
		Ingest: models.Ingest{TargetTable: "PROMOTION_PLAN", BatchSize: 100},
		Report: models.Report{
			PlanTable:  "PROMOTION_PLAN",
			SalesTable: "DAILY_CHANNEL_SALES",
			Output:     "data.json",
		},
		Log: models.Log{Level: "debug", Format: "text"},
	}
}

// PlanHeader is the planning tab header row in sheet order.
var PlanHeader = []string{
	"브랜드", "채널", "구분", "프로모션 유형", "단독 여부", "프로모션명", "시작일", "종료일",
	"상태", "구좌", "이미지", "혜택 유형", "혜택 상세", "목표 매출", "MD 코멘트",
}

// PlanSheet builds a planning tab matching TestConfig's layout: a title row,
// the header, a note row, then the given data rows.
func PlanSheet(rows ...[]string) [][]string {
	values := [][]string{
		{"2024 프로모션 계획"},
		PlanHeader,
		{"작성 가이드"},
	}
	return append(values, rows...)
}

// PlanRow builds a data row with the fields the tests care about; the rest are filled in.
func PlanRow(brand, channel, name, start, end, goal string) []string {
	return []string{
		brand, channel, "의류", "기획전", "true", name, start, end,
		"확정", "메인", "https://img.example/1.png", "할인", "10%", goal, "",
	}
}
