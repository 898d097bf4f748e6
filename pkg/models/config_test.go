package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestConfigYAML(t *testing.T) {
	config := Config{
		Sheets: Sheets{
			SpreadsheetID:  "1aYlXOaRbyRDn0gneVz8n7nATIqdTU7rD4rjMEbw38sw",
			PlanTab:        "ever_테스트중2",
			HeaderRow:      2,
			DataStartRow:   7,
			IdentityHeader: "브랜드",
			ExportTabs: []TabExport{
				{Tab: "2. 월별 목표 매출 관리 시트", Output: "monthly_goals.json"},
			},
		},
		Snowflake: Snowflake{
			Account:   "xy12345.ap-northeast-2.aws",
			Username:  "loader",
			Warehouse: "DEV_WH",
			Database:  "FNF",
			Schema:    "CRM_MEMBER",
			Timeout:   45 * time.Second,
		},
		Ingest: Ingest{TargetTable: "PROMOTION_PLAN", BatchSize: 500},
		Report: Report{PlanTable: "PROMOTION_PLAN", SalesTable: "DAILY_CHANNEL_SALES", Output: "data.json"},
	}

	data, err := yaml.Marshal(&config)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "spreadsheet_id:")
	assert.NotContains(t, string(data), "password:")

	var decoded Config
	err = yaml.Unmarshal(data, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, config, decoded)
}

func TestPlanColumnsMatchValues(t *testing.T) {
	plan := PromotionPlan{
		Brand:       "MLB",
		Channel:     "ONLINE",
		IsExclusive: true,
		PromoName:   "봄 세일",
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-07",
		GoalSales:   1500000,
	}

	values := plan.Values()
	assert.Len(t, values, len(PlanColumns))
	assert.Equal(t, "MLB", values[0])
	assert.Equal(t, true, values[4])
	assert.Equal(t, int64(1500000), values[13])

	rec := plan.Record()
	cols := rec.Columns()
	for i, c := range PlanColumns {
		assert.Equal(t, c.Name, cols[i])
	}
	v, ok := rec.Get(ColPromoName)
	assert.True(t, ok)
	assert.Equal(t, "봄 세일", v)
}
