package report

import (
	"fmt"

	"github.com/Ever-fnf/imc/pkg/models"
)

// Notice describes a problem Calculate worked around for one promotion.
type Notice struct {
	Promotion string
	Field     string
	Err       error
	// Skipped is set when the dates were unusable and no sales were computed.
	Skipped bool
}

func (n Notice) String() string {
	if n.Skipped {
		return fmt.Sprintf("[Skip] Invalid Date: %s", n.Promotion)
	}
	return fmt.Sprintf("%s: %s set to 0 (%v)", n.Promotion, n.Field, n.Err)
}

// Result is the outcome of CalculateAll.
type Result struct {
	Plans   []*models.Record
	Notices []Notice
}

// Skipped counts promotions whose sales could not be computed.
func (r Result) Skipped() int {
	n := 0
	for _, notice := range r.Notices {
		if notice.Skipped {
			n++
		}
	}
	return n
}

// Calculate fills GOAL_SALES, ACTUAL_SALES and DAILY_TREND on the plan and
// rewrites its dates as YYYY-MM-DD. A plan whose start or end date cannot be
// parsed gets 0 and an empty trend, keeps its dates as they were and is
// reported with a skip notice. Calculating a plan twice gives the same result.
func Calculate(plan *models.Record, idx SalesIndex) []Notice {
	var notices []Notice
	name := promotionName(plan)

	goalValue, _ := plan.Get(models.ColGoalSales)
	goal, err := ToInt64(goalValue)
	if err != nil {
		notices = append(notices, Notice{Promotion: name, Field: models.ColGoalSales, Err: err})
		goal = 0
	}
	plan.Set(models.ColGoalSales, goal)

	startValue, _ := plan.Get(models.ColStartDate)
	start, startErr := ParseDate(startValue)
	endValue, _ := plan.Get(models.ColEndDate)
	end, endErr := ParseDate(endValue)

	if startErr != nil || endErr != nil {
		field, cause := models.ColStartDate, startErr
		if startErr == nil {
			field, cause = models.ColEndDate, endErr
		}
		plan.Set(models.ColActualSales, int64(0))
		plan.Set(models.ColDailyTrend, []int64{})
		return append(notices, Notice{Promotion: name, Field: field, Err: cause, Skipped: true})
	}

	brand := plan.String(models.ColBrand)
	channel := plan.String(models.ColChannel)

	days := 0
	if !end.Before(start) {
		days = int(end.Sub(start).Hours()/24) + 1
	}
	trend := make([]int64, 0, days)
	var total int64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		revenue := idx.Lookup(brand, channel, d.Format(DateLayout))
		trend = append(trend, revenue)
		total += revenue
	}

	plan.Set(models.ColActualSales, total)
	plan.Set(models.ColDailyTrend, trend)
	plan.Set(models.ColStartDate, start.Format(DateLayout))
	plan.Set(models.ColEndDate, end.Format(DateLayout))
	return notices
}

// CalculateAll runs Calculate over every plan in order. Every plan is kept.
func CalculateAll(plans []*models.Record, idx SalesIndex) Result {
	result := Result{Plans: plans}
	for _, plan := range plans {
		result.Notices = append(result.Notices, Calculate(plan, idx)...)
	}
	return result
}

func promotionName(plan *models.Record) string {
	if name := plan.String(models.ColPromoName); name != "" {
		return name
	}
	return "Unknown"
}
