package models

// Warehouse column names of the promotion plan table.
const (
	ColBrand         = "BRAND"
	ColChannel       = "CHANNEL"
	ColDivision      = "DIVISION"
	ColPromoType     = "PROMO_TYPE"
	ColIsExclusive   = "IS_EXCLUSIVE"
	ColPromoName     = "PROMO_NAME"
	ColStartDate     = "START_DATE"
	ColEndDate       = "END_DATE"
	ColStatus        = "STATUS"
	ColSlot          = "SLOT"
	ColImageURL      = "IMAGE_URL"
	ColBenefitType   = "BENEFIT_TYPE"
	ColBenefitDetail = "BENEFIT_DETAIL"
	ColGoalSales     = "GOAL_SALES"
	ColMDComment     = "MD_COMMENT"

	// Computed by the report stage.
	ColActualSales = "ACTUAL_SALES"
	ColDailyTrend  = "DAILY_TREND"
)

// Column describes one warehouse column.
type Column struct {
	Name string
	Type string
}

// PlanColumns is the fixed column set loaded by ingest, in sheet order.
var PlanColumns = []Column{
	{ColBrand, "TEXT"},
	{ColChannel, "TEXT"},
	{ColDivision, "TEXT"},
	{ColPromoType, "TEXT"},
	{ColIsExclusive, "BOOLEAN"},
	{ColPromoName, "TEXT"},
	{ColStartDate, "TEXT"},
	{ColEndDate, "TEXT"},
	{ColStatus, "TEXT"},
	{ColSlot, "TEXT"},
	{ColImageURL, "TEXT"},
	{ColBenefitType, "TEXT"},
	{ColBenefitDetail, "TEXT"},
	{ColGoalSales, "NUMBER(38,0)"},
	{ColMDComment, "TEXT"},
}

// PromotionPlan is one planned promotion as it comes off the planning sheet.
// Dates stay in their sheet text form; the report stage parses them.
type PromotionPlan struct {
	Brand         string
	Channel       string
	Division      string
	PromoType     string
	IsExclusive   bool
	PromoName     string
	StartDate     string
	EndDate       string
	Status        string
	Slot          string
	ImageURL      string
	BenefitType   string
	BenefitDetail string
	GoalSales     int64
	MDComment     string
}

// Values returns the plan as a row ordered like PlanColumns.
func (p PromotionPlan) Values() []interface{} {
	return []interface{}{
		p.Brand,
		p.Channel,
		p.Division,
		p.PromoType,
		p.IsExclusive,
		p.PromoName,
		p.StartDate,
		p.EndDate,
		p.Status,
		p.Slot,
		p.ImageURL,
		p.BenefitType,
		p.BenefitDetail,
		p.GoalSales,
		p.MDComment,
	}
}

// Record converts the plan into an ordered record keyed by warehouse column.
func (p PromotionPlan) Record() *Record {
	r := NewRecord()
	for i, v := range p.Values() {
		r.Set(PlanColumns[i].Name, v)
	}
	return r
}
