package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/Ever-fnf/imc/internal/snowflake"
	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/samber/lo"
)

// Sales query result columns.
const (
	colSaleDate = "SD"
	colBrand    = "BRAND"
	colChannel  = "CHANNEL"
	colRevenue  = "REVENUE"
)

// SalesKey identifies one day of sales for a brand on a channel. Matching is exact.
type SalesKey struct {
	Brand   string
	Channel string
	Date    string // YYYY-MM-DD
}

// SalesIndex maps a day to its total revenue.
type SalesIndex map[SalesKey]int64

// Lookup returns the revenue for the key, 0 when absent.
func (idx SalesIndex) Lookup(brand, channel, date string) int64 {
	return idx[SalesKey{Brand: brand, Channel: channel, Date: date}]
}

// RawSale is one row of the daily sales fact table.
type RawSale struct {
	Date    string
	Brand   string
	Channel string
	Revenue interface{}
}

// SalesFromRows picks the sales columns out of a query result by name.
func SalesFromRows(rs *snowflake.ResultSet) ([]RawSale, error) {
	upper := lo.Map(rs.Columns, func(c string, _ int) string { return strings.ToUpper(c) })

	idx := make(map[string]int, 4)
	for _, name := range []string{colSaleDate, colBrand, colChannel, colRevenue} {
		i := lo.IndexOf(upper, name)
		if i < 0 {
			return nil, apperrors.New(apperrors.ErrCodeStoreRead,
				fmt.Sprintf("sales result has no %s column", name)).
				WithContext("columns", rs.Columns)
		}
		idx[name] = i
	}

	sales := make([]RawSale, len(rs.Rows))
	for i, row := range rs.Rows {
		sales[i] = RawSale{
			Date:    text(row[idx[colSaleDate]]),
			Brand:   text(row[idx[colBrand]]),
			Channel: text(row[idx[colChannel]]),
			Revenue: row[idx[colRevenue]],
		}
	}
	return sales, nil
}

// BuildSalesIndex sums revenue per key. Null revenue counts as 0 and
// fractional revenue is truncated before it is added.
func BuildSalesIndex(sales []RawSale) (SalesIndex, error) {
	idx := make(SalesIndex, len(sales))
	for i, s := range sales {
		revenue, err := ToInt64(s.Revenue)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidNumber,
				fmt.Sprintf("sales row %d: %v", i, err)).
				WithContext("brand", s.Brand).
				WithContext("channel", s.Channel).
				WithContext("date", s.Date)
		}
		key := SalesKey{Brand: s.Brand, Channel: s.Channel, Date: s.Date}
		sum := idx[key]
		if (revenue > 0 && sum > math.MaxInt64-revenue) || (revenue < 0 && sum < math.MinInt64-revenue) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidNumber,
				fmt.Sprintf("sales row %d: revenue total overflows int64", i)).
				WithContext("brand", s.Brand).
				WithContext("channel", s.Channel).
				WithContext("date", s.Date)
		}
		idx[key] = sum + revenue
	}
	return idx, nil
}

func text(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
