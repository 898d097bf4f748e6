package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted date text form, and the output form.
const DateLayout = "2006-01-02"

// ToInt64 coerces a warehouse value to an integer. nil and "" are 0;
// fractions are truncated toward zero.
func ToInt64(v interface{}) (int64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", val)
		}
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", val)
		}
		return int64(val), nil
	case float64:
		return truncateFloat(val)
	case float32:
		return truncateFloat(float64(val))
	case decimal.Decimal:
		return DecimalToInt64(val)
	case *decimal.Decimal:
		if val == nil {
			return 0, nil
		}
		return DecimalToInt64(*val)
	case json.Number:
		return parseNumber(string(val))
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseNumber(val)
	case []byte:
		return parseNumber(string(val))
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", v)
	}
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// DecimalToInt64 truncates d toward zero. Values outside the int64 range are an error.
func DecimalToInt64(d decimal.Decimal) (int64, error) {
	t := d.Truncate(0)
	if t.LessThan(minInt64) || t.GreaterThan(maxInt64) {
		return 0, fmt.Errorf("value %s overflows int64", d.String())
	}
	return t.IntPart(), nil
}

func truncateFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("cannot convert %v to integer", f)
	}
	// 2^63 is exactly representable; MaxInt64 is not.
	if f >= 9223372036854775808.0 || f < -9223372036854775808.0 {
		return 0, fmt.Errorf("value %v overflows int64", f)
	}
	return int64(f), nil
}

func parseNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return DecimalToInt64(d)
}

// ParseDate accepts a native date or strict YYYY-MM-DD text.
func ParseDate(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		y, m, d := val.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case *time.Time:
		if val != nil {
			return ParseDate(*val)
		}
	case string:
		return time.Parse(DateLayout, val)
	case []byte:
		return time.Parse(DateLayout, string(val))
	}
	return time.Time{}, fmt.Errorf("cannot parse %v (%T) as a date", v, v)
}

// Normalize converts a value to its JSON output form: dates become
// YYYY-MM-DD, decimals are truncated to integers, bytes become text.
func Normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return val.Format(DateLayout)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format(DateLayout)
	case decimal.Decimal:
		return normalizeDecimal(val)
	case *decimal.Decimal:
		if val == nil {
			return nil
		}
		return normalizeDecimal(*val)
	case []byte:
		return string(val)
	default:
		return v
	}
}

// normalizeDecimal truncates d to an integer. Integers beyond int64 are kept
// exact as a JSON number.
func normalizeDecimal(d decimal.Decimal) interface{} {
	if n, err := DecimalToInt64(d); err == nil {
		return n
	}
	return json.Number(d.Truncate(0).String())
}
