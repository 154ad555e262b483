package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexDecimal decodes a JSON number, numeric string, or anything else into a
// decimal. Unparseable input collapses to zero instead of failing the decode;
// the storefront forms send prices as strings often enough that rejecting
// them would break add-to-cart.
type FlexDecimal struct {
	decimal.Decimal
}

func NewFlexDecimal(d decimal.Decimal) FlexDecimal {
	return FlexDecimal{Decimal: d}
}

func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	raw := unquote(data)
	if raw == "" {
		f.Decimal = decimal.Zero
		return nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		f.Decimal = decimal.Zero
		return nil
	}
	f.Decimal = parsed
	return nil
}

// FlexInt decodes a JSON number or numeric string into an int, collapsing
// unparseable input to zero. Fractional input truncates toward zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := unquote(data)
	if raw == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(raw, 64); err == nil {
		// int64(fl) is unspecified outside the int64 range, so out-of-range
		// magnitudes collapse to zero like any other junk input.
		if fl >= math.MinInt64 && fl < math.MaxInt64 {
			*f = FlexInt(int64(fl))
		} else {
			*f = 0
		}
		return nil
	}
	*f = 0
	return nil
}

func (f FlexInt) Int() int {
	return int(f)
}

func unquote(data []byte) string {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return ""
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	return strings.TrimSpace(raw)
}
