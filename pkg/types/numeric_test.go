package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFlexDecimalUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "number", in: `12.5`, want: "12.5"},
		{name: "string number", in: `"10"`, want: "10"},
		{name: "garbage string", in: `"abc"`, want: "0"},
		{name: "object", in: `{"a":1}`, want: "0"},
		{name: "null", in: `null`, want: "0"},
		{name: "negative", in: `-3`, want: "-3"},
	}

	for _, tt := range tests {
		var f FlexDecimal
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("%s: unmarshal should never fail: %v", tt.name, err)
		}
		if want, _ := decimal.NewFromString(tt.want); !f.Decimal.Equal(want) {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want, f.Decimal)
		}
	}
}

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "number", in: `7`, want: 7},
		{name: "string number", in: `"4"`, want: 4},
		{name: "fractional truncates", in: `3.9`, want: 3},
		{name: "garbage", in: `"lots"`, want: 0},
		{name: "array", in: `[1]`, want: 0},
		{name: "null", in: `null`, want: 0},
		{name: "overflow collapses", in: `"1e300"`, want: 0},
		{name: "negative overflow collapses", in: `"-1e300"`, want: 0},
	}

	for _, tt := range tests {
		var f FlexInt
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("%s: unmarshal should never fail: %v", tt.name, err)
		}
		if f.Int() != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, f.Int())
		}
	}
}
