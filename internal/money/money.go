// Package money parses user-entered amounts and applies the ledger's single
// display rounding policy. Calculations elsewhere stay unrounded float64.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy describes how amounts are rounded and labelled for display.
type Policy struct {
	// Code is the ISO currency code shown next to amounts (e.g., "IDR").
	Code string
	// Decimals is the number of minor-unit digits kept when displaying.
	Decimals int32
}

// DefaultPolicy displays whole rupiah.
var DefaultPolicy = Policy{Code: "IDR", Decimals: 0}

// ParseAmount parses a form-entered amount such as "15000" or " 1250.50 ".
// It returns false for empty, malformed, non-finite or negative input.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, false
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Round rounds v half away from zero to the policy's minor unit.
func (p Policy) Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(p.Decimals).InexactFloat64()
}

// Format renders v as "IDR 15,000" (or with decimals when the policy has them).
func (p Policy) Format(v float64) string {
	d := decimal.NewFromFloat(p.Round(v))
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	text := d.StringFixed(p.Decimals)
	whole, frac, _ := strings.Cut(text, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	if p.Code == "" {
		return sign + b.String()
	}
	return p.Code + " " + sign + b.String()
}
