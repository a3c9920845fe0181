package quotation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundPaise rounds an amount half away from zero to two decimal places.
func RoundPaise(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// RoundOff returns the whole-rupee total and the adjustment applied to reach it.
func RoundOff(amount float64) (rounded, adjustment float64) {
	d := decimal.NewFromFloat(amount).Round(2)
	r := d.Round(0)
	return r.InexactFloat64(), r.Sub(d).InexactFloat64()
}

// FormatINR renders an amount as rupees with Indian digit grouping,
// e.g. 1234567.5 → "₹12,34,567.50".
func FormatINR(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	negative := d.IsNegative()
	raw := d.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(raw, ".")
	out := "₹" + groupIndian(intPart) + "." + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// FormatPercent trims trailing zeros: 18 → "18%", 12.5 → "12.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%s%%", decimal.NewFromFloat(p).Round(2).String())
}

func groupIndian(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	out := s[n-3:]
	rest := s[:n-3]
	for len(rest) > 2 {
		out = rest[len(rest)-2:] + "," + out
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		out = rest + "," + out
	}
	return out
}
