package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatIDR renders an amount as Indonesian rupiah without fraction digits, e.g. "Rp 1.250.000".
func FormatIDR(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	neg := rounded.IsNegative()
	digits := rounded.Abs().StringFixed(0)

	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-Rp " + sb.String()
	}
	return "Rp " + sb.String()
}
