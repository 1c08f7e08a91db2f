package services

import (
	"fmt"
	"math"
	"strings"
)

// CurrencyCode prefixes every formatted amount.
const CurrencyCode = "KES"

// FormatKES formats an amount as Kenyan shillings with thousands grouping
// and exactly 2 decimal places, e.g. KES 1,234,567.89.
func FormatKES(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)
	result := CurrencyCode + " " + applyThousandsGrouping(parts[0]) + "." + parts[1]
	if negative && raw != "0.00" {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts a comma every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatQty prints whole quantities without decimals and fractional ones
// with 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
