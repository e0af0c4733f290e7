package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats an amount as US dollars with thousands separators,
// e.g. 1234567.891 → "$1,234,567.89".
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) {
		return "—"
	}
	negative := amount < 0
	amount = math.Abs(amount)

	intPart := int64(amount)
	frac := amount - float64(intPart)

	formatted := groupThousands(intPart) + strings.TrimPrefix(fmt.Sprintf("%.2f", frac), "0")
	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// FormatUSDCompact formats large amounts in compact notation,
// e.g. 2.53e12 → "$2.53T", 1.9e9 → "$1.90B".
func FormatUSDCompact(amount float64) string {
	if math.IsNaN(amount) {
		return "—"
	}
	prefix := "$"
	if amount < 0 {
		prefix = "-$"
		amount = -amount
	}

	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s%.2fT", prefix, amount/1e12)
	case amount >= 1e9:
		return fmt.Sprintf("%s%.2fB", prefix, amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("%s%.2fM", prefix, amount/1e6)
	case amount >= 1e3:
		return fmt.Sprintf("%s%.2fK", prefix, amount/1e3)
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct formats a ratio as a signed percentage, e.g. 0.1234 → "+12.34%".
// NaN renders as a dash placeholder so undefined metrics stay visible
// without breaking tables.
func FormatPct(ratio float64) string {
	if math.IsNaN(ratio) {
		return "—"
	}
	return fmt.Sprintf("%+.2f%%", ratio*100)
}

// FormatRatio formats a unitless ratio such as a Sharpe ratio.
func FormatRatio(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatVolume formats a share volume compactly, e.g. 12345678 → "12.35M".
func FormatVolume(v int64) string {
	f := float64(v)
	switch {
	case f >= 1e9:
		return fmt.Sprintf("%.2fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("%.2fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("%.2fK", f/1e3)
	default:
		return fmt.Sprintf("%d", v)
	}
}

// groupThousands renders an integer with comma separators.
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
