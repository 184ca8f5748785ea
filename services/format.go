package services

import (
	"fmt"
	"strings"
)

// FormatJPY formats a whole-yen amount with thousands grouping and the
// yen sign, e.g. ¥1,234,567. Yen has no fractional unit, so there is no
// decimal part.
func FormatJPY(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	formatted := groupThousands(fmt.Sprintf("%d", amount))

	result := "¥" + formatted
	if negative {
		result = "-" + result
	}
	return result
}

// FormatDateJP renders a date string as YYYY/MM/DD given an ISO date
// (YYYY-MM-DD). Values that are not ISO dates pass through unchanged.
func FormatDateJP(isoDate string) string {
	if len(isoDate) < 10 {
		return isoDate
	}
	d := isoDate[:10]
	if d[4] != '-' || d[7] != '-' {
		return isoDate
	}
	return strings.ReplaceAll(d, "-", "/")
}

// groupThousands inserts commas every 3 digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}
