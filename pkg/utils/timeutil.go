// Package utils provides common utility functions for StockScope.
package utils

import (
	"fmt"
	"strings"
	"time"
)

// TradingDaysPerYear is the standard US equity market annualization factor.
const TradingDaysPerYear = 252

// ParseDate parses an ISO-8601 date ("2006-01-02") in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate formats a time.Time as an ISO-8601 date.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// IsWeekend reports whether the given date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// WeekdaysBetween returns the number of weekdays in [start, end).
// Exchange holidays are not subtracted; actual trading-day counts come
// from the fetched series itself.
func WeekdaysBetween(start, end time.Time) int {
	count := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			count++
		}
	}
	return count
}

// DefaultDateRange returns the default analysis window: one year back
// from today.
func DefaultDateRange() (time.Time, time.Time) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	return now.AddDate(-1, 0, 0), now
}

// NormalizeTicker uppercases and trims a user-supplied ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
