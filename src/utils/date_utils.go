package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Accepted layouts for user-supplied statement dates, tried in order.
var flexibleDateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"2006/01/02",
}

// ParseFlexibleDate parses DD/MM/YYYY, DD-MM-YYYY, YYYY-MM-DD or
// YYYY/MM/DD with strict calendar validation: Feb 30, month 13 and
// Feb 29 on non-leap years are all rejected by time.Parse.
func ParseFlexibleDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	for _, layout := range flexibleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized or invalid date %q", dateStr)
}

// ParseCompactTimestamp parses the compact YYYYMMDDHHMMSS form used by
// OFX DTPOSTED values, slicing the first 14 characters as a local time.
// Trailing timezone offsets like [-3:BRT] are intentionally ignored: the
// posted calendar day is what matters for reconciliation, and honoring
// the offset would shift entries across day boundaries.
func ParseCompactTimestamp(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
	}
	if digits >= 14 {
		return time.ParseInLocation("20060102150405", s[:14], time.Local)
	}
	if digits >= 8 {
		return time.ParseInLocation("20060102", s[:8], time.Local)
	}
	return time.Time{}, fmt.Errorf("timestamp %q too short", value)
}

// PeriodOf returns the zero-padded YEAR-MONTH bucket of a date.
func PeriodOf(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// AddMonthsClamped advances t by n months, clamping the day-of-month to
// the last valid day of the target month: Jan 31 +1 month is Feb 28 (or
// Feb 29 on leap years), never March. Lossy and non-reversible.
func AddMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + n
	targetYear := year + total/12
	targetMonth := total%12 + 1
	if targetMonth <= 0 {
		targetMonth += 12
		targetYear--
	}
	if max := DaysInMonth(targetYear, time.Month(targetMonth)); day > max {
		day = max
	}
	h, m, s := t.Clock()
	return time.Date(targetYear, time.Month(targetMonth), day, h, m, s, t.Nanosecond(), t.Location())
}

// AdvancePeriod advances a YEAR-MONTH label by n months using integer
// year/month arithmetic, rolling the year on overflow.
func AdvancePeriod(period string, n int) (string, error) {
	year, month, err := splitPeriod(period)
	if err != nil {
		return "", err
	}
	total := month - 1 + n
	year += total / 12
	month = total%12 + 1
	if month <= 0 {
		month += 12
		year--
	}
	return fmt.Sprintf("%04d-%02d", year, month), nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func splitPeriod(period string) (int, int, error) {
	parts := strings.SplitN(period, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed period %q", period)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed period %q", period)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed period %q", period)
	}
	return year, month, nil
}
