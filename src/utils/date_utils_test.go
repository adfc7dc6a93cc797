package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"15/12/2023", time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"15-12-2023", time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"2023-12-15", time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"2023/12/15", time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"29/02/2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)}, // leap year
		{"  01/01/2024  ", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseFlexibleDate(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.True(t, got.Equal(tt.want), "input %q: got %v", tt.input, got)
	}
}

func TestParseFlexibleDateRejectsInvalidCalendarDates(t *testing.T) {
	invalid := []string{
		"30/02/2023", // Feb 30
		"29/02/2023", // Feb 29 on a non-leap year
		"15/13/2023", // month 13
		"32/01/2023", // day 32
		"2023-02-30",
		"not-a-date",
		"",
	}
	for _, input := range invalid {
		_, err := ParseFlexibleDate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseCompactTimestamp(t *testing.T) {
	got, err := ParseCompactTimestamp("20231215103000[-3:BRT]")
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.December, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 10, got.Hour())

	dateOnly, err := ParseCompactTimestamp("20240101")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), dateOnly)

	_, err = ParseCompactTimestamp("2024")
	assert.Error(t, err)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{
			"jan 31 clamps to feb 28",
			time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"jan 31 clamps to feb 29 on leap years",
			time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"year rollover",
			time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC), 3,
			time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"many months",
			time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 13,
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"zero months",
			time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC), 0,
			time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.in, tt.n)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestAdvancePeriod(t *testing.T) {
	tests := []struct {
		period string
		n      int
		want   string
	}{
		{"2023-01", 1, "2023-02"},
		{"2023-12", 1, "2024-01"},
		{"2023-11", 14, "2025-01"},
		{"2023-06", 0, "2023-06"},
	}
	for _, tt := range tests {
		got, err := AdvancePeriod(tt.period, tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := AdvancePeriod("202301", 1)
	assert.Error(t, err)
	_, err = AdvancePeriod("2023-13", 1)
	assert.Error(t, err)
}

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, "2023-02", PeriodOf(time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-12", PeriodOf(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
}
