package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCents(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		parts int
		want  []int64
	}{
		{"even split", 9000, 3, []int64{3000, 3000, 3000}},
		{"remainder goes to first parts", 10000, 3, []int64{3334, 3333, 3333}},
		{"two parts odd total", 101, 2, []int64{51, 50}},
		{"negative total keeps sign", -10000, 3, []int64{-3334, -3333, -3333}},
		{"single part", 999, 1, []int64{999}},
		{"zero total", 0, 4, []int64{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCents(tt.total, tt.parts))
		})
	}
}

func TestSplitCentsAlwaysSumsToTotal(t *testing.T) {
	totals := []int64{1, 99, 100, 101, 9999, 10000, 123457, -10000, -77777}
	for _, total := range totals {
		for parts := 2; parts <= 60; parts++ {
			shares := SplitCents(total, parts)
			assert.Len(t, shares, parts)

			var sum int64
			for i, share := range shares {
				sum += share
				if i > 0 {
					// Extra cents always land on the earliest occurrences.
					assert.LessOrEqual(t, AbsInt64(share), AbsInt64(shares[i-1]),
						"total=%d parts=%d", total, parts)
				}
			}
			assert.Equal(t, total, sum, "total=%d parts=%d", total, parts)
		}
	}
}

func TestSplitCentsInvalidParts(t *testing.T) {
	assert.Nil(t, SplitCents(100, 0))
	assert.Nil(t, SplitCents(100, -1))
}
