package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountCents(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"-150,00", -15000},
		{"3000,00", 300000},
		{"1.234,56", 123456},
		{"1,234.56", 123456},
		{"-150.00", -15000},
		{"(150,00)", -15000},
		{"R$ 150,00", 15000},
		{"R$ -10,00", -1000},
		{"$1,234.56", 123456},
		{"+42.90", 4290},
		{"0.00", 0},
		{"12", 1200},
		// A lone separator followed by exactly three digits is a
		// thousands mark, not a decimal.
		{"1.234", 123400},
		{"1,234", 123400},
		{"1.234.567,89", 123456789},
		{"0,5", 50},
	}
	for _, tt := range tests {
		got, err := ParseAmountCents(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseAmountCentsRejectsGarbage(t *testing.T) {
	invalid := []string{"", "   ", "abc", "R$", "10,00x"}
	for _, input := range invalid {
		_, err := ParseAmountCents(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "150.00", FormatCents(15000))
	assert.Equal(t, "-150.00", FormatCents(-15000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "0.00", FormatCents(0))
}
