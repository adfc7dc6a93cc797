package csvfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

func TestParseSemicolonDelimited(t *testing.T) {
	content := "Data;Descrição;Valor\n" +
		"15/12/2023;Supermercado;-150,00\n" +
		"\n" +
		"01/01/2024;Salário;3000,00\n"

	result, err := NewParser().Parse(strings.NewReader(content))
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, models.FormatDelimited, result.Format)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "15/12/2023", result.Records[0]["Data"])
	assert.Equal(t, "Supermercado", result.Records[0]["Descrição"])
	assert.Equal(t, "-150,00", result.Records[0]["Valor"])
	assert.Equal(t, "3000,00", result.Records[1]["Valor"])
	assert.Empty(t, result.RowWarnings)
}

func TestParseWarnsOnOversizedRows(t *testing.T) {
	content := "Data;Descricao;Valor\n" +
		"15/12/2023;Padaria;-12,50\n" +
		"16/12/2023;Farmacia;-30,00;extra;fields\n"

	result, err := NewParser().Parse(strings.NewReader(content))
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	require.Len(t, result.RowWarnings, 1)
	assert.Equal(t, 3, result.RowWarnings[0].Line)
	assert.Contains(t, result.RowWarnings[0].Message, "fields")
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("   \n  "))
	assert.ErrorIs(t, err, models.ErrInvalidFile)

	_, err = NewParser().Parse(strings.NewReader("Data;Descricao;Valor\n"))
	assert.ErrorIs(t, err, models.ErrNoTransactions)
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    rune
	}{
		{
			"plain semicolon",
			"a;b;c\n1;2;3\n4;5;6\n",
			';',
		},
		{
			"plain comma",
			"a,b,c\n1,2,3\n",
			',',
		},
		{
			"tab separated",
			"a\tb\tc\n1\t2\t3\n",
			'\t',
		},
		{
			// Decimal commas appear on some lines but not others; the
			// semicolon counts stay consistent across every line and win.
			"consistency beats stray commas",
			"Data;Histórico, detalhado;Valor\n15/12/2023;Supermercado;-150,00\n16/12/2023;Padaria;-12\n17/12/2023;Farmácia;-30,00\n",
			';',
		},
		{
			// One extra trailing separator in the header keeps the spread
			// within tolerance.
			"header with one extra separator",
			"Data;Descricao;Valor;\n15/12/2023;Supermercado;-150,00\n16/12/2023;Padaria;-12,50\n",
			';',
		},
		{
			"no separator at all",
			"just one column\nanother line\n",
			';',
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.content))
		})
	}
}
