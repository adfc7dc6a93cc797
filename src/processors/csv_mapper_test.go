package processors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

func csvParseResult(records ...models.RawStatementRecord) *models.ParseResult {
	return &models.ParseResult{
		Format:  models.FormatDelimited,
		Records: records,
		Success: true,
	}
}

func TestCSVMapperMap(t *testing.T) {
	mapping := models.ColumnMapping{
		DateColumn:        "Data",
		DescriptionColumn: "Descrição",
		AmountColumn:      "Valor",
	}
	result := csvParseResult(
		models.RawStatementRecord{"Data": "15/12/2023", "Descrição": "Supermercado", "Valor": "-150,00"},
		models.RawStatementRecord{"Data": "01/01/2024", "Descrição": "Salário", "Valor": "3000,00"},
	)

	txs, warnings, err := NewCSVMapper().Map(result, mapping)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, txs, 2)

	first := txs[0]
	assert.Equal(t, "Supermercado", first.Description)
	assert.Equal(t, int64(-15000), first.AmountCents)
	assert.Equal(t, models.DirectionExpense, first.Direction)
	assert.True(t, first.PostedDate.Equal(time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12", first.Period)
	assert.Empty(t, first.ExternalID)

	second := txs[1]
	assert.Equal(t, int64(300000), second.AmountCents)
	assert.Equal(t, models.DirectionIncome, second.Direction)
	assert.Equal(t, "2024-01", second.Period)
}

func TestCSVMapperDropsBadRowsWithWarnings(t *testing.T) {
	mapping := models.ColumnMapping{DateColumn: "Data", AmountColumn: "Valor"}
	result := csvParseResult(
		models.RawStatementRecord{"Data": "30/02/2023", "Valor": "-10,00"},
		models.RawStatementRecord{"Data": "15/12/2023", "Valor": "not-a-number"},
		models.RawStatementRecord{"Data": "15/12/2023", "Valor": "-10,00"},
	)

	txs, warnings, err := NewCSVMapper().Map(result, mapping)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Len(t, warnings, 2)
	assert.Equal(t, 2, warnings[0].Line)
	assert.Contains(t, warnings[0].Message, "bad date")
	assert.Equal(t, 3, warnings[1].Line)
	assert.Contains(t, warnings[1].Message, "bad amount")
}

func TestCSVMapperRequiresDateAndAmountColumns(t *testing.T) {
	result := csvParseResult(models.RawStatementRecord{"Data": "15/12/2023", "Valor": "-10,00"})

	_, _, err := NewCSVMapper().Map(result, models.ColumnMapping{AmountColumn: "Valor"})
	var fieldErr *models.FieldValidationError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "date_column", fieldErr.Field)

	_, _, err = NewCSVMapper().Map(result, models.ColumnMapping{DateColumn: "Data"})
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "amount_column", fieldErr.Field)
}

func TestCSVMapperDefaultsDescription(t *testing.T) {
	mapping := models.ColumnMapping{DateColumn: "Data", AmountColumn: "Valor"}
	result := csvParseResult(models.RawStatementRecord{"Data": "15/12/2023", "Valor": "-10,00"})

	txs, _, err := NewCSVMapper().Map(result, mapping)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, DefaultDescription, txs[0].Description)
	assert.Equal(t, models.PaymentDebitCard, txs[0].PaymentHint)
}
