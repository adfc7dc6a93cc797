package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/parsers/ofx"
)

func fixedNowMapper() *OFXMapper {
	m := NewOFXMapper()
	m.now = func() time.Time {
		return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	}
	return m
}

func ofxParseResult(records ...models.RawStatementRecord) *models.ParseResult {
	return &models.ParseResult{
		Format:  models.FormatOFX,
		Records: records,
		Success: true,
	}
}

func TestOFXMapperMap(t *testing.T) {
	result := ofxParseResult(models.RawStatementRecord{
		ofx.FieldType:     "DEBIT",
		ofx.FieldPosted:   "20231215103000[-3:BRT]",
		ofx.FieldAmount:   "-150.00",
		ofx.FieldStableID: "2023121500001",
		ofx.FieldName:     "SUPERMERCADO BOM PRECO",
	})

	txs, warnings := fixedNowMapper().Map(result)
	assert.Empty(t, warnings)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "2023121500001", tx.ExternalID)
	assert.Equal(t, "SUPERMERCADO BOM PRECO", tx.Description)
	assert.Equal(t, int64(-15000), tx.AmountCents)
	assert.Equal(t, models.DirectionExpense, tx.Direction)
	assert.Equal(t, "2023-12", tx.Period)
	assert.Equal(t, models.PaymentDebitCard, tx.PaymentHint)
	assert.Contains(t, tx.AuditNote, AuditStableID("2023121500001"))
	assert.Contains(t, tx.AuditNote, "imported=2024-01-10T12:00:00Z")
}

func TestOFXMapperDirectionBySign(t *testing.T) {
	result := ofxParseResult(
		models.RawStatementRecord{ofx.FieldType: "DEBIT", ofx.FieldPosted: "20240101", ofx.FieldAmount: "3000.00"},
		models.RawStatementRecord{ofx.FieldType: "CREDIT", ofx.FieldPosted: "20240101", ofx.FieldAmount: "-10.00"},
	)

	txs, _ := fixedNowMapper().Map(result)
	require.Len(t, txs, 2)
	// The sign wins over the issuer's transaction type.
	assert.Equal(t, models.DirectionIncome, txs[0].Direction)
	assert.Equal(t, models.DirectionExpense, txs[1].Direction)
}

func TestOFXMapperZeroAmountUsesTransactionType(t *testing.T) {
	tests := []struct {
		trnType string
		want    models.Direction
	}{
		{"CREDIT", models.DirectionIncome},
		{"INT", models.DirectionIncome},
		{"DIV", models.DirectionIncome},
		{"DEBIT", models.DirectionExpense},
		{"FEE", models.DirectionExpense},
		{"SRVCHG", models.DirectionExpense},
		{"SOMETHINGELSE", models.DirectionExpense},
	}
	for _, tt := range tests {
		t.Run(tt.trnType, func(t *testing.T) {
			result := ofxParseResult(models.RawStatementRecord{
				ofx.FieldType:   tt.trnType,
				ofx.FieldPosted: "20240101",
				ofx.FieldAmount: "0.00",
			})
			txs, _ := fixedNowMapper().Map(result)
			require.Len(t, txs, 1)
			assert.Equal(t, tt.want, txs[0].Direction)
		})
	}
}

func TestOFXMapperPaymentHints(t *testing.T) {
	tests := []struct {
		trnType string
		want    models.PaymentMethod
	}{
		{"ATM", models.PaymentCash},
		{"POS", models.PaymentDebitCard},
		{"XFER", models.PaymentTransfer},
		{"CHECK", models.PaymentSlip},
		{"OTHER", models.PaymentDebitCard},
	}
	for _, tt := range tests {
		result := ofxParseResult(models.RawStatementRecord{
			ofx.FieldType:   tt.trnType,
			ofx.FieldPosted: "20240101",
			ofx.FieldAmount: "-1.00",
		})
		txs, _ := fixedNowMapper().Map(result)
		require.Len(t, txs, 1)
		assert.Equal(t, tt.want, txs[0].PaymentHint, "type %s", tt.trnType)
	}
}

func TestOFXMapperDescriptionFallbacks(t *testing.T) {
	result := ofxParseResult(
		models.RawStatementRecord{ofx.FieldPosted: "20240101", ofx.FieldAmount: "-1.00", ofx.FieldMemo: "PIX MERCADO"},
		models.RawStatementRecord{ofx.FieldPosted: "20240101", ofx.FieldAmount: "-1.00"},
	)

	txs, _ := fixedNowMapper().Map(result)
	require.Len(t, txs, 2)
	assert.Equal(t, "PIX MERCADO", txs[0].Description)
	assert.Equal(t, DefaultDescription, txs[1].Description)
}

func TestOFXMapperAuditNoteKeepsOriginalWhenSanitized(t *testing.T) {
	result := ofxParseResult(models.RawStatementRecord{
		ofx.FieldPosted:    "20240101",
		ofx.FieldAmount:    "-1.00",
		ofx.FieldName:      "COMPRA   NETFLIX LTDA",
		ofx.FieldCheckNum:  "000123",
		ofx.FieldReference: "REF-9",
	})

	txs, _ := fixedNowMapper().Map(result)
	require.Len(t, txs, 1)
	assert.Equal(t, "NETFLIX", txs[0].Description)
	assert.Contains(t, txs[0].AuditNote, "original=COMPRA   NETFLIX LTDA")
	assert.Contains(t, txs[0].AuditNote, "check=000123")
	assert.Contains(t, txs[0].AuditNote, "ref=REF-9")
}

func TestOFXMapperWarnsOnBadRows(t *testing.T) {
	result := ofxParseResult(
		models.RawStatementRecord{ofx.FieldPosted: "bad", ofx.FieldAmount: "-1.00"},
		models.RawStatementRecord{ofx.FieldPosted: "20240101", ofx.FieldAmount: "xx"},
		models.RawStatementRecord{ofx.FieldPosted: "20240101", ofx.FieldAmount: "-1.00", ofx.FieldName: "OK"},
	)

	txs, warnings := fixedNowMapper().Map(result)
	require.Len(t, txs, 1)
	require.Len(t, warnings, 2)
	assert.Equal(t, 1, warnings[0].Line)
	assert.Equal(t, 2, warnings[1].Line)
}
