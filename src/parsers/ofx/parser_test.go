package ofx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

const sampleStatement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102

<OFX>
<BANKMSGSRSV1>
<STMTTRNRS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0341
<ACCTID>12345-6
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20231201
<DTEND>20231231
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20231215103000[-3:BRT]
<TRNAMT>-150.00
<FITID>2023121500001
<NAME>SUPERMERCADO BOM PRECO
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20231220
<TRNAMT>3000.00
<FITID>2023122000002
<MEMO>SALARIO DEZEMBRO
</STMTTRN>
</BANKTRANLIST>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestParseStatement(t *testing.T) {
	result, err := NewParser().Parse(strings.NewReader(sampleStatement))
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, models.FormatOFX, result.Format)
	require.NotNil(t, result.Account)
	assert.Equal(t, "0341", result.Account.InstitutionID)
	assert.Equal(t, "12345-6", result.Account.AccountNumber)
	assert.Equal(t, models.AccountChecking, result.Account.Kind)

	require.Len(t, result.Records, 2)
	first := result.Records[0]
	assert.Equal(t, "DEBIT", first[FieldType])
	assert.Equal(t, "-150.00", first[FieldAmount])
	assert.Equal(t, "2023121500001", first[FieldStableID])
	assert.Equal(t, "SUPERMERCADO BOM PRECO", first[FieldName])

	second := result.Records[1]
	assert.Equal(t, "SALARIO DEZEMBRO", second[FieldMemo])

	assert.Equal(t, 2023, result.RangeStart.Year())
	assert.Equal(t, 31, result.RangeEnd.Day())
}

func TestParseCreditCardStatement(t *testing.T) {
	doc := `<OFX>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<CCSTMTRS>
<CCACCTFROM>
<ACCTID>5522********1234
</CCACCTFROM>
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240105
<TRNAMT>-42.90
<FITID>abc-1
<NAME>NETFLIX
</STMTTRN>
</BANKTRANLIST>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

	result, err := NewParser().Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, models.AccountCreditCard, result.Account.Kind)
	require.Len(t, result.Records, 1)
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty file", "", models.ErrInvalidFile},
		{"no OFX root", "OFXHEADER:100\njust some text", models.ErrInvalidFile},
		{
			"missing transaction list",
			"<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS></STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>",
			models.ErrStructuralParse,
		},
		{
			"no transactions",
			"<OFX><STMTRS><BANKTRANLIST></BANKTRANLIST></STMTRS></OFX>",
			models.ErrNoTransactions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseUnescapesEntities(t *testing.T) {
	doc := `<OFX><STMTRS><BANKTRANLIST><STMTTRN>
<TRNTYPE>DEBIT
<TRNAMT>-10.00
<FITID>x1
<NAME>PET &amp; CIA
</STMTTRN></BANKTRANLIST></STMTRS></OFX>`

	result, err := NewParser().Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "PET & CIA", result.Records[0][FieldName])
}
