package processors

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/parsers/ofx"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

// DefaultDescription is used when a transaction node carries neither a
// name nor a memo.
const DefaultDescription = "Imported transaction"

// Zero-amount transactions cannot be classified by sign, so the issuer's
// transaction type decides.
var zeroAmountDirection = map[string]models.Direction{
	"CREDIT":    models.DirectionIncome,
	"DEP":       models.DirectionIncome,
	"DIRECTDEP": models.DirectionIncome,
	"INT":       models.DirectionIncome,
	"DIV":       models.DirectionIncome,
	"DEBIT":     models.DirectionExpense,
	"FEE":       models.DirectionExpense,
	"SRVCHG":    models.DirectionExpense,
	"ATM":       models.DirectionExpense,
	"POS":       models.DirectionExpense,
	"CHECK":     models.DirectionExpense,
	"PAYMENT":   models.DirectionExpense,
	"REPEATPMT": models.DirectionExpense,
	"XFER":      models.DirectionExpense,
}

var paymentHints = map[string]models.PaymentMethod{
	"ATM":       models.PaymentCash,
	"CASH":      models.PaymentCash,
	"POS":       models.PaymentDebitCard,
	"DEBIT":     models.PaymentDebitCard,
	"PAYMENT":   models.PaymentTransfer,
	"REPEATPMT": models.PaymentTransfer,
	"XFER":      models.PaymentTransfer,
	"CHECK":     models.PaymentSlip,
}

// OFXMapper normalizes raw OFX transaction nodes into canonical
// transactions.
type OFXMapper struct {
	now func() time.Time
}

func NewOFXMapper() *OFXMapper {
	return &OFXMapper{now: time.Now}
}

// Map converts every raw record, collecting per-row warnings for nodes
// with unparseable dates or amounts. Row failures never abort the batch.
func (m *OFXMapper) Map(result *models.ParseResult) ([]models.CanonicalTransaction, []models.RowWarning) {
	var txs []models.CanonicalTransaction
	var warnings []models.RowWarning

	for i, record := range result.Records {
		tx, err := m.mapRecord(record)
		if err != nil {
			warnings = append(warnings, models.RowWarning{
				Line:    i + 1,
				Message: err.Error(),
			})
			continue
		}
		txs = append(txs, tx)
	}
	return txs, warnings
}

func (m *OFXMapper) mapRecord(record models.RawStatementRecord) (models.CanonicalTransaction, error) {
	posted, err := utils.ParseCompactTimestamp(record[ofx.FieldPosted])
	if err != nil {
		return models.CanonicalTransaction{}, fmt.Errorf("bad posted timestamp: %v", err)
	}
	amountCents, err := ParseAmountCents(record[ofx.FieldAmount])
	if err != nil {
		return models.CanonicalTransaction{}, fmt.Errorf("bad amount: %v", err)
	}

	trnType := strings.ToUpper(strings.TrimSpace(record[ofx.FieldType]))

	var direction models.Direction
	switch {
	case amountCents < 0:
		direction = models.DirectionExpense
	case amountCents > 0:
		direction = models.DirectionIncome
	default:
		if d, ok := zeroAmountDirection[trnType]; ok {
			direction = d
		} else {
			direction = models.DirectionExpense
		}
	}

	hint, ok := paymentHints[trnType]
	if !ok {
		hint = models.PaymentDebitCard
	}

	rawName := strings.TrimSpace(record[ofx.FieldName])
	rawMemo := strings.TrimSpace(record[ofx.FieldMemo])
	original := rawName
	if original == "" {
		original = rawMemo
	}
	description := utils.SanitizeDescription(original)
	if description == "" {
		description = DefaultDescription
	}

	stableID := strings.TrimSpace(record[ofx.FieldStableID])

	return models.CanonicalTransaction{
		ExternalID:  stableID,
		Description: description,
		AmountCents: amountCents,
		PostedDate:  posted,
		Period:      utils.PeriodOf(posted),
		Direction:   direction,
		PaymentHint: hint,
		AuditNote: m.auditNote(stableID, original, description,
			record[ofx.FieldCheckNum], record[ofx.FieldReference]),
	}, nil
}

// auditNote records provenance for an imported transaction: import
// timestamp, the issuer's stable id, the original description when the
// sanitized one differs, and any check/reference numbers. The stable-id
// marker is what re-import prevention greps for later.
func (m *OFXMapper) auditNote(stableID, original, chosen, checkNum, refNum string) string {
	parts := []string{"imported=" + m.now().Format(time.RFC3339)}
	if stableID != "" {
		parts = append(parts, AuditStableID(stableID))
	}
	if original != "" && original != chosen {
		parts = append(parts, "original="+original)
	}
	if n := strings.TrimSpace(checkNum); n != "" {
		parts = append(parts, "check="+n)
	}
	if n := strings.TrimSpace(refNum); n != "" {
		parts = append(parts, "ref="+n)
	}
	return strings.Join(parts, " | ")
}

// AuditStableID renders the audit-note marker for a stable external id.
func AuditStableID(stableID string) string {
	return "fitid=" + stableID
}
