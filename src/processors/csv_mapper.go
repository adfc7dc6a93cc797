package processors

import (
	"fmt"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

// CSVMapper normalizes delimited-text records into canonical transactions
// through a user-supplied column mapping.
type CSVMapper struct{}

func NewCSVMapper() *CSVMapper {
	return &CSVMapper{}
}

// ValidateMapping checks the column mapping before any row is touched.
// Date and amount are mandatory; description is optional.
func (m *CSVMapper) ValidateMapping(mapping models.ColumnMapping) error {
	if mapping.DateColumn == "" {
		return &models.FieldValidationError{Field: "date_column", Message: "a date column mapping is required"}
	}
	if mapping.AmountColumn == "" {
		return &models.FieldValidationError{Field: "amount_column", Message: "an amount column mapping is required"}
	}
	return nil
}

// Map converts every raw record using the mapping. Rows with an
// unparseable date or amount are dropped with a warning; the batch
// continues. A bad mapping fails before any row is processed.
func (m *CSVMapper) Map(result *models.ParseResult, mapping models.ColumnMapping) ([]models.CanonicalTransaction, []models.RowWarning, error) {
	if err := m.ValidateMapping(mapping); err != nil {
		return nil, nil, err
	}

	var txs []models.CanonicalTransaction
	var warnings []models.RowWarning

	for i, record := range result.Records {
		line := i + 2 // header is line 1

		date, err := utils.ParseFlexibleDate(record[mapping.DateColumn])
		if err != nil {
			warnings = append(warnings, models.RowWarning{Line: line, Message: fmt.Sprintf("bad date: %v", err)})
			continue
		}
		amountCents, err := ParseAmountCents(record[mapping.AmountColumn])
		if err != nil {
			warnings = append(warnings, models.RowWarning{Line: line, Message: fmt.Sprintf("bad amount: %v", err)})
			continue
		}

		direction := models.DirectionIncome
		if amountCents < 0 {
			direction = models.DirectionExpense
		}

		description := DefaultDescription
		if mapping.DescriptionColumn != "" {
			if d := utils.SanitizeDescription(record[mapping.DescriptionColumn]); d != "" {
				description = d
			}
		}

		txs = append(txs, models.CanonicalTransaction{
			Description: description,
			AmountCents: amountCents,
			PostedDate:  date,
			Period:      utils.PeriodOf(date),
			Direction:   direction,
			PaymentHint: models.PaymentDebitCard,
		})
	}

	return txs, warnings, nil
}
