package processors

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

const (
	// Installment and recurring series must span at least 2 and at most
	// 60 monthly occurrences.
	MinOccurrences = 2
	MaxOccurrences = 60
)

// LedgerExpander turns one intent into its concrete ledger rows. The
// expansion is pure and deterministic: no side effects, safe to re-run,
// all persistence happens later in one atomic write by the caller.
type LedgerExpander struct {
	newSeriesID func() string
	now         func() time.Time
}

func NewLedgerExpander() *LedgerExpander {
	return &LedgerExpander{
		newSeriesID: uuid.NewString,
		now:         time.Now,
	}
}

// Expand validates the intent and produces its 1..N entries. Validation
// is fail-fast: a bad intent yields zero entries, never a partial list.
func (e *LedgerExpander) Expand(intent models.LedgerEntryIntent) ([]models.LedgerEntry, error) {
	if err := e.validate(intent); err != nil {
		return nil, err
	}

	occurrences := 1
	seriesID := ""
	if intent.Condition.Type != models.ConditionSingle {
		occurrences = intent.Condition.Occurrences
		seriesID = e.newSeriesID()
	}

	// Split first, then installments: each payer's own total is divided
	// across its own series, so every payer's series sums exactly.
	payerTotals := e.payerTotals(intent)

	basePeriod := utils.PeriodOf(intent.Date)

	var entries []models.LedgerEntry
	for _, pt := range payerTotals {
		perOccurrence := e.occurrenceAmounts(intent.Condition.Type, pt.amountCents, occurrences)
		for i := 0; i < occurrences; i++ {
			date := utils.AddMonthsClamped(intent.Date, i)
			period, err := utils.AdvancePeriod(basePeriod, i)
			if err != nil {
				return nil, err
			}
			entry := models.LedgerEntry{
				UserID:        intent.UserID,
				AccountID:     intent.AccountID,
				CategoryID:    intent.CategoryID,
				Description:   intent.Description,
				AmountCents:   signedCents(perOccurrence[i], intent.Direction),
				Direction:     intent.Direction,
				Date:          date,
				Period:        period,
				PaymentMethod: intent.PaymentMethod,
				Payer:         pt.payer,
				AuditNote:     intent.AuditNote,
			}
			if seriesID != "" {
				entry.SeriesID = seriesID
				entry.OccurrenceIndex = i + 1
				entry.OccurrenceTotal = occurrences
			}
			e.applySettlement(&entry, intent, i)
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type payerTotal struct {
	payer       string
	amountCents int64
}

// payerTotals resolves the split into per-payer totals. No split means
// one anonymous payer carrying the whole amount. Zero explicit shares
// request an equal split of the total.
func (e *LedgerExpander) payerTotals(intent models.LedgerEntryIntent) []payerTotal {
	if len(intent.SplitShares) == 0 {
		return []payerTotal{{amountCents: intent.TotalAmountCents}}
	}
	if intent.SplitShares[0].AmountCents == 0 && intent.SplitShares[1].AmountCents == 0 {
		halves := utils.SplitCents(intent.TotalAmountCents, 2)
		return []payerTotal{
			{payer: intent.SplitShares[0].Payer, amountCents: halves[0]},
			{payer: intent.SplitShares[1].Payer, amountCents: halves[1]},
		}
	}
	return []payerTotal{
		{payer: intent.SplitShares[0].Payer, amountCents: intent.SplitShares[0].AmountCents},
		{payer: intent.SplitShares[1].Payer, amountCents: intent.SplitShares[1].AmountCents},
	}
}

// occurrenceAmounts gives the cents magnitude of each occurrence.
// Installments divide the total; recurring repeats it.
func (e *LedgerExpander) occurrenceAmounts(condition models.ConditionType, totalCents int64, occurrences int) []int64 {
	if condition == models.ConditionInstallment {
		return utils.SplitCents(totalCents, occurrences)
	}
	amounts := make([]int64, occurrences)
	for i := range amounts {
		amounts[i] = totalCents
	}
	return amounts
}

// applySettlement sets the entry's settlement state for occurrence
// offset i (0-based). Credit-card entries are reconciled against the
// invoice elsewhere and never carry their own settled flag. Slip entries
// record a confirmation date when settled: the explicit date advanced
// per occurrence, else today.
func (e *LedgerExpander) applySettlement(entry *models.LedgerEntry, intent models.LedgerEntryIntent, i int) {
	if intent.PaymentMethod == models.PaymentCreditCard {
		entry.Settlement = models.SettlementNotApplicable
		return
	}

	settled := intent.InitialSettled && i == 0
	if settled {
		entry.Settlement = models.SettlementSettled
	} else {
		entry.Settlement = models.SettlementPending
	}

	if intent.PaymentMethod == models.PaymentSlip && settled {
		var confirmation time.Time
		if intent.ConfirmationDate != nil {
			confirmation = utils.AddMonthsClamped(*intent.ConfirmationDate, i)
		} else {
			confirmation = e.now()
		}
		entry.ConfirmationDate = &confirmation
	}
}

func (e *LedgerExpander) validate(intent models.LedgerEntryIntent) error {
	if strings.TrimSpace(intent.Description) == "" {
		return &models.FieldValidationError{Field: "description", Message: "a description is required"}
	}
	if intent.TotalAmountCents <= 0 {
		return &models.FieldValidationError{Field: "total_amount_cents", Message: "the amount must be positive"}
	}
	if intent.Date.IsZero() {
		return &models.FieldValidationError{Field: "date", Message: "a date is required"}
	}
	if intent.Direction != models.DirectionExpense && intent.Direction != models.DirectionIncome {
		return &models.FieldValidationError{Field: "direction", Message: "unknown direction"}
	}

	switch intent.Condition.Type {
	case models.ConditionSingle:
	case models.ConditionInstallment, models.ConditionRecurring:
		k := intent.Condition.Occurrences
		if k < MinOccurrences || k > MaxOccurrences {
			return &models.FieldValidationError{Field: "condition.occurrences", Message: "occurrences must be between 2 and 60"}
		}
	default:
		return &models.FieldValidationError{Field: "condition.type", Message: "unknown condition type"}
	}

	if n := len(intent.SplitShares); n != 0 {
		if n != 2 {
			return &models.FieldValidationError{Field: "split_shares", Message: "a split needs exactly two payers"}
		}
		a, b := intent.SplitShares[0], intent.SplitShares[1]
		if strings.TrimSpace(a.Payer) == "" || strings.TrimSpace(b.Payer) == "" {
			return &models.FieldValidationError{Field: "split_shares", Message: "both payers must be named"}
		}
		if strings.EqualFold(strings.TrimSpace(a.Payer), strings.TrimSpace(b.Payer)) {
			return &models.FieldValidationError{Field: "split_shares", Message: "the two payers must be distinct"}
		}
		bothZero := a.AmountCents == 0 && b.AmountCents == 0
		if !bothZero {
			if a.AmountCents < 0 || b.AmountCents < 0 {
				return &models.FieldValidationError{Field: "split_shares", Message: "shares cannot be negative"}
			}
			if a.AmountCents+b.AmountCents != intent.TotalAmountCents {
				return &models.FieldValidationError{
					Field: "split_shares",
					Message: fmt.Sprintf("the two shares sum to %s, the total is %s",
						FormatCents(a.AmountCents+b.AmountCents), FormatCents(intent.TotalAmountCents)),
				}
			}
		}
	}
	return nil
}

func signedCents(magnitude int64, direction models.Direction) int64 {
	if direction == models.DirectionExpense {
		return -magnitude
	}
	return magnitude
}

// FilterImported is the idempotent-import guard for the statement path:
// candidates whose stable external id already appears in an imported
// entry's audit note are dropped before expansion. Returns the kept
// candidates, their original indexes (so per-row choices like category
// ids stay aligned) and how many were skipped.
func FilterImported(candidates []models.CanonicalTransaction, existing []models.LedgerEntry) (kept []models.CanonicalTransaction, keptIndexes []int, skipped int) {
	for i, candidate := range candidates {
		if AlreadyImported(existing, candidate.ExternalID) {
			skipped++
			continue
		}
		kept = append(kept, candidate)
		keptIndexes = append(keptIndexes, i)
	}
	return kept, keptIndexes, skipped
}

// AlreadyImported reports whether a stable external id is present in any
// existing entry's audit note. An empty id never matches.
func AlreadyImported(existing []models.LedgerEntry, externalID string) bool {
	if externalID == "" {
		return false
	}
	marker := AuditStableID(externalID)
	for _, entry := range existing {
		if strings.Contains(entry.AuditNote, marker) {
			return true
		}
	}
	return false
}
