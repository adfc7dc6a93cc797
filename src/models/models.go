package models

import "time"

// Direction indicates whether money leaves or enters the ledger.
type Direction string

const (
	DirectionExpense Direction = "EXPENSE"
	DirectionIncome  Direction = "INCOME"
)

// PaymentMethod is how an entry was (or will be) paid.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentTransfer   PaymentMethod = "INSTANT_TRANSFER"
	PaymentSlip       PaymentMethod = "BILLED_SLIP"
)

// AccountKind mirrors the account type reported by the bank statement.
type AccountKind string

const (
	AccountChecking   AccountKind = "CHECKING"
	AccountSavings    AccountKind = "SAVINGS"
	AccountCreditCard AccountKind = "CREDIT_CARD"
)

// Settlement is the tri-state obligation status of a ledger entry.
// NOT_APPLICABLE is used for credit-card entries, which are reconciled
// against the card invoice by a separate process.
type Settlement string

const (
	SettlementPending       Settlement = "PENDING"
	SettlementSettled       Settlement = "SETTLED"
	SettlementNotApplicable Settlement = "NOT_APPLICABLE"
)

// Account is a bank account statements are imported into.
type Account struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	Name          string      `json:"name"`
	InstitutionID string      `json:"institution_id"`
	AccountNumber string      `json:"account_number"`
	Kind          AccountKind `json:"kind"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Category is a user-defined bucket for ledger entries.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
}

// CanonicalTransaction is the format-independent normalized transaction
// every statement parser converges to. Each mapper is responsible for
// populating as many fields as possible directly from its source format.
type CanonicalTransaction struct {
	ExternalID  string        `json:"external_id,omitempty"` // issuer stable id (FITID), empty for delimited files
	Description string        `json:"description"`
	AmountCents int64         `json:"amount_cents"` // signed: negative = expense
	PostedDate  time.Time     `json:"posted_date"`
	Period      string        `json:"period"` // zero-padded YEAR-MONTH of PostedDate
	Direction   Direction     `json:"direction"`
	PaymentHint PaymentMethod `json:"payment_hint"`
	AuditNote   string        `json:"audit_note,omitempty"`
}

// LedgerEntry is a persisted, dated, signed monetary record. It is both the
// expansion output and the historical comparison corpus item; serialization
// renames happen only at the JSON tags.
type LedgerEntry struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"user_id"`
	AccountID        int64         `json:"account_id,omitempty"` // 0 for manual entries
	CategoryID       *int64        `json:"category_id,omitempty"`
	Description      string        `json:"description"`
	AmountCents      int64         `json:"amount_cents"` // signed
	Direction        Direction     `json:"direction"`
	Date             time.Time     `json:"date"`
	Period           string        `json:"period"`
	SeriesID         string        `json:"series_id,omitempty"` // shared uuid, empty for single entries
	OccurrenceIndex  int           `json:"occurrence_index,omitempty"`
	OccurrenceTotal  int           `json:"occurrence_total,omitempty"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Settlement       Settlement    `json:"settlement"`
	ConfirmationDate *time.Time    `json:"confirmation_date,omitempty"` // slip entries only, set when settled
	Payer            string        `json:"payer,omitempty"`
	AuditNote        string        `json:"audit_note,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// SeriesScope selects which occurrences of a series a bulk mutation or
// delete touches. LATER compares period labels chronologically, not
// occurrence indexes.
type SeriesScope string

const (
	ScopeCurrent      SeriesScope = "CURRENT"
	ScopeThisAndLater SeriesScope = "THIS_AND_LATER"
	ScopeAll          SeriesScope = "ALL"
)

// MatchReason classifies why a candidate was flagged as a duplicate,
// strongest first.
type MatchReason string

const (
	MatchStableID MatchReason = "STABLE_ID"
	MatchExact    MatchReason = "EXACT"
	MatchSimilar  MatchReason = "SIMILAR"
	MatchLikely   MatchReason = "LIKELY"
)

// DuplicateMatch points a candidate transaction at an existing ledger
// entry. Computed on demand, never persisted.
type DuplicateMatch struct {
	ExistingEntryID int64       `json:"existing_entry_id"`
	Reason          MatchReason `json:"reason"`
	Similarity      float64     `json:"similarity"`
}

// SuggestionConfidence bands a category suggestion score.
type SuggestionConfidence string

const (
	ConfidenceHigh   SuggestionConfidence = "HIGH"
	ConfidenceMedium SuggestionConfidence = "MEDIUM"
	ConfidenceLow    SuggestionConfidence = "LOW"
)

// SuggestionReason tells how a suggestion was derived.
type SuggestionReason string

const (
	SuggestionExact SuggestionReason = "EXACT"
	SuggestionFuzzy SuggestionReason = "FUZZY"
)

// CategorySuggestion proposes a category from the user's own history.
// Computed on demand, never persisted.
type CategorySuggestion struct {
	CategoryID int64                `json:"category_id"`
	Confidence SuggestionConfidence `json:"confidence"`
	Score      float64              `json:"score"`
	Reason     SuggestionReason     `json:"reason"`
}
