package models

import "time"

// ConditionType says how an intent unfolds over time.
type ConditionType string

const (
	ConditionSingle      ConditionType = "SINGLE"
	ConditionInstallment ConditionType = "INSTALLMENT"
	ConditionRecurring   ConditionType = "RECURRING"
)

// EntryCondition pairs a condition with its occurrence count. Occurrences
// is ignored for SINGLE and must be within [2,60] otherwise.
type EntryCondition struct {
	Type        ConditionType `json:"type"`
	Occurrences int           `json:"occurrences,omitempty"`
}

// PayerShare is one side of a two-payer split. AmountCents is that payer's
// share of the intent total; the two shares must sum to the total. Leaving
// both amounts zero requests an equal split.
type PayerShare struct {
	Payer       string `json:"payer"`
	AmountCents int64  `json:"amount_cents"`
}

// LedgerEntryIntent is one user-specified financial intent, expanded by the
// ledger expander into one or more concrete entries.
type LedgerEntryIntent struct {
	UserID           int64         `json:"user_id"`
	AccountID        int64         `json:"account_id,omitempty"`
	CategoryID       *int64        `json:"category_id,omitempty"`
	Description      string        `json:"description"`
	TotalAmountCents int64         `json:"total_amount_cents"` // positive magnitude; sign comes from Direction
	Date             time.Time     `json:"date"`
	Direction        Direction     `json:"direction"`
	Condition        EntryCondition `json:"condition"`
	SplitShares      []PayerShare  `json:"split_shares,omitempty"` // empty, or exactly 2 distinct payers
	PaymentMethod    PaymentMethod `json:"payment_method"`
	InitialSettled   bool          `json:"initial_settled"`
	ConfirmationDate *time.Time    `json:"confirmation_date,omitempty"` // slip entries: explicit confirmation date
	AuditNote        string        `json:"audit_note,omitempty"`
	ExternalID       string        `json:"external_id,omitempty"` // set on the statement-import path
}
