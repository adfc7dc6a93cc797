package models

import "time"

// StatementFormat identifies which parser produced a result.
type StatementFormat string

const (
	FormatOFX       StatementFormat = "ofx"
	FormatDelimited StatementFormat = "delimited"
)

// RawStatementRecord is a single format-specific row or node before
// normalization: untyped key to value pairs keyed by the source's own
// field names (OFX tags or CSV header columns).
type RawStatementRecord map[string]string

// StatementAccount is the account identity extracted from an OFX header.
type StatementAccount struct {
	InstitutionID string      `json:"institution_id"`
	AccountNumber string      `json:"account_number"`
	Kind          AccountKind `json:"kind"`
}

// RowWarning records a non-fatal, row-scoped parse failure. The row is
// dropped; the batch continues.
type RowWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ParseResult is the output of a statement parser: raw records plus
// format metadata. File-level errors abort the parse entirely and are
// returned as an error instead, so FileErrors here only carries their
// user-facing rendering when a caller wants to report both.
type ParseResult struct {
	Records     []RawStatementRecord `json:"records"`
	Format      StatementFormat      `json:"format"`
	Account     *StatementAccount    `json:"account,omitempty"` // OFX only
	RangeStart  time.Time            `json:"range_start,omitempty"`
	RangeEnd    time.Time            `json:"range_end,omitempty"`
	Success     bool                 `json:"success"`
	FileErrors  []string             `json:"file_errors,omitempty"`
	RowWarnings []RowWarning         `json:"row_warnings,omitempty"`
}

// ColumnMapping tells the delimited-text mapper which header columns hold
// which canonical fields. Date and amount are mandatory, description is
// optional.
type ColumnMapping struct {
	DateColumn        string `json:"date_column"`
	AmountColumn      string `json:"amount_column"`
	DescriptionColumn string `json:"description_column,omitempty"`
}
