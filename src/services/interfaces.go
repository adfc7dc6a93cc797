package services

import (
	"errors"
	"io"

	"github.com/Dionizioaf/opensheets-app-sub000/src/model"
	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/processors"
)

var (
	ErrParsingFailed     = errors.New("statement parsing failed")
	ErrProcessingFailed  = errors.New("statement processing failed")
	ErrPersistenceFailed = errors.New("persisting ledger entries failed")
	ErrRateLimited       = errors.New("import rate limit exceeded")
)

// PreviewItem pairs one canonical transaction with what the detectors
// found about it.
type PreviewItem struct {
	Transaction models.CanonicalTransaction `json:"transaction"`
	Duplicates  []models.DuplicateMatch     `json:"duplicates,omitempty"`
	Suggestion  *models.CategorySuggestion  `json:"suggestion,omitempty"`
}

// ImportPreview is the full result of parsing and analyzing a statement,
// shown to the user before anything is written.
type ImportPreview struct {
	Items       []PreviewItem            `json:"items"`
	Format      models.StatementFormat   `json:"format"`
	Account     *models.StatementAccount `json:"account,omitempty"`
	RowWarnings []models.RowWarning      `json:"row_warnings,omitempty"`
}

// ImportOutcome reports what a confirmed import actually wrote. NoOp is
// set when every candidate was already imported, distinguishing that
// from a silent zero-row insert.
type ImportOutcome struct {
	Inserted          int     `json:"inserted"`
	SkippedDuplicates int     `json:"skipped_duplicates"`
	NoOp              bool    `json:"no_op"`
	EntryIDs          []int64 `json:"entry_ids,omitempty"`
}

// ImportService parses uploaded statements and turns confirmed
// transactions into ledger entries.
type ImportService interface {
	PreviewImport(fileReader io.Reader, userID, accountID int64, mapping *models.ColumnMapping) (*ImportPreview, error)
	ConfirmImport(userID, accountID int64, transactions []models.CanonicalTransaction, categoryIDs []*int64) (*ImportOutcome, error)
}

// LedgerService expands intents into entries and manages them afterwards.
type LedgerService interface {
	CreateFromIntent(intent models.LedgerEntryIntent) ([]models.LedgerEntry, error)
	ListEntries(filter processors.EntryFilter) ([]models.LedgerEntry, error)
	UpdateSeries(userID, entryID int64, scope models.SeriesScope, update model.EntryUpdate) (int64, error)
	DeleteSeries(userID, entryID int64, scope models.SeriesScope) (int64, error)
}
