package services

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Dionizioaf/opensheets-app-sub000/src/database"
	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
	"github.com/Dionizioaf/opensheets-app-sub000/src/model"
	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/parsers"
	"github.com/Dionizioaf/opensheets-app-sub000/src/processors"
)

const (
	ckEntriesForUser = "res_entries_user_%d"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type importServiceImpl struct {
	entryStore  *model.EntryStore
	ofxMapper   *processors.OFXMapper
	csvMapper   *processors.CSVMapper
	detector    *processors.DuplicateDetector
	suggester   *processors.CategorySuggester
	expander    *processors.LedgerExpander
	limiter     *RateLimiter
	reportCache *cache.Cache
}

func NewImportService(
	entryStore *model.EntryStore,
	detector *processors.DuplicateDetector,
	suggester *processors.CategorySuggester,
	expander *processors.LedgerExpander,
	limiter *RateLimiter,
	reportCache *cache.Cache,
) ImportService {
	return &importServiceImpl{
		entryStore:  entryStore,
		ofxMapper:   processors.NewOFXMapper(),
		csvMapper:   processors.NewCSVMapper(),
		detector:    detector,
		suggester:   suggester,
		expander:    expander,
		limiter:     limiter,
		reportCache: reportCache,
	}
}

// PreviewImport parses a statement, maps it to canonical transactions and
// runs duplicate detection plus category suggestion over the batch.
// Nothing is persisted.
func (s *importServiceImpl) PreviewImport(fileReader io.Reader, userID, accountID int64, mapping *models.ColumnMapping) (*ImportPreview, error) {
	startTime := time.Now()
	logger.L.Info("PreviewImport START", "userID", userID, "accountID", accountID)

	if err := s.limiter.Allow(userID); err != nil {
		return nil, err
	}

	account, err := model.GetAccount(database.DB, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	raw, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrParsingFailed, err)
	}

	format := parsers.DetectFormat(raw)
	parser, err := parsers.GetParser(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	parseResult, err := parser.Parse(bytes.NewReader(raw))
	if err != nil {
		// Double-wrap so callers can still match the parser sentinel,
		// e.g. a well-formed but empty statement stays distinguishable
		// from a corrupt one.
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	var txs []models.CanonicalTransaction
	var mapWarnings []models.RowWarning
	switch format {
	case models.FormatOFX:
		txs, mapWarnings = s.ofxMapper.Map(parseResult)
	case models.FormatDelimited:
		if mapping == nil {
			return nil, &models.FieldValidationError{Field: "mapping", Message: "a column mapping is required for delimited files"}
		}
		txs, mapWarnings, err = s.csvMapper.Map(parseResult, *mapping)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrParsingFailed, format)
	}

	duplicates, err := s.detector.CheckBatch(userID, accountID, account.Kind, txs)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate detection: %v", ErrProcessingFailed, err)
	}
	suggestions, err := s.suggester.SuggestBatch(userID, txs)
	if err != nil {
		return nil, fmt.Errorf("%w: category suggestion: %v", ErrProcessingFailed, err)
	}

	preview := &ImportPreview{
		Format:      format,
		Account:     parseResult.Account,
		RowWarnings: append(parseResult.RowWarnings, mapWarnings...),
	}
	for i, tx := range txs {
		preview.Items = append(preview.Items, PreviewItem{
			Transaction: tx,
			Duplicates:  duplicates[i],
			Suggestion:  suggestions[i],
		})
	}

	logger.L.Info("PreviewImport END", "userID", userID,
		"transactions", len(txs), "warnings", len(preview.RowWarnings),
		"duration", time.Since(startTime))
	return preview, nil
}

// ConfirmImport writes confirmed transactions as ledger entries. The
// idempotency guard drops candidates whose stable id already exists in an
// imported entry's audit note; an all-duplicate batch reports a no-op.
// The write is a single transaction, never a partial batch.
func (s *importServiceImpl) ConfirmImport(userID, accountID int64, transactions []models.CanonicalTransaction, categoryIDs []*int64) (*ImportOutcome, error) {
	startTime := time.Now()
	logger.L.Info("ConfirmImport START", "userID", userID, "accountID", accountID, "candidates", len(transactions))

	if len(transactions) == 0 {
		return &ImportOutcome{NoOp: true}, nil
	}

	existing, err := s.entryStore.ListEntries(processors.EntryFilter{
		UserID:       userID,
		AccountID:    accountID,
		OnlyImported: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	kept, keptIndexes, skipped := processors.FilterImported(transactions, existing)

	var entries []models.LedgerEntry
	for n, tx := range kept {
		var categoryID *int64
		if i := keptIndexes[n]; i < len(categoryIDs) {
			categoryID = categoryIDs[i]
		}

		intent := models.LedgerEntryIntent{
			UserID:           userID,
			AccountID:        accountID,
			CategoryID:       categoryID,
			Description:      tx.Description,
			TotalAmountCents: absCents(tx.AmountCents),
			Date:             tx.PostedDate,
			Direction:        tx.Direction,
			Condition:        models.EntryCondition{Type: models.ConditionSingle},
			PaymentMethod:    tx.PaymentHint,
			InitialSettled:   true, // statement rows already happened
			AuditNote:        tx.AuditNote,
			ExternalID:       tx.ExternalID,
		}
		expanded, err := s.expander.Expand(intent)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
		}
		entries = append(entries, expanded...)
	}

	if len(entries) == 0 {
		logger.L.Info("ConfirmImport no-op, every candidate already imported",
			"userID", userID, "skipped", skipped)
		return &ImportOutcome{SkippedDuplicates: skipped, NoOp: true}, nil
	}

	if err := s.entryStore.InsertEntries(entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	InvalidateUserCache(s.reportCache, userID)

	outcome := &ImportOutcome{
		Inserted:          len(entries),
		SkippedDuplicates: skipped,
	}
	for _, e := range entries {
		outcome.EntryIDs = append(outcome.EntryIDs, e.ID)
	}

	logger.L.Info("ConfirmImport END", "userID", userID,
		"inserted", outcome.Inserted, "skipped", skipped,
		"duration", time.Since(startTime))
	return outcome, nil
}

func absCents(cents int64) int64 {
	if cents < 0 {
		return -cents
	}
	return cents
}

// InvalidateUserCache clears cached ledger data for a user, forcing a
// rebuild on the next read.
func InvalidateUserCache(c *cache.Cache, userID int64) {
	c.Delete(fmt.Sprintf(ckEntriesForUser, userID))
	logger.L.Info("Invalidated ledger caches for user", "userID", userID)
}
