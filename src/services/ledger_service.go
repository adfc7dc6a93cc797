package services

import (
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
	"github.com/Dionizioaf/opensheets-app-sub000/src/model"
	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/processors"
)

type ledgerServiceImpl struct {
	entryStore  *model.EntryStore
	expander    *processors.LedgerExpander
	reportCache *cache.Cache
}

func NewLedgerService(entryStore *model.EntryStore, expander *processors.LedgerExpander, reportCache *cache.Cache) LedgerService {
	return &ledgerServiceImpl{
		entryStore:  entryStore,
		expander:    expander,
		reportCache: reportCache,
	}
}

// CreateFromIntent expands one intent and persists the result in a single
// transaction. A failed expansion or write leaves nothing behind.
func (s *ledgerServiceImpl) CreateFromIntent(intent models.LedgerEntryIntent) ([]models.LedgerEntry, error) {
	entries, err := s.expander.Expand(intent)
	if err != nil {
		return nil, err
	}
	if err := s.entryStore.InsertEntries(entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	InvalidateUserCache(s.reportCache, intent.UserID)

	logger.L.Info("Created ledger entries from intent", "userID", intent.UserID,
		"condition", intent.Condition.Type, "entries", len(entries))
	return entries, nil
}

// ListEntries reads entries through the cache. Only the unfiltered
// per-user listing is cached; filtered queries go straight to the store.
func (s *ledgerServiceImpl) ListEntries(filter processors.EntryFilter) ([]models.LedgerEntry, error) {
	cacheable := filter == processors.EntryFilter{UserID: filter.UserID}
	cacheKey := fmt.Sprintf(ckEntriesForUser, filter.UserID)

	if cacheable {
		if cached, found := s.reportCache.Get(cacheKey); found {
			logger.L.Debug("Cache hit for ListEntries", "userID", filter.UserID)
			return cached.([]models.LedgerEntry), nil
		}
	}

	entries, err := s.entryStore.ListEntries(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	if cacheable {
		s.reportCache.Set(cacheKey, entries, DefaultCacheExpiration)
	}
	return entries, nil
}

// UpdateSeries applies a bulk update at the given series scope.
func (s *ledgerServiceImpl) UpdateSeries(userID, entryID int64, scope models.SeriesScope, update model.EntryUpdate) (int64, error) {
	affected, err := s.entryStore.UpdateEntries(userID, entryID, scope, update)
	if err != nil {
		if err == model.ErrEntryNotFound {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	InvalidateUserCache(s.reportCache, userID)
	logger.L.Info("Updated ledger series", "userID", userID, "entryID", entryID,
		"scope", scope, "affected", affected)
	return affected, nil
}

// DeleteSeries removes entries at the given series scope.
func (s *ledgerServiceImpl) DeleteSeries(userID, entryID int64, scope models.SeriesScope) (int64, error) {
	affected, err := s.entryStore.DeleteEntries(userID, entryID, scope)
	if err != nil {
		if err == model.ErrEntryNotFound {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	InvalidateUserCache(s.reportCache, userID)
	logger.L.Info("Deleted ledger series", "userID", userID, "entryID", entryID,
		"scope", scope, "affected", affected)
	return affected, nil
}
