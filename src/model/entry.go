package model

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/processors"
)

var ErrEntryNotFound = errors.New("ledger entry not found")

const dateLayout = "2006-01-02"

// EntryStore is the persistence collaborator for ledger entries. It also
// serves as the historical comparison corpus for duplicate detection and
// category suggestion via ListEntries.
type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

// EntryUpdate carries the mutable fields of a bulk series update. Nil
// fields are left untouched; ClearCategory wins over CategoryID.
type EntryUpdate struct {
	Description   *string
	CategoryID    *int64
	ClearCategory bool
	Settlement    *models.Settlement
	PaymentMethod *models.PaymentMethod
}

// InsertEntries writes all entries in one transaction. The write is
// all-or-nothing: a partial series must never persist. IDs are set on
// the passed slice on success.
func (s *EntryStore) InsertEntries(entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT INTO ledger_entries (user_id, account_id, category_id, description, amount_cents,
		direction, date, period, series_id, occurrence_index, occurrence_total,
		payment_method, settlement, confirmation_date, payer, audit_note, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i := range entries {
		entry := &entries[i]
		entry.CreatedAt = now

		var categoryID sql.NullInt64
		if entry.CategoryID != nil {
			categoryID = sql.NullInt64{Int64: *entry.CategoryID, Valid: true}
		}
		var confirmation sql.NullString
		if entry.ConfirmationDate != nil {
			confirmation = sql.NullString{String: entry.ConfirmationDate.Format(dateLayout), Valid: true}
		}

		res, err := stmt.Exec(
			entry.UserID,
			entry.AccountID,
			categoryID,
			entry.Description,
			entry.AmountCents,
			string(entry.Direction),
			entry.Date.Format(dateLayout),
			entry.Period,
			entry.SeriesID,
			entry.OccurrenceIndex,
			entry.OccurrenceTotal,
			string(entry.PaymentMethod),
			string(entry.Settlement),
			confirmation,
			entry.Payer,
			entry.AuditNote,
			entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting ledger entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading inserted entry id: %w", err)
		}
		entry.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing ledger entries: %w", err)
	}
	return nil
}

const entryColumns = `id, user_id, account_id, category_id, description, amount_cents,
	direction, date, period, series_id, occurrence_index, occurrence_total,
	payment_method, settlement, confirmation_date, payer, audit_note, created_at`

// ListEntries translates a processor filter into SQL. The processors only
// express intent; all query building lives here.
func (s *EntryStore) ListEntries(filter processors.EntryFilter) ([]models.LedgerEntry, error) {
	query := "SELECT " + entryColumns + " FROM ledger_entries WHERE user_id = ?"
	args := []interface{}{filter.UserID}

	if filter.AccountID != 0 {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if !filter.DateFrom.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.DateFrom.Format(dateLayout))
	}
	if !filter.DateTo.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.DateTo.Format(dateLayout))
	}
	if filter.AmountCents != nil {
		query += " AND amount_cents = ?"
		args = append(args, *filter.AmountCents)
	}
	if filter.Direction != "" {
		query += " AND direction = ?"
		args = append(args, string(filter.Direction))
	}
	if filter.OnlyCategorized {
		query += " AND category_id IS NOT NULL"
	}
	if filter.OnlyImported {
		query += " AND audit_note LIKE 'imported=%'"
	}
	query += " ORDER BY date DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetEntry retrieves one of the user's entries by id.
func (s *EntryStore) GetEntry(userID, entryID int64) (*models.LedgerEntry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM ledger_entries WHERE id = ? AND user_id = ?",
		entryID, userID)
	entry, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// UpdateEntries applies a bulk update to the anchor entry's series at the
// given scope. Entries without a series always behave as scope CURRENT.
// Returns the number of rows touched.
func (s *EntryStore) UpdateEntries(userID, entryID int64, scope models.SeriesScope, update EntryUpdate) (int64, error) {
	anchor, err := s.GetEntry(userID, entryID)
	if err != nil {
		return 0, err
	}

	var sets []string
	var args []interface{}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	switch {
	case update.ClearCategory:
		sets = append(sets, "category_id = NULL")
	case update.CategoryID != nil:
		sets = append(sets, "category_id = ?")
		args = append(args, *update.CategoryID)
	}
	if update.Settlement != nil {
		sets = append(sets, "settlement = ?")
		args = append(args, string(*update.Settlement))
	}
	if update.PaymentMethod != nil {
		sets = append(sets, "payment_method = ?")
		args = append(args, string(*update.PaymentMethod))
	}
	if len(sets) == 0 {
		return 0, nil
	}

	where, whereArgs := seriesScopeClause(anchor, scope)
	query := "UPDATE ledger_entries SET " + strings.Join(sets, ", ") + " WHERE " + where
	args = append(args, whereArgs...)

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("updating ledger entries: %w", err)
	}
	return res.RowsAffected()
}

// DeleteEntries removes the anchor entry's series at the given scope.
// Returns the number of rows removed.
func (s *EntryStore) DeleteEntries(userID, entryID int64, scope models.SeriesScope) (int64, error) {
	anchor, err := s.GetEntry(userID, entryID)
	if err != nil {
		return 0, err
	}

	where, args := seriesScopeClause(anchor, scope)
	res, err := s.db.Exec("DELETE FROM ledger_entries WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting ledger entries: %w", err)
	}
	return res.RowsAffected()
}

// seriesScopeClause builds the WHERE clause selecting a scope of the
// anchor's series. THIS_AND_LATER compares zero-padded period labels,
// which sort chronologically as strings.
func seriesScopeClause(anchor *models.LedgerEntry, scope models.SeriesScope) (string, []interface{}) {
	if anchor.SeriesID == "" || scope == models.ScopeCurrent {
		return "id = ? AND user_id = ?", []interface{}{anchor.ID, anchor.UserID}
	}
	if scope == models.ScopeThisAndLater {
		return "user_id = ? AND series_id = ? AND period >= ?",
			[]interface{}{anchor.UserID, anchor.SeriesID, anchor.Period}
	}
	return "user_id = ? AND series_id = ?", []interface{}{anchor.UserID, anchor.SeriesID}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (models.LedgerEntry, error) {
	var entry models.LedgerEntry
	var direction, paymentMethod, settlement, date string
	var categoryID sql.NullInt64
	var confirmation, seriesID, payer, auditNote sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.AccountID,
		&categoryID,
		&entry.Description,
		&entry.AmountCents,
		&direction,
		&date,
		&entry.Period,
		&seriesID,
		&entry.OccurrenceIndex,
		&entry.OccurrenceTotal,
		&paymentMethod,
		&settlement,
		&confirmation,
		&payer,
		&auditNote,
		&entry.CreatedAt,
	)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	entry.Direction = models.Direction(direction)
	entry.PaymentMethod = models.PaymentMethod(paymentMethod)
	entry.Settlement = models.Settlement(settlement)
	entry.SeriesID = seriesID.String
	entry.Payer = payer.String
	entry.AuditNote = auditNote.String
	if categoryID.Valid {
		entry.CategoryID = &categoryID.Int64
	}

	entry.Date, err = time.Parse(dateLayout, date)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("parsing stored entry date %q: %w", date, err)
	}
	if confirmation.Valid {
		d, err := time.Parse(dateLayout, confirmation.String)
		if err != nil {
			return models.LedgerEntry{}, fmt.Errorf("parsing stored confirmation date %q: %w", confirmation.String, err)
		}
		entry.ConfirmationDate = &d
	}
	return entry, nil
}
