package processors

import (
	"time"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

// EntryFilter expresses corpus selection intent. The persistence
// collaborator translates it into whatever query language it speaks; the
// processors never build SQL themselves.
type EntryFilter struct {
	UserID          int64
	AccountID       int64 // 0 = any account
	DateFrom        time.Time
	DateTo          time.Time
	AmountCents     *int64 // exact signed amount, nil = any
	Direction       models.Direction
	OnlyCategorized bool
	OnlyImported    bool // entries carrying a statement audit note
	Limit           int
}

// EntryCorpus supplies the historical comparison corpus as a bounded list
// matching simple predicates.
type EntryCorpus interface {
	ListEntries(filter EntryFilter) ([]models.LedgerEntry, error)
}
