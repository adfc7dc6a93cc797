package processors

import (
	"sort"
	"strings"
	"time"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

const (
	// DateToleranceDays is the symmetric window around candidate dates
	// inside which an existing entry can still be the same purchase.
	DateToleranceDays = 3

	// SimilarThreshold and LikelyThreshold band fuzzy matches. Below
	// LikelyThreshold a pair is not reported at all.
	SimilarThreshold = 0.8
	LikelyThreshold  = 0.6

	// Candidates with shorter normalized descriptions match everything
	// and nothing; they are skipped entirely.
	minMatchableDescriptionLen = 3
)

var matchPriority = map[models.MatchReason]int{
	models.MatchStableID: 0,
	models.MatchExact:    1,
	models.MatchSimilar:  2,
	models.MatchLikely:   3,
}

// DuplicateDetector flags candidate transactions that probably already
// exist in the ledger, to block double-import. One engine serves every
// account kind: credit-card exports flip amount signs relative to the
// ledger, so that kind compares magnitudes instead.
type DuplicateDetector struct {
	corpus EntryCorpus
}

func NewDuplicateDetector(corpus EntryCorpus) *DuplicateDetector {
	return &DuplicateDetector{corpus: corpus}
}

// CheckOne checks a single candidate, with the corpus additionally
// amount-filtered for non-card accounts. Note the documented gap this
// preserves: a bank-side amount correction reusing the same stable id
// will not be caught here, because the stable-id tier only sees
// amount-pre-filtered entries.
func (d *DuplicateDetector) CheckOne(userID, accountID int64, kind models.AccountKind, candidate models.CanonicalTransaction) ([]models.DuplicateMatch, error) {
	results, err := d.check(userID, accountID, kind, []models.CanonicalTransaction{candidate}, true)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// CheckBatch checks N candidates with exactly one corpus query. Results
// are identical to N independent CheckOne calls: the amount pre-filter
// is applied per candidate in memory.
func (d *DuplicateDetector) CheckBatch(userID, accountID int64, kind models.AccountKind, candidates []models.CanonicalTransaction) ([][]models.DuplicateMatch, error) {
	return d.check(userID, accountID, kind, candidates, false)
}

func (d *DuplicateDetector) check(userID, accountID int64, kind models.AccountKind, candidates []models.CanonicalTransaction, amountFiltered bool) ([][]models.DuplicateMatch, error) {
	results := make([][]models.DuplicateMatch, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	filter := EntryFilter{
		UserID:    userID,
		AccountID: accountID,
	}
	// Window spans the union of all candidate dates.
	for _, c := range candidates {
		if filter.DateFrom.IsZero() || c.PostedDate.Before(filter.DateFrom) {
			filter.DateFrom = c.PostedDate
		}
		if filter.DateTo.IsZero() || c.PostedDate.After(filter.DateTo) {
			filter.DateTo = c.PostedDate
		}
	}
	filter.DateFrom = filter.DateFrom.AddDate(0, 0, -DateToleranceDays)
	filter.DateTo = filter.DateTo.AddDate(0, 0, DateToleranceDays)
	// The store filter is exact signed equality, which can never express
	// the magnitude comparison credit-card accounts need (the ledger
	// stores the expense negative, the card export reports it positive).
	// That kind skips the pre-filter; matchCandidate compares in memory.
	if amountFiltered && kind != models.AccountCreditCard {
		amount := candidates[0].AmountCents
		filter.AmountCents = &amount
	}

	entries, err := d.corpus.ListEntries(filter)
	if err != nil {
		return nil, err
	}

	for i, candidate := range candidates {
		results[i] = d.matchCandidate(kind, candidate, entries)
	}
	return results, nil
}

// matchCandidate runs the tier cascade for one candidate over the amount
// pre-filtered slice of existing entries. First tier wins per pair.
func (d *DuplicateDetector) matchCandidate(kind models.AccountKind, candidate models.CanonicalTransaction, entries []models.LedgerEntry) []models.DuplicateMatch {
	normalized := utils.NormalizeForMatch(candidate.Description)
	if len([]rune(normalized)) < minMatchableDescriptionLen {
		return nil
	}

	candidateAmount := compareAmount(kind, candidate.AmountCents)

	var matches []models.DuplicateMatch
	for _, entry := range entries {
		if compareAmount(kind, entry.AmountCents) != candidateAmount {
			continue
		}

		if candidate.ExternalID != "" && strings.Contains(entry.AuditNote, AuditStableID(candidate.ExternalID)) {
			matches = append(matches, models.DuplicateMatch{
				ExistingEntryID: entry.ID,
				Reason:          models.MatchStableID,
				Similarity:      1.0,
			})
			continue
		}

		dayDiff := daysBetween(candidate.PostedDate, entry.Date)
		if dayDiff > DateToleranceDays {
			continue
		}

		entryNormalized := utils.NormalizeForMatch(entry.Description)
		if dayDiff == 0 && entryNormalized == normalized {
			matches = append(matches, models.DuplicateMatch{
				ExistingEntryID: entry.ID,
				Reason:          models.MatchExact,
				Similarity:      1.0,
			})
			continue
		}

		similarity := utils.Similarity(normalized, entryNormalized)
		switch {
		case similarity >= SimilarThreshold:
			matches = append(matches, models.DuplicateMatch{
				ExistingEntryID: entry.ID,
				Reason:          models.MatchSimilar,
				Similarity:      similarity,
			})
		case similarity >= LikelyThreshold:
			matches = append(matches, models.DuplicateMatch{
				ExistingEntryID: entry.ID,
				Reason:          models.MatchLikely,
				Similarity:      similarity,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := matchPriority[matches[i].Reason], matchPriority[matches[j].Reason]
		if pi != pj {
			return pi < pj
		}
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// compareAmount is the amount used for equality checks. Credit-card
// statements report charges with the opposite sign of the ledger, so
// that kind compares magnitudes.
func compareAmount(kind models.AccountKind, cents int64) int64 {
	if kind == models.AccountCreditCard {
		return utils.AbsInt64(cents)
	}
	return cents
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	diff := int(at.Sub(bt).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}
