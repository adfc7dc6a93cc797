package processors

import (
	"strings"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

const (
	// Corpus caps keep the fuzzy pass bounded. Batch gets a larger cap
	// because one fetch serves many candidates.
	suggestCorpusCapSingle = 500
	suggestCorpusCapBatch  = 1000

	// SuggestionThreshold is the floor below which no suggestion is
	// returned at all.
	SuggestionThreshold = 0.5

	// Confidence bands, strictly ordered High > Medium > Low.
	confidenceHighMin   = 0.9
	confidenceMediumMin = 0.7

	// Blend weights when the candidate amount is known.
	textWeight   = 0.8
	amountWeight = 0.2
)

// CategorySuggester proposes a category for an uncategorized transaction
// from the user's own categorized history. Suggestions are computed on
// demand and never persisted.
type CategorySuggester struct {
	corpus EntryCorpus
}

func NewCategorySuggester(corpus EntryCorpus) *CategorySuggester {
	return &CategorySuggester{corpus: corpus}
}

// SuggestOne proposes a category for a single candidate. Returns nil
// when the description is too short to match or nothing clears the
// threshold.
func (s *CategorySuggester) SuggestOne(userID int64, candidate models.CanonicalTransaction) (*models.CategorySuggestion, error) {
	entries, err := s.fetchCorpus(userID, candidate.Direction, suggestCorpusCapSingle)
	if err != nil {
		return nil, err
	}
	return s.suggest(candidate, entries), nil
}

// SuggestBatch proposes categories for N candidates with one corpus
// fetch per direction present in the batch. The result slice is index
// aligned with candidates; entries may be nil.
func (s *CategorySuggester) SuggestBatch(userID int64, candidates []models.CanonicalTransaction) ([]*models.CategorySuggestion, error) {
	results := make([]*models.CategorySuggestion, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	byDirection := make(map[models.Direction][]models.LedgerEntry)
	for i, candidate := range candidates {
		entries, ok := byDirection[candidate.Direction]
		if !ok {
			var err error
			entries, err = s.fetchCorpus(userID, candidate.Direction, suggestCorpusCapBatch)
			if err != nil {
				return nil, err
			}
			byDirection[candidate.Direction] = entries
		}
		results[i] = s.suggest(candidate, entries)
	}
	return results, nil
}

func (s *CategorySuggester) fetchCorpus(userID int64, direction models.Direction, limit int) ([]models.LedgerEntry, error) {
	return s.corpus.ListEntries(EntryFilter{
		UserID:          userID,
		Direction:       direction,
		OnlyCategorized: true,
		Limit:           limit,
	})
}

func (s *CategorySuggester) suggest(candidate models.CanonicalTransaction, entries []models.LedgerEntry) *models.CategorySuggestion {
	normalized := utils.NormalizeForMatch(candidate.Description)
	if len([]rune(normalized)) < minMatchableDescriptionLen {
		return nil
	}

	// Exact case-insensitive match wins outright, amount ignored.
	for _, entry := range entries {
		if entry.CategoryID == nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(entry.Description), strings.TrimSpace(candidate.Description)) {
			return &models.CategorySuggestion{
				CategoryID: *entry.CategoryID,
				Confidence: models.ConfidenceHigh,
				Score:      1.0,
				Reason:     models.SuggestionExact,
			}
		}
	}

	// True per-category average: a category with many moderate hits only
	// beats a single high hit if its average is higher.
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, entry := range entries {
		if entry.CategoryID == nil {
			continue
		}
		score := utils.Similarity(normalized, utils.NormalizeForMatch(entry.Description))
		if candidate.AmountCents != 0 {
			score = textWeight*score + amountWeight*amountProximity(candidate.AmountCents, entry.AmountCents)
		}
		sums[*entry.CategoryID] += score
		counts[*entry.CategoryID]++
	}

	var bestID int64
	bestScore := -1.0
	for id, sum := range sums {
		avg := sum / float64(counts[id])
		if avg > bestScore || (avg == bestScore && id < bestID) {
			bestID = id
			bestScore = avg
		}
	}

	if bestScore < SuggestionThreshold {
		return nil
	}
	return &models.CategorySuggestion{
		CategoryID: bestID,
		Confidence: confidenceBand(bestScore),
		Score:      bestScore,
		Reason:     models.SuggestionFuzzy,
	}
}

// amountProximity scores how close two signed amounts are, in [0,1].
// The candidate's own magnitude is the normalizer, so proximity is
// relative: 45.00 vs 50.00 scores much better than 5.00 vs 10.00.
func amountProximity(candidateCents, entryCents int64) float64 {
	normalizer := utils.AbsInt64(candidateCents)
	if normalizer < 1 {
		normalizer = 1
	}
	delta := utils.AbsInt64(candidateCents - entryCents)
	p := 1 - float64(delta)/float64(normalizer)
	if p < 0 {
		return 0
	}
	return p
}

func confidenceBand(score float64) models.SuggestionConfidence {
	switch {
	case score >= confidenceHighMin:
		return models.ConfidenceHigh
	case score >= confidenceMediumMin:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
