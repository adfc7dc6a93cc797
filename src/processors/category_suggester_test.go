package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

func catID(id int64) *int64 { return &id }

func categorizedEntry(id, categoryID int64, desc string, cents int64, direction models.Direction) models.LedgerEntry {
	return models.LedgerEntry{
		ID:          id,
		UserID:      7,
		CategoryID:  catID(categoryID),
		Description: desc,
		AmountCents: cents,
		Direction:   direction,
		Date:        day(1),
	}
}

func suggestCandidate(desc string, cents int64, direction models.Direction) models.CanonicalTransaction {
	return models.CanonicalTransaction{
		Description: desc,
		AmountCents: cents,
		PostedDate:  day(15),
		Direction:   direction,
	}
}

func TestSuggestOneExactMatchWinsRegardlessOfAmount(t *testing.T) {
	corpus := &fakeCorpus{entries: []models.LedgerEntry{
		categorizedEntry(1, 10, "Netflix Brasil", -4290, models.DirectionExpense),
	}}
	suggester := NewCategorySuggester(corpus)

	got, err := suggester.SuggestOne(7, suggestCandidate("NETFLIX BRASIL", -999999, models.DirectionExpense))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.CategoryID)
	assert.Equal(t, models.ConfidenceHigh, got.Confidence)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, models.SuggestionExact, got.Reason)
}

func TestSuggestOneUsesPerCategoryAverage(t *testing.T) {
	// Category 20 has one strong hit; category 30 has several weaker ones.
	// The average decides, so the single strong hit wins.
	corpus := &fakeCorpus{entries: []models.LedgerEntry{
		categorizedEntry(1, 20, "SUPERMERCADO BOM PRECO", -15000, models.DirectionExpense),
		categorizedEntry(2, 30, "SUPERMERCADO", -8000, models.DirectionExpense),
		categorizedEntry(3, 30, "POSTO SHELL", -20000, models.DirectionExpense),
		categorizedEntry(4, 30, "PET SHOP AMIGO", -5000, models.DirectionExpense),
	}}
	suggester := NewCategorySuggester(corpus)

	got, err := suggester.SuggestOne(7, suggestCandidate("SUPERMERCADO BOM PRECO LTDA", -15000, models.DirectionExpense))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(20), got.CategoryID)
	assert.Equal(t, models.SuggestionFuzzy, got.Reason)
	assert.GreaterOrEqual(t, got.Score, confidenceMediumMin)
}

func TestSuggestOneBelowThresholdReturnsNil(t *testing.T) {
	corpus := &fakeCorpus{entries: []models.LedgerEntry{
		categorizedEntry(1, 20, "ALUGUEL APARTAMENTO", -250000, models.DirectionExpense),
	}}
	suggester := NewCategorySuggester(corpus)

	got, err := suggester.SuggestOne(7, suggestCandidate("FARMACIA POPULAR", -2500, models.DirectionExpense))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSuggestOneSkipsShortDescriptions(t *testing.T) {
	corpus := &fakeCorpus{entries: []models.LedgerEntry{
		categorizedEntry(1, 20, "TV", -4290, models.DirectionExpense),
	}}
	suggester := NewCategorySuggester(corpus)

	got, err := suggester.SuggestOne(7, suggestCandidate("TV", -4290, models.DirectionExpense))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSuggestOneFiltersByDirection(t *testing.T) {
	corpus := &fakeCorpus{entries: []models.LedgerEntry{
		categorizedEntry(1, 40, "SALARIO EMPRESA", 300000, models.DirectionIncome),
		categorizedEntry(2, 50, "SALARIO EMPRESA", -300000, models.DirectionExpense),
	}}
	suggester := NewCategorySuggester(corpus)

	got, err := suggester.SuggestOne(7, suggestCandidate("SALARIO EMPRESA", 300000, models.DirectionIncome))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(40), got.CategoryID)
}

func TestSuggestBatchOneFetchPerDirection(t *testing.T) {
	corpus := &fakeCorpus{entries: []models.LedgerEntry{
		categorizedEntry(1, 10, "Netflix Brasil", -4290, models.DirectionExpense),
		categorizedEntry(2, 40, "Salario Empresa", 300000, models.DirectionIncome),
	}}
	suggester := NewCategorySuggester(corpus)

	candidates := []models.CanonicalTransaction{
		suggestCandidate("NETFLIX BRASIL", -4290, models.DirectionExpense),
		suggestCandidate("PADARIA CENTRAL", -1250, models.DirectionExpense),
		suggestCandidate("SALARIO EMPRESA", 300000, models.DirectionIncome),
	}
	results, err := suggester.SuggestBatch(7, candidates)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 2, corpus.calls)

	require.NotNil(t, results[0])
	assert.Equal(t, int64(10), results[0].CategoryID)
	assert.Nil(t, results[1])
	require.NotNil(t, results[2])
	assert.Equal(t, int64(40), results[2].CategoryID)
}

func TestAmountProximity(t *testing.T) {
	assert.Equal(t, 1.0, amountProximity(-5000, -5000))
	// Relative to the candidate's own magnitude.
	assert.InDelta(t, 0.9, amountProximity(-5000, -4500), 1e-9)
	assert.Equal(t, 0.0, amountProximity(-500, -1500))
	// Zero candidate never divides by zero.
	assert.Equal(t, 0.0, amountProximity(0, 100))
}

func TestConfidenceBands(t *testing.T) {
	assert.Equal(t, models.ConfidenceHigh, confidenceBand(0.95))
	assert.Equal(t, models.ConfidenceHigh, confidenceBand(0.9))
	assert.Equal(t, models.ConfidenceMedium, confidenceBand(0.75))
	assert.Equal(t, models.ConfidenceLow, confidenceBand(0.55))
}
