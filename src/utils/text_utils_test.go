package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses whitespace", "NETFLIX\t\n  STREAMING", "NETFLIX STREAMING"},
		{"trims", "   PADARIA CENTRAL   ", "PADARIA CENTRAL"},
		{"strips noisy prefix", "COMPRA SUPERMERCADO BOM", "SUPERMERCADO BOM"},
		{"strips noisy suffix", "TRANSPORTES UNIDOS LTDA", "TRANSPORTES UNIDOS"},
		{"prefix and suffix together", "PGTO ACADEMIA FORMA S/A", "ACADEMIA FORMA"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeDescription(tt.input))
		})
	}
}

func TestSanitizeDescriptionTruncates(t *testing.T) {
	long := strings.Repeat("A", 150)
	got := SanitizeDescription(long)
	assert.LessOrEqual(t, len([]rune(got)), MaxDescriptionLen)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestNormalizeForMatch(t *testing.T) {
	assert.Equal(t, "netflix brasil", NormalizeForMatch("  NETFLIX   Brasil "))
	assert.Equal(t, "", NormalizeForMatch("   "))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("NETFLIX", "netflix"))
	assert.Equal(t, 0.0, Similarity("", "anything"))

	// A description contained in a longer one must clear the similar
	// threshold used by duplicate detection.
	contained := Similarity("NETFLIX", "NETFLIX BRASIL")
	assert.GreaterOrEqual(t, contained, 0.8)
	assert.Less(t, contained, 1.0)

	// Genuinely different merchants stay low.
	different := Similarity("PADARIA CENTRAL", "POSTO SHELL")
	assert.Less(t, different, 0.6)
}

func TestSimilarityIsSymmetric(t *testing.T) {
	a, b := "SUPERMERCADO BOM PRECO", "SUPERMERCADO"
	assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-9)
}
