package utils

import (
	"regexp"
	"strings"
)

const (
	// MaxDescriptionLen caps sanitized descriptions before truncation.
	MaxDescriptionLen = 100

	// partialWeight is the fixed affine factor applied to windowed
	// (substring) similarity so that a contained description never
	// outranks a full exact match.
	partialWeight = 0.9
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Noisy issuer prefixes stripped from statement descriptions before use.
var noisyPrefixes = []string{
	"compra ",
	"pagamento ",
	"pgto ",
	"deb ",
	"deb. ",
	"pos ",
	"ted ",
	"tev ",
	"doc ",
}

// Noisy issuer suffixes stripped from statement descriptions.
var noisySuffixes = []string{
	" parc",
	" s/a",
	" ltda",
	" me",
}

// SanitizeDescription collapses whitespace, newlines and tabs into single
// spaces, trims, strips known noisy issuer prefixes/suffixes and truncates
// to MaxDescriptionLen with an ellipsis.
func SanitizeDescription(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	lower := strings.ToLower(s)
	for _, prefix := range noisyPrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			lower = strings.ToLower(s)
		}
	}
	for _, suffix := range noisySuffixes {
		if strings.HasSuffix(lower, suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			lower = strings.ToLower(s)
		}
	}

	if len(s) > MaxDescriptionLen {
		runes := []rune(s)
		if len(runes) > MaxDescriptionLen {
			s = strings.TrimSpace(string(runes[:MaxDescriptionLen-3])) + "..."
		}
	}
	return s
}

// NormalizeForMatch lowercases and collapses whitespace so two
// descriptions can be compared irrespective of case and spacing.
func NormalizeForMatch(s string) string {
	return strings.ToLower(strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " ")))
}

// Similarity scores the closeness of two descriptions in [0,1]. Inputs are
// normalized, then scored as the best of a whole-string Levenshtein ratio
// and a weighted windowed ratio (the shorter string slid over the longer),
// so "NETFLIX" vs "NETFLIX BRASIL" still scores high while genuinely
// different merchants do not.
func Similarity(a, b string) float64 {
	a = NormalizeForMatch(a)
	b = NormalizeForMatch(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	full := levenshteinRatio([]rune(a), []rune(b))
	partial := partialWeight * bestWindowRatio([]rune(a), []rune(b))
	if partial > full {
		return partial
	}
	return full
}

func levenshteinRatio(a, b []rune) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein(a, b)
	return 1 - float64(dist)/float64(longest)
}

// bestWindowRatio slides the shorter string across the longer one and
// returns the best per-window Levenshtein ratio.
func bestWindowRatio(a, b []rune) float64 {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}
	best := 0.0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := longer[start : start+len(shorter)]
		if r := levenshteinRatio(shorter, window); r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	// Shorter than any window: compare whole strings once.
	if best == 0 {
		best = levenshteinRatio(shorter, longer)
	}
	return best
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minOf3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minOf3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
