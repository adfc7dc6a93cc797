package processors

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmountCents parses a statement amount string into signed cents.
// Both regional conventions are accepted: thousands-period/decimal-comma
// ("1.234,56") and thousands-comma/decimal-period ("1,234.56"), with an
// optional currency-symbol prefix and either parentheses or a leading
// hyphen for negatives. The value is normalized to exactly two decimals.
func ParseAmountCents(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimSpace(s[1:])
	}
	if strings.HasPrefix(s, "+") {
		s = strings.TrimSpace(s[1:])
	}

	s = stripCurrencyPrefix(s)
	if strings.HasPrefix(s, "-") {
		// Symbol before the sign, e.g. "R$ -10,00".
		negative = !negative
		s = strings.TrimSpace(s[1:])
	}
	if s == "" {
		return 0, fmt.Errorf("no digits in amount %q", raw)
	}

	normalized, err := normalizeSeparators(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	cents := d.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	if negative {
		cents = -cents
	}
	return cents, nil
}

// stripCurrencyPrefix drops a leading currency marker such as "R$", "$",
// "€" or an ISO code like "BRL".
func stripCurrencyPrefix(s string) string {
	i := 0
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' || c == '-' || c == '.' || c == ',' {
			break
		}
		i++
	}
	return strings.TrimSpace(s[i:])
}

// normalizeSeparators rewrites the amount into plain decimal-point form.
// When both separators appear, the rightmost one is the decimal mark.
// A lone separator followed by exactly three digits is read as a
// thousands mark ("1.234" -> 1234).
func normalizeSeparators(s string) (string, error) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") == 1 && len(s)-lastDot-1 != 3 {
			// Already decimal point.
		} else if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			return "", fmt.Errorf("unexpected character %q", c)
		}
	}
	return s, nil
}

// FormatCents renders signed cents as a plain 2-decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
