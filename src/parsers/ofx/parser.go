// src/parsers/ofx/parser.go
package ofx

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

// Transaction node fields surfaced as RawStatementRecord keys.
const (
	FieldType      = "TRNTYPE"
	FieldPosted    = "DTPOSTED"
	FieldAmount    = "TRNAMT"
	FieldStableID  = "FITID"
	FieldName      = "NAME"
	FieldMemo      = "MEMO"
	FieldCheckNum  = "CHECKNUM"
	FieldReference = "REFNUM"
)

// OFXParser is a tolerant line-oriented parser for SGML-flavored OFX
// exports. Banks emit wildly inconsistent OFX (unclosed leaf tags, mixed
// case, stray whitespace), so this never builds a strict document tree:
// it walks tag tokens and keys off the aggregates it cares about.
type OFXParser struct{}

func NewParser() *OFXParser {
	return &OFXParser{}
}

// tagRe captures one tag and any text up to the next tag. SGML OFX leaf
// tags are usually unclosed, so the trailing text is the leaf value.
var tagRe = regexp.MustCompile(`<(/?[A-Za-z0-9._]+)>([^<]*)`)

func (p *OFXParser) Parse(file io.Reader) (*models.ParseResult, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidFile, err)
	}
	content := strings.TrimSpace(string(raw))
	if content == "" {
		return nil, models.ErrInvalidFile
	}

	body := stripHeaderPreamble(content)
	if !strings.Contains(strings.ToUpper(body), "<OFX>") {
		return nil, fmt.Errorf("%w: no <OFX> root element", models.ErrInvalidFile)
	}

	result := &models.ParseResult{
		Format:  models.FormatOFX,
		Account: &models.StatementAccount{},
	}

	var (
		stack        []string
		current      models.RawStatementRecord
		sawStatement bool
		sawTranList  bool
		inCreditCard bool
	)

	inside := func(name string) bool {
		for _, tag := range stack {
			if tag == name {
				return true
			}
		}
		return false
	}

	for _, line := range strings.Split(body, "\n") {
		for _, m := range tagRe.FindAllStringSubmatch(line, -1) {
			tag := strings.ToUpper(m[1])
			value := strings.TrimSpace(m[2])

			if strings.HasPrefix(tag, "/") {
				closing := tag[1:]
				switch closing {
				case "STMTTRN":
					if current != nil {
						result.Records = append(result.Records, current)
						current = nil
					}
				}
				// Pop the matching aggregate if it is open; tolerate
				// close tags that were never opened.
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == closing {
						stack = stack[:i]
						break
					}
				}
				continue
			}

			if value == "" {
				// Aggregate open tag.
				stack = append(stack, tag)
				switch tag {
				case "STMTRS", "CCSTMTRS":
					sawStatement = true
					inCreditCard = tag == "CCSTMTRS"
				case "BANKTRANLIST":
					sawTranList = true
				case "STMTTRN":
					current = models.RawStatementRecord{}
				}
				continue
			}

			// Leaf tag with an inline value.
			value = unescape(value)
			switch {
			case current != nil:
				current[tag] = value
			case inside("BANKACCTFROM") || inside("CCACCTFROM"):
				switch tag {
				case "BANKID":
					result.Account.InstitutionID = value
				case "ACCTID":
					result.Account.AccountNumber = value
				case "ACCTTYPE":
					result.Account.Kind = accountKind(value)
				}
			case inside("BANKTRANLIST"):
				switch tag {
				case "DTSTART":
					if t, err := utils.ParseCompactTimestamp(value); err == nil {
						result.RangeStart = t
					}
				case "DTEND":
					if t, err := utils.ParseCompactTimestamp(value); err == nil {
						result.RangeEnd = t
					}
				}
			}
		}
	}

	if inCreditCard && result.Account.Kind == "" {
		result.Account.Kind = models.AccountCreditCard
	}
	if !sawStatement || !sawTranList {
		return nil, fmt.Errorf("%w: statement or transaction list block not found", models.ErrStructuralParse)
	}
	if len(result.Records) == 0 {
		return nil, models.ErrNoTransactions
	}

	result.Success = true
	return result, nil
}

// stripHeaderPreamble drops the KEY:VALUE header lines that precede the
// first tag in SGML OFX files. XML-flavored files have no such preamble.
func stripHeaderPreamble(content string) string {
	if idx := strings.Index(content, "<"); idx > 0 {
		return content[idx:]
	}
	return content
}

func accountKind(acctType string) models.AccountKind {
	switch strings.ToUpper(strings.TrimSpace(acctType)) {
	case "SAVINGS":
		return models.AccountSavings
	case "CREDITLINE", "CREDITCARD":
		return models.AccountCreditCard
	default:
		return models.AccountChecking
	}
}

func unescape(s string) string {
	r := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&apos;", "'", "&quot;", `"`)
	return r.Replace(s)
}
