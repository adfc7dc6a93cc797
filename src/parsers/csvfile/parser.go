// src/parsers/csvfile/parser.go
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

// delimiter candidates, in preference order for ties.
var candidates = []rune{';', ',', '\t'}

const sampleLines = 5

// CSVParser parses delimited statement exports whose delimiter is not
// known up front. The header row keys the records; blank lines are
// skipped; row-level failures become warnings, never batch failures.
type CSVParser struct{}

func NewParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(file io.Reader) (*models.ParseResult, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
	}
	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if strings.TrimSpace(content) == "" {
		return nil, models.ErrInvalidFile
	}

	delimiter := DetectDelimiter(content)

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
	}
	if len(rows) == 0 {
		return nil, models.ErrInvalidFile
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	result := &models.ParseResult{
		Format: models.FormatDelimited,
	}

	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header
		if isBlankRow(row) {
			continue
		}
		if len(row) > len(header) {
			result.RowWarnings = append(result.RowWarnings, models.RowWarning{
				Line:    line,
				Message: fmt.Sprintf("row has %d fields, header has %d", len(row), len(header)),
			})
			continue
		}
		record := models.RawStatementRecord{}
		for col, value := range row {
			if header[col] == "" {
				continue
			}
			record[header[col]] = strings.TrimSpace(value)
		}
		result.Records = append(result.Records, record)
	}

	if len(result.Records) == 0 {
		return nil, models.ErrNoTransactions
	}

	result.Success = true
	return result, nil
}

// DetectDelimiter samples the first 5 non-blank lines and picks the
// candidate whose per-line occurrence counts are mutually consistent
// (spread of at most 1). Consistency wins over a merely higher average,
// so a stray extra separator in the header does not flip the choice.
// Defaults to ';' when no candidate appears at all.
func DetectDelimiter(content string) rune {
	var sample []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = append(sample, line)
		if len(sample) == sampleLines {
			break
		}
	}
	if len(sample) == 0 {
		return ';'
	}

	type stat struct {
		delim      rune
		average    float64
		consistent bool
	}
	var stats []stat

	for _, delim := range candidates {
		counts := make([]int, len(sample))
		total := 0
		minCount, maxCount := -1, 0
		for i, line := range sample {
			n := strings.Count(line, string(delim))
			counts[i] = n
			total += n
			if minCount == -1 || n < minCount {
				minCount = n
			}
			if n > maxCount {
				maxCount = n
			}
		}
		if total == 0 {
			continue
		}
		stats = append(stats, stat{
			delim:      delim,
			average:    float64(total) / float64(len(sample)),
			consistent: minCount > 0 && maxCount-minCount <= 1,
		})
	}

	if len(stats) == 0 {
		return ';'
	}

	best := stats[0]
	for _, s := range stats[1:] {
		if s.consistent != best.consistent {
			if s.consistent {
				best = s
			}
			continue
		}
		if s.average > best.average {
			best = s
		}
	}
	return best.delim
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
