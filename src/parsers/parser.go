// src/parsers/parser.go
package parsers

import (
	"io"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

// Shared file-level failure sentinels, re-exported from models so callers
// can match with errors.Is without importing both packages.
var (
	ErrInvalidFile     = models.ErrInvalidFile
	ErrStructuralParse = models.ErrStructuralParse
	ErrNoTransactions  = models.ErrNoTransactions
	ErrParse           = models.ErrParse
)

// Parser decodes raw statement text into raw records plus format metadata.
type Parser interface {
	Parse(file io.Reader) (*models.ParseResult, error)
}
