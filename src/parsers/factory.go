// src/parsers/factory.go
package parsers

import (
	"fmt"
	"strings"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/parsers/csvfile"
	"github.com/Dionizioaf/opensheets-app-sub000/src/parsers/ofx"
)

func GetParser(format models.StatementFormat) (Parser, error) {
	switch format {
	case models.FormatOFX:
		return ofx.NewParser(), nil
	case models.FormatDelimited:
		return csvfile.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for format: %s", format)
	}
}

// DetectFormat guesses the statement format from the first bytes of the
// file. OFX files either start with an OFXHEADER preamble or contain an
// <OFX> tag early on; anything else is treated as delimited text.
func DetectFormat(head []byte) models.StatementFormat {
	s := strings.ToUpper(string(head))
	if strings.Contains(s, "OFXHEADER") || strings.Contains(s, "<OFX>") {
		return models.FormatOFX
	}
	return models.FormatDelimited
}
