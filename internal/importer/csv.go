// internal/importer/csv.go
package importer

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
)

// DetectDelimiter sniffs the delimiter from the first few lines: tab when
// tabs dominate, semicolon when semicolons outnumber commas, comma otherwise.
// Exports from the POS systems in the field use all three.
func DetectDelimiter(text string) rune {
	lines := strings.SplitN(text, "\n", 6)
	if len(lines) > 5 {
		lines = lines[:5]
	}
	sample := strings.Join(lines, "\n")

	commas := strings.Count(sample, ",")
	semicolons := strings.Count(sample, ";")
	tabs := strings.Count(sample, "\t")

	if tabs > commas && tabs > semicolons {
		return '\t'
	}
	if semicolons > commas {
		return ';'
	}
	return ','
}

// ParseDelimited parses delimited text with an auto-detected delimiter into
// header-keyed records. Quoted fields and ragged rows are tolerated.
func ParseDelimited(text string) ([]domain.Record, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = DetectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited text: %w", err)
	}
	return recordsFromRows(rows), nil
}
