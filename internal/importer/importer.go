// internal/importer/importer.go
//
// The importer is the file-parsing collaborator: it turns delimited-text,
// XLSX and SpreadsheetML sources into plain string-keyed records. Everything
// downstream of here is format-agnostic.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
)

// ParseFile reads one tabular file into records keyed by the header row.
// The format is chosen by extension; anything that is not XLSX or XML is
// treated as delimited text.
func ParseFile(path string) ([]domain.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return parseXLSX(path)
	case ".xml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows, err := parseSpreadsheetML(data)
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return ParseDelimited(string(data))
	}
}

// recordsFromRows maps a header row plus data rows into records. Cells beyond
// the header width are dropped, short rows leave the remaining fields empty.
func recordsFromRows(rows [][]string) []domain.Record {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(domain.Record, len(headers))
		for i, key := range headers {
			if i < len(row) {
				rec[key] = strings.TrimSpace(row[i])
			} else {
				rec[key] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}
