// internal/importer/xml.go
package importer

import (
	"encoding/xml"
	"fmt"
)

// SpreadsheetML as emitted by spreadsheet "save as XML" exports: rows of
// cells, each cell wrapping its value in a Data element. Namespaces vary by
// exporter, so matching is by local element name.
type xmlSpreadsheet struct {
	Rows []xmlSpreadsheetRow `xml:"Worksheet>Table>Row"`
}

type xmlSpreadsheetRow struct {
	Cells []xmlSpreadsheetCell `xml:"Cell"`
}

type xmlSpreadsheetCell struct {
	Data string `xml:"Data"`
}

// Generic fallback shape: <row><cell>..</cell></row>.
type xmlGenericDoc struct {
	Rows []xmlGenericRow `xml:"row"`
}

type xmlGenericRow struct {
	Cells []string `xml:"cell"`
}

// parseSpreadsheetML extracts the cell grid from an XML table export, trying
// the SpreadsheetML shape first and a generic row/cell shape second.
func parseSpreadsheetML(data []byte) ([][]string, error) {
	var sheet xmlSpreadsheet
	if err := xml.Unmarshal(data, &sheet); err == nil && len(sheet.Rows) > 0 {
		rows := make([][]string, 0, len(sheet.Rows))
		for _, r := range sheet.Rows {
			cells := make([]string, 0, len(r.Cells))
			for _, c := range r.Cells {
				cells = append(cells, c.Data)
			}
			rows = append(rows, cells)
		}
		return rows, nil
	}

	var doc xmlGenericDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse xml table: %w", err)
	}
	rows := make([][]string, 0, len(doc.Rows))
	for _, r := range doc.Rows {
		rows = append(rows, r.Cells)
	}
	return rows, nil
}
