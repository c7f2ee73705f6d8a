// internal/importer/xlsx.go
package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
)

// parseXLSX reads the first sheet of a workbook into records.
func parseXLSX(path string) ([]domain.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s of %s: %w", sheets[0], path, err)
	}
	return recordsFromRows(rows), nil
}
