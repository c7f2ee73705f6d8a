// internal/analysis/aggregate.go
package analysis

import (
	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
)

// SalesBySKU sums every ledger line across every month into a per-SKU summary.
// A SKU absent from all months is simply absent from the result; consumers
// treat a missing key as zero.
func SalesBySKU(ledger map[string][]domain.SalesLine) map[string]domain.SKUSales {
	bySKU := make(map[string]domain.SKUSales)
	for month, lines := range ledger {
		for _, line := range lines {
			if line.SKU == "" {
				continue
			}
			entry, ok := bySKU[line.SKU]
			if !ok {
				entry = domain.SKUSales{MonthlyQty: make(map[string]float64)}
			}
			entry.Qty += line.Qty
			entry.Revenue += line.Revenue
			entry.MonthlyQty[month] += line.Qty
			bySKU[line.SKU] = entry
		}
	}
	return bySKU
}
