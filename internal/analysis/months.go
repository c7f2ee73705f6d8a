// internal/analysis/months.go
package analysis

import (
	"sort"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/payalnyahorobets-create/ppynlnya/internal/state"
)

// MonthSummaries rolls the ledger up into per-month totals. Margin uses each
// line's item purchase price, zero when the SKU is unknown. Rows come back
// sorted by month label; callers are expected to feed sortable labels like
// 2024-05.
func MonthSummaries(st *state.State) []domain.MonthSummary {
	purchasePrice := make(map[string]float64, len(st.Items))
	for _, item := range st.Items {
		purchasePrice[item.SKU] = item.PurchasePrice
	}

	summary := make([]domain.MonthSummary, 0, len(st.SalesMonths))
	for month, lines := range st.SalesMonths {
		row := domain.MonthSummary{Month: month}
		for _, line := range lines {
			row.Qty += line.Qty
			row.Revenue += line.Revenue
			row.Margin += line.Revenue - purchasePrice[line.SKU]*line.Qty
		}
		summary = append(summary, row)
	}

	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Month < summary[j].Month
	})
	return summary
}
