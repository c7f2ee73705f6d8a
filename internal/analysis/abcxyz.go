// internal/analysis/abcxyz.go
package analysis

import (
	"math"
	"sort"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/payalnyahorobets-create/ppynlnya/internal/normalize"
	"github.com/payalnyahorobets-create/ppynlnya/internal/state"
)

// ABC cumulative-share boundaries: class A covers the top 80% of the grand
// total, class B the next 15%, class C the tail.
const (
	abcBoundaryA = 0.80
	abcBoundaryB = 0.95
)

// XYZ coefficient-of-variation boundaries.
const (
	xyzBoundaryX = 0.35
	xyzBoundaryY = 0.70
)

// AbcXyz classifies every item: ABC independently by revenue, margin and
// quantity, XYZ by the variability of its monthly demand, plus derived
// turnover/GMROI/price ratios. The returned totals are the denominators the
// cumulative shares were computed against.
func AbcXyz(st *state.State) domain.AbcReport {
	salesBySKU := SalesBySKU(st.SalesMonths)

	rows := make([]domain.AbcRow, 0, len(st.Items))
	var totals domain.AbcTotals
	for _, item := range st.Items {
		sales := salesBySKU[item.SKU]
		margin := sales.Revenue - item.PurchasePrice*sales.Qty
		marginPct := 0.0
		if item.SalePrice != 0 {
			marginPct = (item.SalePrice - item.PurchasePrice) / item.SalePrice
		}
		markup := 0.0
		if item.PurchasePrice != 0 {
			markup = (item.SalePrice - item.PurchasePrice) / item.PurchasePrice
		}
		rows = append(rows, domain.AbcRow{
			SKU:           item.SKU,
			Name:          item.Name,
			Category:      normalize.CleanCategory(item.Category),
			PurchasePrice: item.PurchasePrice,
			SalePrice:     item.SalePrice,
			StockQty:      item.Stocks[domain.GlobalStockKey],
			Qty:           sales.Qty,
			Revenue:       sales.Revenue,
			Margin:        margin,
			MarginPct:     marginPct,
			Markup:        markup,
			MonthlyQty:    sales.MonthlyQty,
		})
		totals.Revenue += sales.Revenue
		totals.Margin += margin
		totals.Qty += sales.Qty
	}

	rankBy(rows, totals.Revenue, func(r *domain.AbcRow) float64 { return r.Revenue }, func(r *domain.AbcRow, cls string) { r.AbcRevenue = cls })
	rankBy(rows, totals.Margin, func(r *domain.AbcRow) float64 { return r.Margin }, func(r *domain.AbcRow, cls string) { r.AbcMargin = cls })
	rankBy(rows, totals.Qty, func(r *domain.AbcRow) float64 { return r.Qty }, func(r *domain.AbcRow, cls string) { r.AbcQty = cls })

	for i := range rows {
		row := &rows[i]
		row.XYZ = xyzClass(row.Qty, row.MonthlyQty)
		row.AbcXyzRevenue = row.AbcRevenue + row.XYZ
		row.AbcXyzMargin = row.AbcMargin + row.XYZ

		if row.StockQty > 0 {
			row.Turnover = row.Qty / row.StockQty
			denom := row.StockQty * row.PurchasePrice
			if denom == 0 {
				denom = 1
			}
			row.GMROI = row.Margin / denom
		}
		if row.Qty != 0 {
			row.ASP = row.Revenue / row.Qty
		}
	}

	return domain.AbcReport{Rows: rows, Totals: totals}
}

// rankBy assigns ABC classes for one ranking key: stable descending sort,
// then accumulate each item's share of the grand total in rank order. Exact
// ties in the key are not special-cased, so two equal values can straddle a
// class boundary; the stable sort keeps the outcome deterministic for a given
// item order.
func rankBy(rows []domain.AbcRow, total float64, key func(*domain.AbcRow) float64, assign func(*domain.AbcRow, string)) {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return key(&rows[order[a]]) > key(&rows[order[b]])
	})

	// Accumulate the raw key and divide once per comparison. Summing the
	// per-item shares instead drifts in floating point and can push an item
	// sitting exactly on a boundary into the next class.
	cumulative := 0.0
	for _, i := range order {
		cumulative += key(&rows[i])
		share := 0.0
		if total != 0 {
			share = cumulative / total
		}
		switch {
		case share <= abcBoundaryA:
			assign(&rows[i], "A")
		case share <= abcBoundaryB:
			assign(&rows[i], "B")
		default:
			assign(&rows[i], "C")
		}
	}
}

// xyzClass buckets demand variability by the coefficient of variation of the
// recorded monthly quantities. Months with no entry contribute no data point.
// Zero total quantity or zero mean means the variability is undefined and the
// item lands in Z.
func xyzClass(totalQty float64, monthlyQty map[string]float64) string {
	if totalQty == 0 {
		return "Z"
	}
	n := len(monthlyQty)
	if n == 0 {
		return "Z"
	}

	sum := 0.0
	for _, q := range monthlyQty {
		sum += q
	}
	mean := sum / float64(n)
	if mean <= 0 {
		return "Z"
	}

	variance := 0.0
	for _, q := range monthlyQty {
		variance += (q - mean) * (q - mean)
	}
	variance /= float64(n)
	cv := math.Sqrt(variance) / mean

	switch {
	case cv <= xyzBoundaryX:
		return "X"
	case cv <= xyzBoundaryY:
		return "Y"
	default:
		return "Z"
	}
}
