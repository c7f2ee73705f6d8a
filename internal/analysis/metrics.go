// internal/analysis/metrics.go
package analysis

import (
	"math"
	"time"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/payalnyahorobets-create/ppynlnya/internal/normalize"
	"github.com/payalnyahorobets-create/ppynlnya/internal/state"
)

// CategoryIDNotFound is reported when an item's cleaned category has no entry
// in the category-id map.
const CategoryIDNotFound = "id not found"

// weeksPerMonth converts a count of ledger months into calendar weeks.
const weeksPerMonth = 4.333

// deadStockAgeDays is the shelf age beyond which an item with no recorded
// first sale counts as dead stock.
const deadStockAgeDays = 180

// Aging bucket labels, assigned by inclusive upper bounds on shelf age.
const (
	BucketUpTo30  = "≤30"
	Bucket31To90  = "31-90"
	Bucket91To180 = "91-180"
	BucketOver180 = ">180"
)

// Metrics computes the per-item lifecycle report for the given evaluation
// instant. The input state is read, never mutated.
func Metrics(st *state.State, today time.Time) []domain.ItemMetrics {
	salesBySKU := SalesBySKU(st.SalesMonths)
	monthsCount := len(st.SalesMonths)
	weeks := 0.0
	if monthsCount > 0 {
		weeks = float64(monthsCount) * weeksPerMonth
	}

	rows := make([]domain.ItemMetrics, 0, len(st.Items))
	for _, item := range st.Items {
		row := domain.ItemMetrics{Item: item}
		row.CleanCategory = normalize.CleanCategory(item.Category)

		row.CategoryID = CategoryIDNotFound
		if id, ok := st.CategoryIDs[row.CleanCategory]; ok && id != "" {
			row.CategoryID = id
		}

		if d, ok := st.FirstSales[item.SKU]; ok {
			first := d
			row.FirstSale = &first
		}
		if d, ok := st.ShelfDates[item.SKU]; ok {
			shelf := d
			row.ShelfDate = &shelf
		}

		if row.ShelfDate != nil {
			age := daysBetween(*row.ShelfDate, today)
			row.AgeDays = &age
			row.AgingBucket = agingBucket(age)
			if row.FirstSale != nil {
				days := daysBetween(*row.ShelfDate, *row.FirstSale)
				row.DaysToFirstSale = &days
			}
		}

		sales := salesBySKU[item.SKU]
		if weeks > 0 {
			row.WeeklySales = sales.Qty / weeks
		}
		if row.WeeklySales > 0 {
			stockWeeks := item.Stocks[domain.GlobalStockKey] / row.WeeklySales
			row.StockWeeks = &stockWeeks
		}

		row.DeadStock = row.AgeDays != nil && *row.AgeDays > deadStockAgeDays && row.FirstSale == nil

		if row.ShelfDate != nil {
			end := today
			if row.FirstSale != nil {
				end = *row.FirstSale
			}
			active := int(math.Round(float64(daysBetween(*row.ShelfDate, end)) / 7))
			if active < 1 {
				active = 1
			}
			row.ActiveWeeks = &active
		}

		rows = append(rows, row)
	}
	return rows
}

// daysBetween counts whole days from start to end, floored. Negative when end
// precedes start.
func daysBetween(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Hours() / 24))
}

func agingBucket(ageDays int) string {
	switch {
	case ageDays <= 30:
		return BucketUpTo30
	case ageDays <= 90:
		return Bucket31To90
	case ageDays <= 180:
		return Bucket91To180
	default:
		return BucketOver180
	}
}
