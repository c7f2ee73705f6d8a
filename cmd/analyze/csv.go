// cmd/analyze/csv.go
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
)

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeMetricsCSV(path string, rows []domain.ItemMetrics) error {
	header := []string{
		"sku", "code", "name", "category", "clean_category", "category_id",
		"purchase_price", "sale_price", "stock_global",
		"first_sale", "shelf_date", "age_days", "days_to_first_sale",
		"aging_bucket", "weekly_sales", "stock_weeks", "dead_stock", "active_weeks",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.SKU, r.Code, r.Name, r.Category, r.CleanCategory, r.CategoryID,
			num(r.PurchasePrice), num(r.SalePrice), num(r.Stocks[domain.GlobalStockKey]),
			date(r.FirstSale), date(r.ShelfDate), intp(r.AgeDays), intp(r.DaysToFirstSale),
			r.AgingBucket, num(r.WeeklySales), nump(r.StockWeeks),
			strconv.FormatBool(r.DeadStock), intp(r.ActiveWeeks),
		})
	}
	return writeCSV(path, header, out)
}

func writeAbcCSV(path string, report domain.AbcReport) error {
	header := []string{
		"sku", "name", "category", "qty", "revenue", "margin", "margin_pct", "markup",
		"abc_revenue", "abc_margin", "abc_qty", "xyz", "abc_xyz_revenue", "abc_xyz_margin",
		"turnover", "gmroi", "asp",
	}
	out := make([][]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		out = append(out, []string{
			r.SKU, r.Name, r.Category,
			num(r.Qty), num(r.Revenue), num(r.Margin), num(r.MarginPct), num(r.Markup),
			r.AbcRevenue, r.AbcMargin, r.AbcQty, r.XYZ, r.AbcXyzRevenue, r.AbcXyzMargin,
			num(r.Turnover), num(r.GMROI), num(r.ASP),
		})
	}
	return writeCSV(path, header, out)
}

func writeMonthsCSV(path string, rows []domain.MonthSummary) error {
	header := []string{"month", "qty", "revenue", "margin"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Month, num(r.Qty), num(r.Revenue), num(r.Margin)})
	}
	return writeCSV(path, header, out)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nump(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}

func intp(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
