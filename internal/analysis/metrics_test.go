package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/payalnyahorobets-create/ppynlnya/internal/state"
)

var branches = []string{"shevchenko", "nahorka"}

func addItem(t *testing.T, st *state.State, row domain.NomenclatureRow) {
	t.Helper()
	if err := st.MergeNomenclature([]domain.NomenclatureRow{row}, domain.GlobalStockKey, branches); err != nil {
		t.Fatalf("merge: %v", err)
	}
}

func setMonth(t *testing.T, st *state.State, month string, lines ...domain.SalesLine) {
	t.Helper()
	if err := st.SetMonthSales(month, lines); err != nil {
		t.Fatalf("set month %s: %v", month, err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMetricsDeadStockScenario(t *testing.T) {
	st := state.New()
	addItem(t, st, domain.NomenclatureRow{
		SKU:           "SKU-1",
		Category:      "1. Бакалія",
		PurchasePrice: 10,
		SalePrice:     15,
		StockQty:      20,
	})

	today := time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC)
	shelf := today.AddDate(0, 0, -200)
	st.ReplaceShelfDates(map[string]time.Time{"SKU-1": shelf})
	setMonth(t, st, "2024-06", domain.SalesLine{SKU: "SKU-1", Qty: 0, Revenue: 0})

	rows := Metrics(st, today)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]

	if r.AgeDays == nil || *r.AgeDays != 200 {
		t.Errorf("AgeDays = %v, want 200", r.AgeDays)
	}
	if r.AgingBucket != BucketOver180 {
		t.Errorf("AgingBucket = %q, want %q", r.AgingBucket, BucketOver180)
	}
	if !r.DeadStock {
		t.Error("item older than 180 days with no first sale must be dead stock")
	}
	if r.WeeklySales != 0 {
		t.Errorf("WeeklySales = %v, want 0", r.WeeklySales)
	}
	if r.StockWeeks != nil {
		t.Errorf("StockWeeks = %v, want undefined for zero weekly sales", *r.StockWeeks)
	}
	if r.DaysToFirstSale != nil {
		t.Errorf("DaysToFirstSale = %v, want undefined", *r.DaysToFirstSale)
	}
	if r.CleanCategory != "Бакалія" {
		t.Errorf("CleanCategory = %q", r.CleanCategory)
	}
	if r.CategoryID != CategoryIDNotFound {
		t.Errorf("CategoryID = %q, want placeholder", r.CategoryID)
	}
}

func TestMetricsWeeklySalesAndStockWeeks(t *testing.T) {
	st := state.New()
	addItem(t, st, domain.NomenclatureRow{SKU: "SKU-1", StockQty: 26})
	setMonth(t, st, "2024-01", domain.SalesLine{SKU: "SKU-1", Qty: 13, Revenue: 130})
	setMonth(t, st, "2024-02", domain.SalesLine{SKU: "SKU-1", Qty: 13, Revenue: 130})

	rows := Metrics(st, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	r := rows[0]

	weeks := 2 * 4.333
	if !almostEqual(r.WeeklySales, 26/weeks) {
		t.Errorf("WeeklySales = %v, want %v", r.WeeklySales, 26/weeks)
	}
	if r.StockWeeks == nil {
		t.Fatal("StockWeeks = nil, want a value when there are weekly sales")
	}
	if !almostEqual(*r.StockWeeks, 26/(26/weeks)) {
		t.Errorf("StockWeeks = %v, want %v", *r.StockWeeks, weeks)
	}
}

func TestMetricsFirstSaleStopsDeadStockAndActiveWeeks(t *testing.T) {
	st := state.New()
	addItem(t, st, domain.NomenclatureRow{SKU: "SKU-1", StockQty: 5})

	shelf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := shelf.AddDate(0, 0, 21)
	st.ReplaceShelfDates(map[string]time.Time{"SKU-1": shelf})
	st.ReplaceFirstSales(map[string]time.Time{"SKU-1": first})

	today := shelf.AddDate(0, 0, 300)
	r := Metrics(st, today)[0]

	if r.DeadStock {
		t.Error("an item with a first sale is never dead stock")
	}
	if r.DaysToFirstSale == nil || *r.DaysToFirstSale != 21 {
		t.Errorf("DaysToFirstSale = %v, want 21", r.DaysToFirstSale)
	}
	if r.ActiveWeeks == nil || *r.ActiveWeeks != 3 {
		t.Errorf("ActiveWeeks = %v, want 3 (shelf to first sale)", r.ActiveWeeks)
	}
}

func TestMetricsActiveWeeksFloorsAtOne(t *testing.T) {
	st := state.New()
	addItem(t, st, domain.NomenclatureRow{SKU: "SKU-1"})
	shelf := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	st.ReplaceShelfDates(map[string]time.Time{"SKU-1": shelf})

	r := Metrics(st, shelf.AddDate(0, 0, 1))[0]
	if r.ActiveWeeks == nil || *r.ActiveWeeks != 1 {
		t.Errorf("ActiveWeeks = %v, want floor of 1", r.ActiveWeeks)
	}
}

func TestMetricsUndefinedWithoutShelfDate(t *testing.T) {
	st := state.New()
	addItem(t, st, domain.NomenclatureRow{SKU: "SKU-1"})

	r := Metrics(st, time.Now())[0]
	if r.AgeDays != nil || r.AgingBucket != "" || r.ActiveWeeks != nil {
		t.Errorf("shelf-less item must have undefined age metrics: %+v", r)
	}
	if r.DeadStock {
		t.Error("shelf-less item cannot be dead stock")
	}
}

func TestMetricsCategoryIDLookupUsesCleanedCategory(t *testing.T) {
	st := state.New()
	addItem(t, st, domain.NomenclatureRow{SKU: "SKU-1", Category: "2) Молочка:"})
	st.ReplaceCategoryIDs(map[string]string{"Молочка": "cat-7"})

	r := Metrics(st, time.Now())[0]
	if r.CategoryID != "cat-7" {
		t.Errorf("CategoryID = %q, want cat-7", r.CategoryID)
	}
}

func TestAgingBucketBoundaries(t *testing.T) {
	cases := map[int]string{
		0:   BucketUpTo30,
		30:  BucketUpTo30,
		31:  Bucket31To90,
		90:  Bucket31To90,
		91:  Bucket91To180,
		180: Bucket91To180,
		181: BucketOver180,
	}
	for age, want := range cases {
		if got := agingBucket(age); got != want {
			t.Errorf("agingBucket(%d) = %q, want %q", age, got, want)
		}
	}
}

func TestSalesBySKUSumsAcrossMonths(t *testing.T) {
	ledger := map[string][]domain.SalesLine{
		"2024-01": {{SKU: "SKU-1", Qty: 2, Revenue: 20}, {SKU: "SKU-1", Qty: 1, Revenue: 10}},
		"2024-02": {{SKU: "SKU-1", Qty: 3, Revenue: 30}, {SKU: "SKU-2", Qty: 5, Revenue: 75}},
	}
	bySKU := SalesBySKU(ledger)

	s1 := bySKU["SKU-1"]
	if s1.Qty != 6 || s1.Revenue != 60 {
		t.Errorf("SKU-1 totals = %+v", s1)
	}
	if s1.MonthlyQty["2024-01"] != 3 || s1.MonthlyQty["2024-02"] != 3 {
		t.Errorf("SKU-1 monthly breakdown = %+v", s1.MonthlyQty)
	}
	if _, ok := bySKU["SKU-3"]; ok {
		t.Error("absent SKU should stay absent")
	}
}
