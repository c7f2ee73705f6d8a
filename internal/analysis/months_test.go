package analysis

import (
	"testing"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/payalnyahorobets-create/ppynlnya/internal/state"
)

func TestMonthSummariesTotalsAndOrder(t *testing.T) {
	st := state.New()
	rows := []domain.NomenclatureRow{
		{SKU: "SKU-1", PurchasePrice: 10},
		{SKU: "SKU-2", PurchasePrice: 3},
	}
	if err := st.MergeNomenclature(rows, domain.GlobalStockKey, branches); err != nil {
		t.Fatalf("merge: %v", err)
	}
	setMonth(t, st, "2024-02",
		domain.SalesLine{SKU: "SKU-1", Qty: 2, Revenue: 30},
		domain.SalesLine{SKU: "SKU-2", Qty: 10, Revenue: 50},
	)
	setMonth(t, st, "2024-01",
		domain.SalesLine{SKU: "SKU-1", Qty: 1, Revenue: 15},
	)

	summary := MonthSummaries(st)
	if len(summary) != 2 {
		t.Fatalf("got %d months, want 2", len(summary))
	}
	if summary[0].Month != "2024-01" || summary[1].Month != "2024-02" {
		t.Errorf("months out of order: %s, %s", summary[0].Month, summary[1].Month)
	}

	jan := summary[0]
	if jan.Qty != 1 || jan.Revenue != 15 || jan.Margin != 5 {
		t.Errorf("january = %+v, want qty 1, revenue 15, margin 5", jan)
	}

	feb := summary[1]
	if feb.Qty != 12 || feb.Revenue != 80 {
		t.Errorf("february = %+v, want qty 12, revenue 80", feb)
	}
	// 30 - 10*2 plus 50 - 3*10
	if feb.Margin != 30 {
		t.Errorf("february margin = %v, want 30", feb.Margin)
	}
}

func TestMonthSummariesUnknownSKUContributesFullRevenue(t *testing.T) {
	st := state.New()
	setMonth(t, st, "2024-01", domain.SalesLine{SKU: "GHOST", Qty: 4, Revenue: 100})

	summary := MonthSummaries(st)
	if len(summary) != 1 {
		t.Fatalf("got %d months, want 1", len(summary))
	}
	if summary[0].Margin != 100 {
		t.Errorf("margin = %v, want 100 (zero purchase price for unknown SKU)", summary[0].Margin)
	}
}
