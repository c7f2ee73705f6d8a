// internal/domain/models.go
package domain

import "time"

// Record is a single loosely-typed row handed over by a parsing collaborator.
// Keys are raw column headers as they appeared in the source file.
type Record map[string]string

// GlobalStockKey is the stock location key for the company-wide warehouse.
// Branch locations use their configured branch keys.
const GlobalStockKey = "global"

// Item is a nomenclature entry keyed by SKU. Stocks maps a location key
// (GlobalStockKey plus the configured branch keys) to the quantity on hand.
type Item struct {
	SKU           string             `json:"sku"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	Category      string             `json:"category"`
	PurchasePrice float64            `json:"purchase_price"`
	SalePrice     float64            `json:"sale_price"`
	Barcode       string             `json:"barcode"`
	Stocks        map[string]float64 `json:"stocks"`
}

// NomenclatureRow is a normalized nomenclature record before it is merged
// into the item set. StockQty belongs to whichever scope the import targets.
type NomenclatureRow struct {
	SKU           string
	Code          string
	Name          string
	Category      string
	PurchasePrice float64
	SalePrice     float64
	StockQty      float64
	Barcode       string
}

// SalesLine is one row of a monthly sales ledger. Qty may be fractional
// (weighed goods).
type SalesLine struct {
	SKU     string  `json:"sku"`
	Qty     float64 `json:"qty"`
	Revenue float64 `json:"revenue"`
}

// Settings holds the import-time exclusion lists. Category names are compared
// after cleaning, SKUs are compared verbatim.
type Settings struct {
	ExcludedCategories []string `json:"excluded_categories"`
	ExcludedSKUs       []string `json:"excluded_skus"`
}

// Attribute is a free-form note attached to a category.
type Attribute struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Note     string `json:"note"`
}

// SKUSales is the aggregated sales summary for one SKU across all ledger
// months. MonthlyQty keeps the per-month quantity breakdown for the XYZ
// variability classification.
type SKUSales struct {
	Qty        float64            `json:"qty"`
	Revenue    float64            `json:"revenue"`
	MonthlyQty map[string]float64 `json:"monthly_qty"`
}

// ItemMetrics is one row of the lifecycle metrics report. Pointer fields are
// nil when the underlying date is unknown; an undefined value is distinct
// from zero.
type ItemMetrics struct {
	Item
	CleanCategory   string     `json:"clean_category"`
	CategoryID      string     `json:"category_id"`
	FirstSale       *time.Time `json:"first_sale,omitempty"`
	ShelfDate       *time.Time `json:"shelf_date,omitempty"`
	AgeDays         *int       `json:"age_days,omitempty"`
	DaysToFirstSale *int       `json:"days_to_first_sale,omitempty"`
	AgingBucket     string     `json:"aging_bucket,omitempty"`
	WeeklySales     float64    `json:"weekly_sales"`
	StockWeeks      *float64   `json:"stock_weeks,omitempty"`
	DeadStock       bool       `json:"dead_stock"`
	ActiveWeeks     *int       `json:"active_weeks,omitempty"`
}

// AbcRow is one row of the ABC/XYZ classification report.
type AbcRow struct {
	SKU           string             `json:"sku"`
	Name          string             `json:"name"`
	Category      string             `json:"category"`
	PurchasePrice float64            `json:"purchase_price"`
	SalePrice     float64            `json:"sale_price"`
	StockQty      float64            `json:"stock_qty"`
	Qty           float64            `json:"qty"`
	Revenue       float64            `json:"revenue"`
	Margin        float64            `json:"margin"`
	MarginPct     float64            `json:"margin_pct"`
	Markup        float64            `json:"markup"`
	MonthlyQty    map[string]float64 `json:"-"`
	AbcRevenue    string             `json:"abc_revenue"`
	AbcMargin     string             `json:"abc_margin"`
	AbcQty        string             `json:"abc_qty"`
	XYZ           string             `json:"xyz"`
	AbcXyzRevenue string             `json:"abc_xyz_revenue"`
	AbcXyzMargin  string             `json:"abc_xyz_margin"`
	Turnover      float64            `json:"turnover"`
	GMROI         float64            `json:"gmroi"`
	ASP           float64            `json:"asp"`
}

// AbcTotals are the grand totals the cumulative shares are computed against.
type AbcTotals struct {
	Revenue float64 `json:"revenue"`
	Margin  float64 `json:"margin"`
	Qty     float64 `json:"qty"`
}

// AbcReport is the full classification output: one row per item plus totals.
type AbcReport struct {
	Rows   []AbcRow  `json:"rows"`
	Totals AbcTotals `json:"totals"`
}

// MonthSummary is one row of the monthly roll-up report.
type MonthSummary struct {
	Month   string  `json:"month"`
	Qty     float64 `json:"qty"`
	Revenue float64 `json:"revenue"`
	Margin  float64 `json:"margin"`
}
