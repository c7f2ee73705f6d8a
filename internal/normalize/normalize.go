// internal/normalize/normalize.go
//
// Normalizers map heterogeneous import records into canonical entities. Source
// files arrive with Ukrainian, Russian or English column headers depending on
// which system exported them, so every logical field carries an ordered alias
// list and the first non-empty candidate wins.
package normalize

import (
	"strings"
	"time"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
)

var (
	skuAliases      = []string{"Артикул", "SKU", "Артикул ", "Артикул товара"}
	codeAliases     = []string{"Код", "Code"}
	nameAliases     = []string{"Ім'я", "Имя", "Назва", "Name"}
	categoryAliases = []string{"Категорія", "Категория", "Category"}
	purchaseAliases = []string{"Ціна закупівлі", "Цена закупки", "Purchase Price"}
	saleAliases     = []string{"Ціна продажу", "Цена продажи", "Sale Price"}
	qtyAliases      = []string{"Кількість", "Количество", "Qty"}
	barcodeAliases  = []string{"Штрихкод", "Barcode"}

	categoryIDAliases = []string{"ID", "Id", "ID Категорії"}

	firstSaleDateAliases = []string{"Перша_продаж", "Первая_продажа", "Дата"}
	firstSaleSKUAliases  = []string{"SKU", "Артикул"}
	shelfDateAliases     = []string{"Дата_полки", "Дата полки", "Дата"}
	shelfSKUAliases      = []string{"Артикул", "SKU"}

	salesSKUAliases     = []string{"SKU", "Артикул", "Код"}
	salesQtyAliases     = []string{"Кількість", "Количество", "Qty"}
	salesRevenueAliases = []string{"Виторг", "Выручка", "Revenue"}
)

func pick(rec domain.Record, aliases []string) string {
	for _, key := range aliases {
		if v := strings.TrimSpace(rec[key]); v != "" {
			return v
		}
	}
	return ""
}

// Items normalizes nomenclature records and applies the exclusion settings.
// Rows without a resolvable SKU are dropped silently, negative stock figures
// are clamped to zero.
func Items(records []domain.Record, settings domain.Settings) []domain.NomenclatureRow {
	excludedCats := make(map[string]struct{}, len(settings.ExcludedCategories))
	for _, c := range settings.ExcludedCategories {
		excludedCats[CleanCategory(c)] = struct{}{}
	}
	excludedSKUs := make(map[string]struct{}, len(settings.ExcludedSKUs))
	for _, s := range settings.ExcludedSKUs {
		excludedSKUs[strings.TrimSpace(s)] = struct{}{}
	}

	rows := make([]domain.NomenclatureRow, 0, len(records))
	for _, rec := range records {
		sku := pick(rec, skuAliases)
		if sku == "" {
			continue
		}
		if _, ok := excludedSKUs[sku]; ok {
			continue
		}
		category := pick(rec, categoryAliases)
		if _, ok := excludedCats[CleanCategory(category)]; ok {
			continue
		}
		qty := Number(pick(rec, qtyAliases))
		if qty < 0 {
			qty = 0
		}
		rows = append(rows, domain.NomenclatureRow{
			SKU:           sku,
			Code:          pick(rec, codeAliases),
			Name:          pick(rec, nameAliases),
			Category:      category,
			PurchasePrice: Number(pick(rec, purchaseAliases)),
			SalePrice:     Number(pick(rec, saleAliases)),
			StockQty:      qty,
			Barcode:       pick(rec, barcodeAliases),
		})
	}
	return rows
}

// CategoryIDs normalizes a category-id reference file into a mapping from
// cleaned category label to external identifier. Rows missing either side
// are skipped.
func CategoryIDs(records []domain.Record) map[string]string {
	m := make(map[string]string, len(records))
	for _, rec := range records {
		category := CleanCategory(pick(rec, categoryAliases))
		id := pick(rec, categoryIDAliases)
		if category != "" && id != "" {
			m[category] = id
		}
	}
	return m
}

// FirstSales normalizes a first-sale-date file into a sku -> date mapping.
func FirstSales(records []domain.Record) map[string]time.Time {
	return dateBySKU(records, firstSaleSKUAliases, firstSaleDateAliases)
}

// ShelfDates normalizes a shelf-placement-date file into a sku -> date mapping.
func ShelfDates(records []domain.Record) map[string]time.Time {
	return dateBySKU(records, shelfSKUAliases, shelfDateAliases)
}

func dateBySKU(records []domain.Record, skuAliases, dateAliases []string) map[string]time.Time {
	m := make(map[string]time.Time, len(records))
	for _, rec := range records {
		sku := pick(rec, skuAliases)
		date := Date(pick(rec, dateAliases))
		if sku != "" && date != nil {
			m[sku] = *date
		}
	}
	return m
}

// Sales normalizes one month's sales records. Rows without a SKU are dropped.
func Sales(records []domain.Record) []domain.SalesLine {
	lines := make([]domain.SalesLine, 0, len(records))
	for _, rec := range records {
		sku := pick(rec, salesSKUAliases)
		if sku == "" {
			continue
		}
		lines = append(lines, domain.SalesLine{
			SKU:     sku,
			Qty:     Number(pick(rec, salesQtyAliases)),
			Revenue: Number(pick(rec, salesRevenueAliases)),
		})
	}
	return lines
}

// SplitLines turns a free-text settings block into its trimmed non-empty
// lines.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
