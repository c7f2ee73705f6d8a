// internal/state/state.go
//
// State is the single unit of consistency the analytics run against: the five
// canonical structures plus settings, mutated only through the merge/replace
// operations below and always read as one snapshot.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
)

// State holds one consistent in-memory snapshot of the imported data. Items
// keep their first-appearance order; the ABC ranking's tie-breaking depends
// on it.
type State struct {
	Items       []domain.Item                 `json:"items"`
	CategoryIDs map[string]string             `json:"category_ids"`
	FirstSales  map[string]time.Time          `json:"first_sales"`
	ShelfDates  map[string]time.Time          `json:"shelf_dates"`
	SalesMonths map[string][]domain.SalesLine `json:"sales_months"`
	Settings    domain.Settings               `json:"settings"`
	Attributes  []domain.Attribute            `json:"attributes"`
	LastUpdate  *time.Time                    `json:"last_update,omitempty"`
}

// New returns an empty state with all maps initialized.
func New() *State {
	return &State{
		Items:       []domain.Item{},
		CategoryIDs: map[string]string{},
		FirstSales:  map[string]time.Time{},
		ShelfDates:  map[string]time.Time{},
		SalesMonths: map[string][]domain.SalesLine{},
		Attributes:  []domain.Attribute{},
	}
}

// MergeNomenclature folds normalized rows into the item set. A global import
// overwrites the descriptive fields and the global stock figure; a branch
// import overwrites only that branch's stock figure. New SKUs are seeded from
// the imported row either way. Items are never deleted, only superseded.
func (s *State) MergeNomenclature(rows []domain.NomenclatureRow, scope string, branches []string) error {
	if scope != domain.GlobalStockKey && !contains(branches, scope) {
		return fmt.Errorf("unknown import scope %q", scope)
	}

	index := make(map[string]int, len(s.Items))
	for i, item := range s.Items {
		index[item.SKU] = i
	}

	for _, row := range rows {
		i, ok := index[row.SKU]
		if !ok {
			item := domain.Item{
				SKU:           row.SKU,
				Code:          row.Code,
				Name:          row.Name,
				Category:      row.Category,
				PurchasePrice: row.PurchasePrice,
				SalePrice:     row.SalePrice,
				Barcode:       row.Barcode,
				Stocks:        emptyStocks(branches),
			}
			s.Items = append(s.Items, item)
			i = len(s.Items) - 1
			index[row.SKU] = i
		}

		item := &s.Items[i]
		if item.Stocks == nil {
			item.Stocks = emptyStocks(branches)
		}
		if scope == domain.GlobalStockKey {
			item.Code = row.Code
			item.Name = row.Name
			item.Category = row.Category
			item.PurchasePrice = row.PurchasePrice
			item.SalePrice = row.SalePrice
			item.Barcode = row.Barcode
		}
		item.Stocks[scope] = row.StockQty
	}
	return nil
}

// ReplaceCategoryIDs swaps in a freshly imported category-id map.
func (s *State) ReplaceCategoryIDs(m map[string]string) {
	if m == nil {
		m = map[string]string{}
	}
	s.CategoryIDs = m
}

// ReplaceFirstSales swaps in a freshly imported first-sale-date map.
func (s *State) ReplaceFirstSales(m map[string]time.Time) {
	if m == nil {
		m = map[string]time.Time{}
	}
	s.FirstSales = m
}

// ReplaceShelfDates swaps in a freshly imported shelf-date map.
func (s *State) ReplaceShelfDates(m map[string]time.Time) {
	if m == nil {
		m = map[string]time.Time{}
	}
	s.ShelfDates = m
}

// SetMonthSales replaces one month's ledger, leaving other months untouched.
func (s *State) SetMonthSales(month string, lines []domain.SalesLine) error {
	if month == "" {
		return fmt.Errorf("month label must not be empty")
	}
	if lines == nil {
		lines = []domain.SalesLine{}
	}
	s.SalesMonths[month] = lines
	return nil
}

// Touch records the import timestamp in the state metadata.
func (s *State) Touch(now time.Time) {
	now = now.UTC()
	s.LastUpdate = &now
}

// Clone returns a deep copy, so a persisted or exported snapshot can never
// alias live state.
func (s *State) Clone() *State {
	c := &State{
		Items:       make([]domain.Item, len(s.Items)),
		CategoryIDs: make(map[string]string, len(s.CategoryIDs)),
		FirstSales:  make(map[string]time.Time, len(s.FirstSales)),
		ShelfDates:  make(map[string]time.Time, len(s.ShelfDates)),
		SalesMonths: make(map[string][]domain.SalesLine, len(s.SalesMonths)),
		Settings: domain.Settings{
			ExcludedCategories: append([]string(nil), s.Settings.ExcludedCategories...),
			ExcludedSKUs:       append([]string(nil), s.Settings.ExcludedSKUs...),
		},
		Attributes: append([]domain.Attribute(nil), s.Attributes...),
	}
	for i, item := range s.Items {
		stocks := make(map[string]float64, len(item.Stocks))
		for k, v := range item.Stocks {
			stocks[k] = v
		}
		item.Stocks = stocks
		c.Items[i] = item
	}
	for k, v := range s.CategoryIDs {
		c.CategoryIDs[k] = v
	}
	for k, v := range s.FirstSales {
		c.FirstSales[k] = v
	}
	for k, v := range s.ShelfDates {
		c.ShelfDates[k] = v
	}
	for k, v := range s.SalesMonths {
		c.SalesMonths[k] = append([]domain.SalesLine(nil), v...)
	}
	if s.LastUpdate != nil {
		t := *s.LastUpdate
		c.LastUpdate = &t
	}
	return c
}

// Encode serializes the full state to a single JSON document.
func (s *State) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode restores a state from a document produced by Encode. A structurally
// broken document is the one hard failure; missing sections just come back
// empty.
func Decode(data []byte) (*State, error) {
	st := New()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if st.Items == nil {
		st.Items = []domain.Item{}
	}
	if st.CategoryIDs == nil {
		st.CategoryIDs = map[string]string{}
	}
	if st.FirstSales == nil {
		st.FirstSales = map[string]time.Time{}
	}
	if st.ShelfDates == nil {
		st.ShelfDates = map[string]time.Time{}
	}
	if st.SalesMonths == nil {
		st.SalesMonths = map[string][]domain.SalesLine{}
	}
	if st.Attributes == nil {
		st.Attributes = []domain.Attribute{}
	}
	return st, nil
}

func emptyStocks(branches []string) map[string]float64 {
	stocks := make(map[string]float64, len(branches)+1)
	stocks[domain.GlobalStockKey] = 0
	for _, b := range branches {
		stocks[b] = 0
	}
	return stocks
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
