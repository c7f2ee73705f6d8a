// internal/service/analysis.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/payalnyahorobets-create/ppynlnya/internal/analysis"
	"github.com/payalnyahorobets-create/ppynlnya/internal/cache"
	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/payalnyahorobets-create/ppynlnya/internal/normalize"
	"github.com/payalnyahorobets-create/ppynlnya/internal/state"
	"github.com/rs/zerolog/log"
)

// Analysis owns the canonical state and exposes imports and report
// computations. Imports take the write lock and bump the state version;
// computations run under the read lock against that one consistent snapshot,
// so no report ever sees a partially-updated mixture of old and new data.
type Analysis struct {
	mu       sync.RWMutex
	st       *state.State
	version  uint64
	branches []string
	reports  cache.ReportCache
}

// New creates the service for the configured branch set. A nil report cache
// falls back to a no-op cache.
func New(branches []string, reports cache.ReportCache) *Analysis {
	if reports == nil {
		reports = cache.NewNoopReportCache()
	}
	return &Analysis{
		st:       state.New(),
		branches: append([]string(nil), branches...),
		reports:  reports,
	}
}

// Branches returns the configured branch keys.
func (a *Analysis) Branches() []string {
	return append([]string(nil), a.branches...)
}

// ImportNomenclature normalizes and merges nomenclature records for the given
// scope ("global" or a branch key). Returns the number of rows merged.
func (a *Analysis) ImportNomenclature(ctx context.Context, records []domain.Record, scope string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows := normalize.Items(records, a.st.Settings)
	if err := a.st.MergeNomenclature(rows, scope, a.branches); err != nil {
		return 0, err
	}
	a.bump(ctx)
	log.Info().Str("scope", scope).Int("rows", len(rows)).Msg("nomenclature imported")
	return len(rows), nil
}

// ImportCategoryIDs replaces the category-id map. Returns the entry count.
func (a *Analysis) ImportCategoryIDs(ctx context.Context, records []domain.Record) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := normalize.CategoryIDs(records)
	a.st.ReplaceCategoryIDs(m)
	a.bump(ctx)
	return len(m)
}

// ImportFirstSales replaces the first-sale-date map. Returns the entry count.
func (a *Analysis) ImportFirstSales(ctx context.Context, records []domain.Record) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := normalize.FirstSales(records)
	a.st.ReplaceFirstSales(m)
	a.bump(ctx)
	return len(m)
}

// ImportShelfDates replaces the shelf-date map. Returns the entry count.
func (a *Analysis) ImportShelfDates(ctx context.Context, records []domain.Record) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := normalize.ShelfDates(records)
	a.st.ReplaceShelfDates(m)
	a.bump(ctx)
	return len(m)
}

// ImportMonthSales replaces one month's sales ledger. Returns the line count.
func (a *Analysis) ImportMonthSales(ctx context.Context, month string, records []domain.Record) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	lines := normalize.Sales(records)
	if err := a.st.SetMonthSales(month, lines); err != nil {
		return 0, err
	}
	a.bump(ctx)
	log.Info().Str("month", month).Int("lines", len(lines)).Msg("sales month imported")
	return len(lines), nil
}

// UpdateSettings replaces the exclusion lists from their free-text blocks.
// Exclusions apply to future imports; already-imported items stay.
func (a *Analysis) UpdateSettings(ctx context.Context, excludedCategories, excludedSKUs string) domain.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Settings = domain.Settings{
		ExcludedCategories: normalize.SplitLines(excludedCategories),
		ExcludedSKUs:       normalize.SplitLines(excludedSKUs),
	}
	a.bump(ctx)
	return a.st.Settings
}

// Settings returns the current exclusion settings.
func (a *Analysis) Settings() domain.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return domain.Settings{
		ExcludedCategories: append([]string(nil), a.st.Settings.ExcludedCategories...),
		ExcludedSKUs:       append([]string(nil), a.st.Settings.ExcludedSKUs...),
	}
}

// Metrics computes the lifecycle metrics report as of the given instant.
func (a *Analysis) Metrics(today time.Time) []domain.ItemMetrics {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return analysis.Metrics(a.st, today)
}

// AbcXyz computes the classification report, serving from the report cache
// when the state version still matches.
func (a *Analysis) AbcXyz(ctx context.Context) domain.AbcReport {
	a.mu.RLock()
	version := a.version
	if report, ok, err := a.reports.GetAbc(ctx, version); err == nil && ok {
		a.mu.RUnlock()
		return report
	} else if err != nil {
		log.Warn().Err(err).Msg("abc report cache get failed")
	}

	report := analysis.AbcXyz(a.st)
	a.mu.RUnlock()

	if err := a.reports.SetAbc(ctx, version, report); err != nil {
		log.Warn().Err(err).Msg("abc report cache set failed")
	}
	return report
}

// MonthSummary computes the monthly roll-up report.
func (a *Analysis) MonthSummary() []domain.MonthSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return analysis.MonthSummaries(a.st)
}

// Attributes returns the attribute registry.
func (a *Analysis) Attributes() []domain.Attribute {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]domain.Attribute(nil), a.st.Attributes...)
}

// AddAttribute appends one attribute note.
func (a *Analysis) AddAttribute(ctx context.Context, attr domain.Attribute) error {
	if attr.Category == "" || attr.Name == "" {
		return fmt.Errorf("attribute category and name are required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.Attributes = append(a.st.Attributes, attr)
	a.bump(ctx)
	return nil
}

// ReplaceAttributes swaps the whole attribute registry.
func (a *Analysis) ReplaceAttributes(ctx context.Context, attrs []domain.Attribute) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.Attributes = append([]domain.Attribute(nil), attrs...)
	a.bump(ctx)
}

// ExportState serializes the full canonical state to one JSON document.
func (a *Analysis) ExportState() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.st.Encode()
}

// RestoreState replaces the canonical state from a document produced by
// ExportState.
func (a *Analysis) RestoreState(ctx context.Context, doc []byte) error {
	st, err := state.Decode(doc)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st = st
	a.bump(ctx)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (a *Analysis) Snapshot() *state.State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.st.Clone()
}

// bump must be called with the write lock held.
func (a *Analysis) bump(ctx context.Context) {
	a.version++
	a.st.Touch(time.Now())
	if err := a.reports.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("abc report cache invalidation failed")
	}
}
