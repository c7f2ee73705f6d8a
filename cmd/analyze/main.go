// cmd/analyze/main.go
//
// Batch mode: parse the source files, run the full computation once and write
// the three result tables as CSV. The same core the server exposes, without a
// server.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/payalnyahorobets-create/ppynlnya/internal/importer"
	"github.com/payalnyahorobets-create/ppynlnya/internal/service"
	"github.com/payalnyahorobets-create/ppynlnya/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "analyze",
		Usage: "import inventory and sales files, compute reports, write CSV tables",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "nomenclature", Usage: "nomenclature file (csv/xlsx/xml)"},
			&cli.StringFlag{Name: "scope", Value: domain.GlobalStockKey, Usage: "stock scope for the nomenclature import"},
			&cli.StringFlag{Name: "categories", Usage: "category-id reference file"},
			&cli.StringFlag{Name: "first-sales", Usage: "first-sale dates file"},
			&cli.StringFlag{Name: "shelf-dates", Usage: "shelf placement dates file"},
			&cli.StringFlag{Name: "sales-dir", Usage: "directory of monthly sales files, one <month-label>.<ext> per month"},
			&cli.StringFlag{Name: "exclude-categories", Usage: "text file with excluded categories, one per line"},
			&cli.StringFlag{Name: "exclude-skus", Usage: "text file with excluded SKUs, one per line"},
			&cli.StringSliceFlag{Name: "branch", Usage: "branch stock location key (repeatable)"},
			&cli.StringFlag{Name: "today", Usage: "evaluation date YYYY-MM-DD (default: now)"},
			&cli.StringFlag{Name: "out", Value: "./data/reports", Usage: "output directory for the report CSVs"},
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analyze failed")
	}
}

func run(c *cli.Context) error {
	logger.SetLevel(c.String("log-level"))
	ctx := c.Context

	today := time.Now()
	if raw := c.String("today"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid --today value %q: %w", raw, err)
		}
		today = parsed
	}

	svc := service.New(c.StringSlice("branch"), nil)

	if err := applySettings(ctx, svc, c.String("exclude-categories"), c.String("exclude-skus")); err != nil {
		return err
	}

	inputs, err := parseInputs(ctx, c)
	if err != nil {
		return err
	}

	// Reference maps go in before the nomenclature so the first computed
	// report already sees them.
	if inputs.categories != nil {
		svc.ImportCategoryIDs(ctx, inputs.categories)
	}
	if inputs.firstSales != nil {
		svc.ImportFirstSales(ctx, inputs.firstSales)
	}
	if inputs.shelfDates != nil {
		svc.ImportShelfDates(ctx, inputs.shelfDates)
	}
	if inputs.nomenclature != nil {
		count, err := svc.ImportNomenclature(ctx, inputs.nomenclature, c.String("scope"))
		if err != nil {
			return err
		}
		logger.Log.Info().Int("items", count).Msg("nomenclature imported")
	}
	for _, month := range sortedMonths(inputs.sales) {
		count, err := svc.ImportMonthSales(ctx, month, inputs.sales[month])
		if err != nil {
			return err
		}
		logger.Log.Info().Str("month", month).Int("lines", count).Msg("sales imported")
	}

	outDir := c.String("out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := writeMetricsCSV(filepath.Join(outDir, "metrics.csv"), svc.Metrics(today)); err != nil {
		return err
	}
	if err := writeAbcCSV(filepath.Join(outDir, "abc.csv"), svc.AbcXyz(ctx)); err != nil {
		return err
	}
	if err := writeMonthsCSV(filepath.Join(outDir, "months.csv"), svc.MonthSummary()); err != nil {
		return err
	}

	logger.Log.Info().Str("dir", outDir).Msg("reports written")
	return nil
}

type parsedInputs struct {
	nomenclature []domain.Record
	categories   []domain.Record
	firstSales   []domain.Record
	shelfDates   []domain.Record
	sales        map[string][]domain.Record
}

// parseInputs reads all source files concurrently. Parsing is the slow part
// for big exports; the imports themselves stay sequential.
func parseInputs(ctx context.Context, c *cli.Context) (*parsedInputs, error) {
	inputs := &parsedInputs{sales: make(map[string][]domain.Record)}
	g, _ := errgroup.WithContext(ctx)

	parseInto := func(path string, dst *[]domain.Record) {
		if path == "" {
			return
		}
		g.Go(func() error {
			records, err := importer.ParseFile(path)
			if err != nil {
				return err
			}
			*dst = records
			return nil
		})
	}

	parseInto(c.String("nomenclature"), &inputs.nomenclature)
	parseInto(c.String("categories"), &inputs.categories)
	parseInto(c.String("first-sales"), &inputs.firstSales)
	parseInto(c.String("shelf-dates"), &inputs.shelfDates)

	if dir := c.String("sales-dir"); dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read sales directory: %w", err)
		}
		var mu sync.Mutex
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			month := strings.TrimSuffix(name, filepath.Ext(name))
			path := filepath.Join(dir, name)
			g.Go(func() error {
				records, err := importer.ParseFile(path)
				if err != nil {
					return err
				}
				mu.Lock()
				inputs.sales[month] = records
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func applySettings(ctx context.Context, svc *service.Analysis, categoriesPath, skusPath string) error {
	readAll := func(path string) (string, error) {
		if path == "" {
			return "", nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read exclusion file %s: %w", path, err)
		}
		return string(data), nil
	}

	categories, err := readAll(categoriesPath)
	if err != nil {
		return err
	}
	skus, err := readAll(skusPath)
	if err != nil {
		return err
	}
	if categories != "" || skus != "" {
		svc.UpdateSettings(ctx, categories, skus)
	}
	return nil
}

func sortedMonths(sales map[string][]domain.Record) []string {
	months := make([]string, 0, len(sales))
	for m := range sales {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}
