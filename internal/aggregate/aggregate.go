// Package aggregate turns a flat collection of area records into per-country,
// per-category area breakdowns with percentages of each country's total.
package aggregate

import (
	"cmp"
	"context"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/protectedareas/wdpa-server/internal/domain"
)

type groupKey struct {
	country  string
	category string
}

func areaOf(r domain.AreaRecord) float64 {
	return r.AreaSqKm
}

// CountryTotals sums the area of every record per country code.
// Every code present in records gets an entry, including countries whose total is zero.
func CountryTotals(records []domain.AreaRecord) domain.CountryTotals {
	groups := lo.GroupBy(records, func(r domain.AreaRecord) string {
		return r.CountryCode
	})

	totals := make(domain.CountryTotals, len(groups))
	for code, group := range groups {
		totals[code] = lo.SumBy(group, areaOf)
	}
	return totals
}

// Aggregate groups records by (country, dimension value), sums the area of each group and
// expresses it as a percentage of the country's total. Missing values are grouped under
// domain.NotReported. A country absent from totals or with a zero total gets undefined percentages.
func Aggregate(records []domain.AreaRecord, dim domain.Dimension, totals domain.CountryTotals) domain.Breakdown {
	groups := lo.GroupBy(records, func(r domain.AreaRecord) groupKey {
		return groupKey{country: r.CountryCode, category: dim.Value(r)}
	})

	rows := make([]domain.BreakdownRow, 0, len(groups))
	for key, group := range groups {
		area := lo.SumBy(group, areaOf)

		percent := domain.UndefinedPercent()
		if total, ok := totals.Get(key.country); ok {
			percent = domain.PercentOf(area, total)
		}

		rows = append(rows, domain.BreakdownRow{
			CountryCode: key.country,
			Category:    key.category,
			AreaSqKm:    area,
			Percent:     percent,
		})
	}

	slices.SortFunc(rows, func(a, b domain.BreakdownRow) int {
		return cmp.Or(
			cmp.Compare(a.CountryCode, b.CountryCode),
			cmp.Compare(a.Category, b.Category),
		)
	})

	return domain.Breakdown{Dimension: dim, Rows: rows}
}

// ComputeBreakdowns computes the country totals and then one breakdown per dimension.
// The dimension passes are independent and run concurrently; each writes only its own slot.
func ComputeBreakdowns(ctx context.Context, records []domain.AreaRecord) (*domain.Breakdowns, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	totals := CountryTotals(records)
	dims := domain.AllDimensions()
	tables := make([]domain.Breakdown, len(dims))

	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range dims {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tables[i] = Aggregate(records, dim, totals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.Breakdowns{
		Totals: totals,
		Tables: make(map[domain.Dimension]domain.Breakdown, len(dims)),
	}
	for i, dim := range dims {
		result.Tables[dim] = tables[i]
	}
	return result, nil
}

// Lookup returns the rows of every dimension for one country code.
// A code with no records yields an empty row set per dimension, not an error.
func Lookup(b *domain.Breakdowns, code string) domain.CountryBreakdown {
	total, known := b.Totals.Get(code)

	out := domain.CountryBreakdown{
		CountryCode: code,
		Known:       known,
		TotalSqKm:   total,
		Dimensions:  make([]domain.DimensionRows, 0, len(domain.AllDimensions())),
	}

	for _, dim := range domain.AllDimensions() {
		rows := b.Table(dim).ForCountry(code)
		out.Dimensions = append(out.Dimensions, domain.DimensionRows{
			Dimension:       dim,
			Label:           dim.Label(),
			Rows:            rows,
			CategorizedSqKm: lo.SumBy(rows, func(r domain.BreakdownRow) float64 { return r.AreaSqKm }),
		})
	}
	return out
}

// LookupMany looks up several codes in order.
func LookupMany(b *domain.Breakdowns, codes []string) []domain.CountryBreakdown {
	return lo.Map(codes, func(code string, _ int) domain.CountryBreakdown {
		return Lookup(b, code)
	})
}
