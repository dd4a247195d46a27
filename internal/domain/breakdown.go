package domain

import (
	"slices"
	"strings"
)

// CountryTotals maps an ISO3 code to the total area of all records for that country.
type CountryTotals map[string]float64

// Get returns the total for a country and whether the country is present.
func (t CountryTotals) Get(code string) (float64, bool) {
	v, ok := t[code]
	return v, ok
}

// Codes returns the country codes in ascending order.
func (t CountryTotals) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// BreakdownRow is one (country, category) group of a dimension breakdown.
type BreakdownRow struct {
	CountryCode string  `json:"country_code"`
	Category    string  `json:"category"`
	AreaSqKm    float64 `json:"total_area_sq_km"`
	Percent     Percent `json:"percent_of_country_total"`
}

// Breakdown is the grouped-and-normalized table for one dimension.
// Rows are sorted by country code, then category.
type Breakdown struct {
	Dimension Dimension      `json:"dimension"`
	Rows      []BreakdownRow `json:"rows"`
}

// ForCountry returns the rows for one country. The result is empty, never nil, when the country has no rows.
func (b Breakdown) ForCountry(code string) []BreakdownRow {
	start, _ := slices.BinarySearchFunc(b.Rows, code, func(r BreakdownRow, c string) int {
		return strings.Compare(r.CountryCode, c)
	})
	rows := []BreakdownRow{}
	for i := start; i < len(b.Rows) && b.Rows[i].CountryCode == code; i++ {
		rows = append(rows, b.Rows[i])
	}
	return rows
}

// Breakdowns holds the country totals and one table per dimension for a single query.
type Breakdowns struct {
	Totals CountryTotals           `json:"totals"`
	Tables map[Dimension]Breakdown `json:"tables"`
}

// Table returns the breakdown for a dimension; the zero Breakdown when absent.
func (b *Breakdowns) Table(d Dimension) Breakdown {
	if t, ok := b.Tables[d]; ok {
		return t
	}
	return Breakdown{Dimension: d, Rows: []BreakdownRow{}}
}

// DimensionRows are one country's rows for one dimension.
// CategorizedSqKm is the sum of the rows' areas; it equals the country total only
// when the dimension's categories partition the country's records.
type DimensionRows struct {
	Dimension       Dimension      `json:"dimension"`
	Label           string         `json:"label"`
	Rows            []BreakdownRow `json:"rows"`
	CategorizedSqKm float64        `json:"categorized_sq_km"`
}

// CountryBreakdown is the lookup result for one country across all dimensions.
type CountryBreakdown struct {
	CountryCode string          `json:"country_code"`
	CountryName string          `json:"country_name,omitempty"`
	Known       bool            `json:"known"`
	TotalSqKm   float64         `json:"country_total_sq_km"`
	Dimensions  []DimensionRows `json:"dimensions"`
}

// Rows returns the rows for one dimension, empty when the dimension is absent.
func (c CountryBreakdown) Rows(d Dimension) []BreakdownRow {
	for _, dr := range c.Dimensions {
		if dr.Dimension == d {
			return dr.Rows
		}
	}
	return []BreakdownRow{}
}

// IsEmpty reports whether every dimension has no rows.
func (c CountryBreakdown) IsEmpty() bool {
	for _, dr := range c.Dimensions {
		if len(dr.Rows) > 0 {
			return false
		}
	}
	return true
}
