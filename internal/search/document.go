// Package search provides type-ahead country search using an in-memory Bleve index.
// Names are indexed in folded form so accents and punctuation never block a match,
// and each country carries whether the loaded dataset has records for it.
package search

import (
	"github.com/protectedareas/wdpa-server/internal/countries"
	"github.com/protectedareas/wdpa-server/internal/domain"
)

// CountryDocument is the indexed form of a reference-table country.
type CountryDocument struct {
	ID        string  `json:"id"` // ISO3 code
	Name      string  `json:"name"`
	Folded    string  `json:"folded"`
	Alpha2    string  `json:"alpha2,omitempty"`
	HasData   bool    `json:"has_data"`
	TotalSqKm float64 `json:"total_sq_km"`
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *CountryDocument) ToMap() map[string]any {
	m := map[string]any{
		"iso3":        d.ID,
		"name":        d.Name,
		"folded":      d.Folded,
		"sort_name":   d.Folded,
		"has_data":    d.HasData,
		"total_sq_km": d.TotalSqKm,
	}
	if d.Alpha2 != "" {
		m["alpha2"] = d.Alpha2
	}
	return m
}

// NewCountryDocument builds a document from a reference entry and the dataset's country totals.
func NewCountryDocument(c domain.Country, totals domain.CountryTotals) *CountryDocument {
	total, ok := totals.Get(c.ISO3)
	return &CountryDocument{
		ID:        c.ISO3,
		Name:      c.Name,
		Folded:    countries.NormalizeName(c.Name),
		Alpha2:    c.Alpha2,
		HasData:   ok,
		TotalSqKm: total,
	}
}
