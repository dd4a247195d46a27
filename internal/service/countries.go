package service

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/protectedareas/wdpa-server/internal/aggregate"
	"github.com/protectedareas/wdpa-server/internal/countries"
	"github.com/protectedareas/wdpa-server/internal/dataset"
	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/search"
)

// CountryService lists and searches the country reference table.
type CountryService struct {
	table  *countries.Table
	index  *search.CountryIndex
	logger *slog.Logger
}

// NewCountryService indexes every reference country, flagging those the dataset has records for.
func NewCountryService(
	table *countries.Table,
	index *search.CountryIndex,
	ds *dataset.Dataset,
	logger *slog.Logger,
) (*CountryService, error) {
	totals := aggregate.CountryTotals(ds.Records())

	docs := lo.Map(table.Countries(), func(c domain.Country, _ int) *search.CountryDocument {
		return search.NewCountryDocument(c, totals)
	})
	if err := index.IndexCountries(docs); err != nil {
		return nil, err
	}

	withData := lo.CountBy(docs, func(d *search.CountryDocument) bool { return d.HasData })
	unmatched := lo.Filter(totals.Codes(), func(code string, _ int) bool {
		_, ok := table.ByCode(code)
		return !ok
	})

	logger.Info("country index ready",
		"countries", len(docs),
		"with_data", withData,
		"dataset_codes_without_name", len(unmatched),
	)
	if len(unmatched) > 0 {
		logger.Debug("dataset codes missing from country table", "codes", unmatched)
	}

	return &CountryService{
		table:  table,
		index:  index,
		logger: logger,
	}, nil
}

// Search finds countries by name fragment or code. An empty query lists countries alphabetically.
func (s *CountryService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// All returns the full reference table sorted by name.
func (s *CountryService) All() []domain.Country {
	return s.table.Countries()
}

// Count returns the size of the reference table.
func (s *CountryService) Count() int {
	return s.table.Len()
}

// Resolve maps a display name to its reference entry.
func (s *CountryService) Resolve(name string) (domain.Country, bool) {
	code, ok := s.table.Lookup(name)
	if !ok {
		return domain.Country{}, false
	}
	return s.table.ByCode(code)
}

// IndexedCount returns how many countries the search index holds.
func (s *CountryService) IndexedCount() (uint64, error) {
	return s.index.DocumentCount()
}

// Name returns the display name for a code, or the code itself when unknown.
func (s *CountryService) Name(code string) string {
	return s.table.Name(code)
}
