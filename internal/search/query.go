package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/protectedareas/wdpa-server/internal/countries"
)

// SearchParams configures a country search.
type SearchParams struct {
	Query        string // Name fragment or code; empty lists all countries alphabetically
	WithDataOnly bool   // Only countries that have records in the dataset
	Limit        int
	Offset       int
}

// SearchResult is a page of matching countries.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is one matching country.
type SearchHit struct {
	ISO3      string  `json:"iso3"`
	Name      string  `json:"name"`
	Alpha2    string  `json:"alpha2,omitempty"`
	Score     float64 `json:"score"`
	HasData   bool    `json:"has_data"`
	TotalSqKm float64 `json:"total_sq_km"`
}

// Search executes a country query.
func (s *CountryIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	if strings.TrimSpace(params.Query) == "" {
		req.SortBy([]string{"sort_name"})
	} else {
		req.SortBy([]string{"-_score", "sort_name"})
	}
	req.Fields = []string{"iso3", "name", "alpha2", "has_data", "total_sq_km"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := SearchHit{ISO3: hit.ID, Score: hit.Score}
		if n, ok := hit.Fields["name"].(string); ok {
			h.Name = n
		}
		if a, ok := hit.Fields["alpha2"].(string); ok {
			h.Alpha2 = a
		}
		if d, ok := hit.Fields["has_data"].(bool); ok {
			h.HasData = d
		}
		if v, ok := hit.Fields["total_sq_km"].(float64); ok {
			h.TotalSqKm = v
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
//
// A fragment matches whole words of the folded name (strongest), any word within
// edit distance one, or, for the last word being typed, a word prefix. A fragment
// that is exactly a code matches the ISO3 or alpha-2 field.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	folded := countries.NormalizeName(params.Query)
	if folded != "" {
		textQueries := []query.Query{}

		match := bleve.NewMatchQuery(folded)
		match.SetField("folded")
		match.SetOperator(query.MatchQueryOperatorAnd)
		match.SetBoost(3.0)
		textQueries = append(textQueries, match)

		words := strings.Fields(folded)
		last := words[len(words)-1]

		fuzzy := bleve.NewFuzzyQuery(last)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("folded")
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(last) >= 2 {
			prefix := bleve.NewPrefixQuery(last)
			prefix.SetField("folded")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		code := strings.ToUpper(strings.TrimSpace(params.Query))
		switch {
		case countries.LooksLikeCode(code):
			iso3 := bleve.NewTermQuery(code)
			iso3.SetField("iso3")
			iso3.SetBoost(5.0)
			textQueries = append(textQueries, iso3)
		case len(code) == 2:
			alpha2 := bleve.NewTermQuery(code)
			alpha2.SetField("alpha2")
			alpha2.SetBoost(2.0)
			textQueries = append(textQueries, alpha2)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.WithDataOnly {
		hasData := bleve.NewBoolFieldQuery(true)
		hasData.SetField("has_data")
		queries = append(queries, hasData)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}
