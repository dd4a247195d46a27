package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protectedareas/wdpa-server/internal/domain"
)

// setupTestIndex creates an index holding a handful of countries, two of them with data.
func setupTestIndex(t *testing.T) *CountryIndex {
	t.Helper()

	index, err := NewCountryIndex(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	totals := domain.CountryTotals{"KEN": 200, "PER": 500}
	var docs []*CountryDocument
	for _, c := range []domain.Country{
		{Name: "Kenya", Alpha2: "KE", ISO3: "KEN"},
		{Name: "Peru", Alpha2: "PE", ISO3: "PER"},
		{Name: "Côte d'Ivoire", Alpha2: "CI", ISO3: "CIV"},
		{Name: "United States of America", Alpha2: "US", ISO3: "USA"},
		{Name: "United Kingdom of Great Britain and Northern Ireland", Alpha2: "GB", ISO3: "GBR"},
	} {
		docs = append(docs, NewCountryDocument(c, totals))
	}
	require.NoError(t, index.IndexCountries(docs))

	return index
}

func hitCodes(result *SearchResult) []string {
	codes := make([]string, 0, len(result.Hits))
	for _, h := range result.Hits {
		codes = append(codes, h.ISO3)
	}
	return codes
}

func TestNewCountryIndex(t *testing.T) {
	index, err := NewCountryIndex(Options{})
	require.NoError(t, err)
	defer index.Close()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNewCountryDocument(t *testing.T) {
	doc := NewCountryDocument(domain.Country{Name: "Côte d'Ivoire", ISO3: "CIV"}, domain.CountryTotals{"CIV": 12})

	assert.Equal(t, "CIV", doc.ID)
	assert.Equal(t, "cote d ivoire", doc.Folded)
	assert.True(t, doc.HasData)
	assert.InDelta(t, 12.0, doc.TotalSqKm, 1e-9)

	m := doc.ToMap()
	assert.Equal(t, "cote d ivoire", m["sort_name"])
	assert.NotContains(t, m, "alpha2")
}

func TestCountryIndex_IndexCountries(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)
}

func TestCountryIndex_Search_ListAll(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, uint64(5), result.Total)
	assert.Equal(t, []string{"CIV", "KEN", "PER", "GBR", "USA"}, hitCodes(result))
}

func TestCountryIndex_Search_Prefix(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "Ken", Limit: 10})
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "KEN", result.Hits[0].ISO3)
	assert.Equal(t, "Kenya", result.Hits[0].Name)
	assert.True(t, result.Hits[0].HasData)
	assert.InDelta(t, 200.0, result.Hits[0].TotalSqKm, 1e-9)
}

func TestCountryIndex_Search_Fuzzy(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "kenia", Limit: 10})
	require.NoError(t, err)

	assert.Contains(t, hitCodes(result), "KEN")
}

func TestCountryIndex_Search_AccentInsensitive(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "cote d'ivoire", Limit: 10})
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "CIV", result.Hits[0].ISO3)
	assert.Equal(t, "Côte d'Ivoire", result.Hits[0].Name)
}

func TestCountryIndex_Search_Code(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "usa", Limit: 10})
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "USA", result.Hits[0].ISO3)
}

func TestCountryIndex_Search_WithDataOnly(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{WithDataOnly: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"KEN", "PER"}, hitCodes(result))

	result, err = index.Search(context.Background(), SearchParams{Query: "united", WithDataOnly: true, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestCountryIndex_Search_NoMatch(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "atlantis", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), result.Total)
	assert.NotNil(t, result.Hits)
}
