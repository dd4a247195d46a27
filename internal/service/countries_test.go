package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protectedareas/wdpa-server/internal/dataset"
	"github.com/protectedareas/wdpa-server/internal/search"
)

func setupCountryService(t *testing.T) *CountryService {
	t.Helper()

	ds, err := dataset.New(testRecords(), "memory", dataset.FormatMemory, dataset.DefaultAreaColumn)
	require.NoError(t, err)

	index, err := search.NewCountryIndex(search.Options{Logger: testLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	svc, err := NewCountryService(testTable(t), index, ds, testLogger())
	require.NoError(t, err)
	return svc
}

func TestCountryService_IndexesEveryCountry(t *testing.T) {
	svc := setupCountryService(t)

	count, err := svc.IndexedCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)
	assert.Equal(t, 5, svc.Count())
	assert.Equal(t, "Brazil", svc.All()[0].Name)
}

func TestCountryService_SearchWithData(t *testing.T) {
	svc := setupCountryService(t)

	res, err := svc.Search(context.Background(), search.SearchParams{WithDataOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(3), res.Total)

	for _, hit := range res.Hits {
		assert.True(t, hit.HasData, hit.ISO3)
	}

	res, err = svc.Search(context.Background(), search.SearchParams{Query: "nor", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "NOR", res.Hits[0].ISO3)
	assert.False(t, res.Hits[0].HasData)
}

func TestCountryService_Resolve(t *testing.T) {
	svc := setupCountryService(t)

	c, ok := svc.Resolve("kenya")
	require.True(t, ok)
	assert.Equal(t, "KEN", c.ISO3)

	c, ok = svc.Resolve("COTE D'IVOIRE")
	require.True(t, ok)
	assert.Equal(t, "CIV", c.ISO3)

	_, ok = svc.Resolve("Atlantis")
	assert.False(t, ok)

	assert.Equal(t, "Peru", svc.Name("PER"))
	assert.Equal(t, "XKX", svc.Name("XKX"))
}
