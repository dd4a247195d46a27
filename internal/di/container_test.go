package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protectedareas/wdpa-server/internal/config"
	"github.com/protectedareas/wdpa-server/internal/di/providers"
	"github.com/protectedareas/wdpa-server/internal/logger"
	"github.com/protectedareas/wdpa-server/internal/service"
)

const sampleCSV = `ISO3,PARENT_ISO3,STATUS,GOV_TYPE,OWN_TYPE,IUCN_CAT,VERIF,GIS_AREA
KEN,KEN,Designated,Federal or national ministry or agency,State,II,State Verified,150
PER,PER,Designated,,State,II,State Verified,400
`

func testConfig(t *testing.T, datasetPath string) *config.Config {
	t.Helper()
	return &config.Config{
		App:     config.AppConfig{Environment: "development"},
		Logger:  config.LoggerConfig{Level: "error"},
		Dataset: config.DatasetConfig{Path: datasetPath, AreaColumn: "GIS_AREA"},
		Query:   config.QueryConfig{MaxCountries: 2},
	}
}

func TestNewQueryContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wdpa.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	injector := NewQueryContainer(testConfig(t, path), logger.Discard())

	breakdown, err := do.Invoke[*service.BreakdownService](injector)
	require.NoError(t, err)
	assert.Equal(t, 2, breakdown.MaxCountries())
	assert.Equal(t, 2, breakdown.DatasetInfo().Records)

	selected, err := breakdown.Select(context.Background(), []string{"Peru", "Kenya"})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "Peru", selected[0].CountryName)

	countrySvc, err := do.Invoke[*service.CountryService](injector)
	require.NoError(t, err)
	count, err := countrySvc.IndexedCount()
	require.NoError(t, err)
	assert.Positive(t, count)

	handle, err := do.Invoke[*providers.DatasetHandle](injector)
	require.NoError(t, err)

	assert.Nil(t, injector.Shutdown())
	assert.Equal(t, 2, handle.Len())
}

func TestNewQueryContainer_MissingDataset(t *testing.T) {
	injector := NewQueryContainer(testConfig(t, filepath.Join(t.TempDir(), "missing.csv")), logger.Discard())

	_, err := do.Invoke[*service.BreakdownService](injector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}
