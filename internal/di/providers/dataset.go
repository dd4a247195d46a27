package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/protectedareas/wdpa-server/internal/config"
	"github.com/protectedareas/wdpa-server/internal/countries"
	"github.com/protectedareas/wdpa-server/internal/dataset"
	"github.com/protectedareas/wdpa-server/internal/logger"
	"github.com/protectedareas/wdpa-server/internal/metrics"
)

// DatasetHandle wraps the loaded dataset with shutdown capability.
type DatasetHandle struct {
	*dataset.Dataset
}

// Shutdown implements do.Shutdownable.
func (h *DatasetHandle) Shutdown() error {
	return h.Close()
}

// ProvideDataset loads the protected-area dataset. A load failure aborts startup.
func ProvideDataset(i do.Injector) (*DatasetHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ds, err := dataset.Load(context.Background(), dataset.Options{
		Path:       cfg.Dataset.Path,
		Format:     cfg.Dataset.Format,
		Table:      cfg.Dataset.Table,
		Sheet:      cfg.Dataset.Sheet,
		AreaColumn: cfg.Dataset.AreaColumn,
	}, log.WithComponent("dataset").Logger)
	if err != nil {
		return nil, err
	}

	metrics.DatasetRecords.Set(float64(ds.Len()))
	metrics.DatasetCountries.Set(float64(ds.CountryCount()))

	return &DatasetHandle{Dataset: ds}, nil
}

// ProvideCountryTable provides the country code reference table.
func ProvideCountryTable(i do.Injector) (*countries.Table, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	table, err := countries.Load(cfg.Countries.CodesPath)
	if err != nil {
		return nil, err
	}

	source := cfg.Countries.CodesPath
	if source == "" {
		source = "embedded"
	}
	log.Info("Country table loaded", "source", source, "countries", table.Len())

	return table, nil
}
