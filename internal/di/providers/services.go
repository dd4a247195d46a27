package providers

import (
	"github.com/samber/do/v2"

	"github.com/protectedareas/wdpa-server/internal/config"
	"github.com/protectedareas/wdpa-server/internal/countries"
	"github.com/protectedareas/wdpa-server/internal/logger"
	"github.com/protectedareas/wdpa-server/internal/service"
)

// ProvideBreakdownService provides the breakdown service.
func ProvideBreakdownService(i do.Injector) (*service.BreakdownService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	datasetHandle := do.MustInvoke[*DatasetHandle](i)
	table := do.MustInvoke[*countries.Table](i)

	return service.NewBreakdownService(
		datasetHandle.Dataset,
		table,
		cfg.Query.MaxCountries,
		log.WithComponent("breakdown").Logger,
	), nil
}

// ProvideCountryService provides the country lookup service and fills the search index.
func ProvideCountryService(i do.Injector) (*service.CountryService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	datasetHandle := do.MustInvoke[*DatasetHandle](i)
	table := do.MustInvoke[*countries.Table](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	return service.NewCountryService(
		table,
		indexHandle.CountryIndex,
		datasetHandle.Dataset,
		log.WithComponent("countries").Logger,
	)
}
