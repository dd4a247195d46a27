// Package di provides dependency injection configuration for the breakdown server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/protectedareas/wdpa-server/internal/config"
	"github.com/protectedareas/wdpa-server/internal/countries"
	"github.com/protectedareas/wdpa-server/internal/di/providers"
	"github.com/protectedareas/wdpa-server/internal/logger"
	"github.com/protectedareas/wdpa-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Data
	do.Provide(injector, providers.ProvideDataset)
	do.Provide(injector, providers.ProvideCountryTable)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideBreakdownService)
	do.Provide(injector, providers.ProvideCountryService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// NewQueryContainer wires the dataset and query services for one-shot commands.
// Config and logger are supplied by the caller and no listener is started.
func NewQueryContainer(cfg *config.Config, log *logger.Logger) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, log)

	do.Provide(injector, providers.ProvideDataset)
	do.Provide(injector, providers.ProvideCountryTable)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideBreakdownService)
	do.Provide(injector, providers.ProvideCountryService)

	return injector
}

// Bootstrap loads the dataset and starts the server. Any load failure is returned
// before the listener starts.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.DatasetHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*countries.Table](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.BreakdownService](injector)
	if _, err := do.Invoke[*service.CountryService](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
