package providers

import (
	"github.com/samber/do/v2"

	"github.com/protectedareas/wdpa-server/internal/logger"
	"github.com/protectedareas/wdpa-server/internal/search"
)

// SearchIndexHandle wraps the country index with shutdown capability.
type SearchIndexHandle struct {
	*search.CountryIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve country index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewCountryIndex(search.Options{
		Logger: log.WithComponent("search").Logger,
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{CountryIndex: index}, nil
}
