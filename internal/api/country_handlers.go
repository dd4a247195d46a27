package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/protectedareas/wdpa-server/internal/search"
)

func (s *Server) registerCountryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCountries",
		Method:      http.MethodGet,
		Path:        "/api/v1/countries",
		Summary:     "List countries",
		Description: "Lists reference countries alphabetically, or searches them by name fragment or code when q is set",
		Tags:        []string{"Countries"},
	}, s.handleListCountries)
}

// ListCountriesInput contains parameters for listing and searching countries.
type ListCountriesInput struct {
	Query    string `query:"q" maxLength:"100" doc:"Name fragment or ISO code"`
	WithData bool   `query:"with_data" doc:"Only countries that have records in the dataset"`
	Limit    int    `query:"limit" default:"50" minimum:"1" maximum:"300" doc:"Max results"`
	Offset   int    `query:"offset" default:"0" minimum:"0" doc:"Pagination offset"`
}

// CountriesOutput wraps a page of countries for Huma.
type CountriesOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleListCountries(ctx context.Context, input *ListCountriesInput) (*CountriesOutput, error) {
	result, err := s.services.Countries.Search(ctx, search.SearchParams{
		Query:        input.Query,
		WithDataOnly: input.WithData,
		Limit:        input.Limit,
		Offset:       input.Offset,
	})
	if err != nil {
		return nil, s.handlerError(ctx, "listCountries", err)
	}
	return &CountriesOutput{Body: result}, nil
}
