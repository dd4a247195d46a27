package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/samber/lo"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/service"
)

func (s *Server) registerDatasetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDataset",
		Method:      http.MethodGet,
		Path:        "/api/v1/dataset",
		Summary:     "Get dataset",
		Description: "Returns metadata about the loaded dataset snapshot",
		Tags:        []string{"Dataset"},
	}, s.handleGetDataset)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDimensions",
		Method:      http.MethodGet,
		Path:        "/api/v1/dimensions",
		Summary:     "List dimensions",
		Description: "Returns the six breakdown dimensions with their labels and source columns",
		Tags:        []string{"Dataset"},
	}, s.handleListDimensions)
}

// DatasetResponse describes the loaded dataset.
type DatasetResponse struct {
	service.DatasetInfo
	MaxCountries int `json:"max_countries" doc:"Maximum countries per selection"`
}

// DatasetOutput wraps the dataset response for Huma.
type DatasetOutput struct {
	Body DatasetResponse
}

// DimensionResponse describes one breakdown dimension.
type DimensionResponse struct {
	Name   string `json:"name" doc:"Dimension identifier used in paths"`
	Label  string `json:"label" doc:"Column heading for the category"`
	Column string `json:"column" doc:"Source dataset column"`
}

// DimensionsOutput wraps the dimension list for Huma.
type DimensionsOutput struct {
	Body struct {
		Dimensions []DimensionResponse `json:"dimensions"`
	}
}

func (s *Server) handleGetDataset(_ context.Context, _ *struct{}) (*DatasetOutput, error) {
	return &DatasetOutput{
		Body: DatasetResponse{
			DatasetInfo:  s.services.Breakdown.DatasetInfo(),
			MaxCountries: s.services.Breakdown.MaxCountries(),
		},
	}, nil
}

func (s *Server) handleListDimensions(_ context.Context, _ *struct{}) (*DimensionsOutput, error) {
	out := &DimensionsOutput{}
	out.Body.Dimensions = lo.Map(domain.AllDimensions(), func(d domain.Dimension, _ int) DimensionResponse {
		return DimensionResponse{
			Name:   string(d),
			Label:  d.Label(),
			Column: d.Column(),
		}
	})
	return out, nil
}
