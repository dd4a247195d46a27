package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/samber/lo"

	"github.com/protectedareas/wdpa-server/internal/domain"
)

func (s *Server) registerBreakdownRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDimensionTable",
		Method:      http.MethodGet,
		Path:        "/api/v1/breakdowns/{dimension}",
		Summary:     "Get dimension table",
		Description: "Returns the full breakdown table for one dimension across every country in the dataset",
		Tags:        []string{"Breakdowns"},
	}, s.handleGetDimensionTable)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectBreakdowns",
		Method:      http.MethodGet,
		Path:        "/api/v1/breakdowns",
		Summary:     "Compare countries",
		Description: "Returns per-country breakdowns for a selection of country names or ISO3 codes, in selection order",
		Tags:        []string{"Breakdowns"},
	}, s.handleSelectBreakdowns)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCountryBreakdown",
		Method:      http.MethodGet,
		Path:        "/api/v1/countries/{code}/breakdown",
		Summary:     "Get country breakdown",
		Description: "Returns the breakdown for one ISO3 code. A code with no records yields empty tables.",
		Tags:        []string{"Breakdowns"},
	}, s.handleGetCountryBreakdown)
}

// === DTOs ===

// RowResponse is one (country, category) group.
type RowResponse struct {
	CountryCode string   `json:"country_code" doc:"ISO3 code"`
	Category    string   `json:"category" doc:"Category value; Not Reported when missing"`
	AreaSqKm    float64  `json:"total_area_sq_km" doc:"Summed area in square kilometres"`
	Percent     *float64 `json:"percent_of_country_total" required:"true" nullable:"true" doc:"Share of the country total, null when the total is zero"`
}

// DimensionTableResponse is a full table for one dimension.
type DimensionTableResponse struct {
	Dimension string        `json:"dimension"`
	Label     string        `json:"label"`
	Rows      []RowResponse `json:"rows"`
}

// DimensionRowsResponse is one country's rows for one dimension.
type DimensionRowsResponse struct {
	Dimension       string        `json:"dimension"`
	Label           string        `json:"label"`
	Rows            []RowResponse `json:"rows"`
	CategorizedSqKm float64       `json:"categorized_sq_km" doc:"Sum of the rows' areas"`
}

// CountryBreakdownResponse is the breakdown for one country across all dimensions.
type CountryBreakdownResponse struct {
	CountryCode string                  `json:"country_code"`
	CountryName string                  `json:"country_name,omitempty"`
	Known       bool                    `json:"known" doc:"Whether the dataset has any record for this code"`
	TotalSqKm   float64                 `json:"country_total_sq_km"`
	Dimensions  []DimensionRowsResponse `json:"dimensions"`
}

type GetDimensionTableInput struct {
	Dimension string `path:"dimension" doc:"One of status, governing_body, owner_type, iucn_category, verification_type, parent_country"`
}

type DimensionTableOutput struct {
	Body DimensionTableResponse
}

type SelectBreakdownsInput struct {
	Countries []string `query:"countries,explode" required:"true" doc:"Country names or ISO3 codes. Repeat the parameter or separate with commas"`
}

type SelectBreakdownsOutput struct {
	Body struct {
		Countries []CountryBreakdownResponse `json:"countries"`
	}
}

type GetCountryBreakdownInput struct {
	Code string `path:"code" doc:"ISO3 country code"`
}

type CountryBreakdownOutput struct {
	Body CountryBreakdownResponse
}

// === Handlers ===

func (s *Server) handleGetDimensionTable(ctx context.Context, input *GetDimensionTableInput) (*DimensionTableOutput, error) {
	table, err := s.services.Breakdown.Table(ctx, input.Dimension)
	if err != nil {
		return nil, s.handlerError(ctx, "getDimensionTable", err)
	}

	return &DimensionTableOutput{
		Body: DimensionTableResponse{
			Dimension: string(table.Dimension),
			Label:     table.Dimension.Label(),
			Rows:      mapRows(table.Rows),
		},
	}, nil
}

func (s *Server) handleSelectBreakdowns(ctx context.Context, input *SelectBreakdownsInput) (*SelectBreakdownsOutput, error) {
	selected, err := s.services.Breakdown.Select(ctx, input.Countries)
	if err != nil {
		return nil, s.handlerError(ctx, "selectBreakdowns", err)
	}

	out := &SelectBreakdownsOutput{}
	out.Body.Countries = lo.Map(selected, func(cb domain.CountryBreakdown, _ int) CountryBreakdownResponse {
		return mapCountryBreakdown(cb)
	})
	return out, nil
}

func (s *Server) handleGetCountryBreakdown(ctx context.Context, input *GetCountryBreakdownInput) (*CountryBreakdownOutput, error) {
	cb, err := s.services.Breakdown.ForCode(ctx, input.Code)
	if err != nil {
		return nil, s.handlerError(ctx, "getCountryBreakdown", err)
	}
	return &CountryBreakdownOutput{Body: mapCountryBreakdown(cb)}, nil
}

// === Mapping ===

func mapRows(rows []domain.BreakdownRow) []RowResponse {
	return lo.Map(rows, func(r domain.BreakdownRow, _ int) RowResponse {
		return RowResponse{
			CountryCode: r.CountryCode,
			Category:    r.Category,
			AreaSqKm:    r.AreaSqKm,
			Percent:     r.Percent.Ptr(),
		}
	})
}

func mapCountryBreakdown(cb domain.CountryBreakdown) CountryBreakdownResponse {
	return CountryBreakdownResponse{
		CountryCode: cb.CountryCode,
		CountryName: cb.CountryName,
		Known:       cb.Known,
		TotalSqKm:   cb.TotalSqKm,
		Dimensions: lo.Map(cb.Dimensions, func(dr domain.DimensionRows, _ int) DimensionRowsResponse {
			return DimensionRowsResponse{
				Dimension:       string(dr.Dimension),
				Label:           dr.Label,
				Rows:            mapRows(dr.Rows),
				CategorizedSqKm: dr.CategorizedSqKm,
			}
		}),
	}
}
