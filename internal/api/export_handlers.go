package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
	"github.com/protectedareas/wdpa-server/internal/report"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportWorkbook",
		Method:      http.MethodGet,
		Path:        "/api/v1/export.xlsx",
		Summary:     "Export workbook",
		Description: "Returns an XLSX workbook with a summary sheet and one sheet per dimension for the selected countries",
		Tags:        []string{"Export"},
		Responses: map[string]*huma.Response{
			"200": {Content: map[string]*huma.MediaType{contentTypeXLSX: {}}},
		},
	}, s.handleExportWorkbook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCountryChart",
		Method:      http.MethodGet,
		Path:        "/api/v1/countries/{code}/charts/{dimension}",
		Summary:     "Get country chart",
		Description: "Returns a PNG bar chart of one country's percentages for a dimension",
		Tags:        []string{"Export"},
		Responses: map[string]*huma.Response{
			"200": {Content: map[string]*huma.MediaType{contentTypePNG: {}}},
		},
	}, s.handleGetCountryChart)
}

type ExportWorkbookInput struct {
	Countries []string `query:"countries,explode" required:"true" doc:"Country names or ISO3 codes. Repeat the parameter or separate with commas"`
}

type ChartInput struct {
	Code      string `path:"code" doc:"ISO3 country code"`
	Dimension string `path:"dimension" doc:"Dimension name; a trailing .png is accepted"`
}

// FileOutput is a binary response body.
type FileOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	CacheControl       string `header:"Cache-Control"`
	Body               []byte
}

func (s *Server) handleExportWorkbook(ctx context.Context, input *ExportWorkbookInput) (*FileOutput, error) {
	selected, err := s.services.Breakdown.Select(ctx, input.Countries)
	if err != nil {
		return nil, s.handlerError(ctx, "exportWorkbook", err)
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, selected, s.services.Countries); err != nil {
		return nil, s.handlerError(ctx, "exportWorkbook", err)
	}

	codes := make([]string, 0, len(selected))
	for _, cb := range selected {
		codes = append(codes, cb.CountryCode)
	}

	return &FileOutput{
		ContentType:        contentTypeXLSX,
		ContentDisposition: fmt.Sprintf(`attachment; filename="wdpa-%s.xlsx"`, strings.ToLower(strings.Join(codes, "-"))),
		CacheControl:       CacheNoStore,
		Body:               buf.Bytes(),
	}, nil
}

func (s *Server) handleGetCountryChart(ctx context.Context, input *ChartInput) (*FileOutput, error) {
	name := strings.TrimSuffix(input.Dimension, ".png")
	dim, ok := domain.ParseDimension(name)
	if !ok {
		return nil, s.handlerError(ctx, "getCountryChart", errors.NotFoundf("unknown dimension %q", name))
	}

	cb, err := s.services.Breakdown.ForCode(ctx, input.Code)
	if err != nil {
		return nil, s.handlerError(ctx, "getCountryChart", err)
	}

	var buf bytes.Buffer
	if err := report.WriteBarChart(&buf, cb, dim); err != nil {
		return nil, s.handlerError(ctx, "getCountryChart", err)
	}

	return &FileOutput{
		ContentType:  contentTypePNG,
		CacheControl: CachePrivateHour,
		Body:         buf.Bytes(),
	}, nil
}
