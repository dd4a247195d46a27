package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
	"github.com/protectedareas/wdpa-server/internal/report"
	"github.com/protectedareas/wdpa-server/internal/service"
)

//go:embed templates/*.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// indexPageData contains data for the browser page.
type indexPageData struct {
	Dataset      service.DatasetInfo
	MaxCountries int
	Countries    []domain.Country
	Selected     map[string]bool
	Codes        []string
	CodesParam   string
	Error        string
	Content      template.HTML
}

// handleIndexPage renders the country selector and breakdown tables.
// With no selection it shows every dimension's full table.
// GET /?countries=KEN&countries=PER
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	selectors := nonEmptySelectors(r.URL.Query()["countries"])

	data := indexPageData{
		Dataset:      s.services.Breakdown.DatasetInfo(),
		MaxCountries: s.services.Breakdown.MaxCountries(),
		Countries:    s.services.Countries.All(),
		Selected:     map[string]bool{},
	}
	status := http.StatusOK

	var content bytes.Buffer
	if len(selectors) == 0 {
		all, err := s.services.Breakdown.Compute(ctx)
		if err != nil {
			s.renderError(w, err)
			return
		}
		for _, dim := range domain.AllDimensions() {
			if err := report.WriteTableHTML(&content, all.Table(dim), s.services.Countries); err != nil {
				s.renderError(w, err)
				return
			}
		}
	} else {
		selected, err := s.services.Breakdown.Select(ctx, selectors)
		switch {
		case errors.Is(err, errors.ErrValidation):
			status = http.StatusBadRequest
			data.Error = err.Error()
		case err != nil:
			s.renderError(w, err)
			return
		default:
			data.Codes = lo.Map(selected, func(cb domain.CountryBreakdown, _ int) string { return cb.CountryCode })
			data.CodesParam = strings.Join(data.Codes, ",")
			for _, code := range data.Codes {
				data.Selected[code] = true
			}
			if err := report.WriteCountriesHTML(&content, selected, s.services.Countries); err != nil {
				s.renderError(w, err)
				return
			}
		}
	}
	//nolint:gosec // Produced by html/template, already escaped.
	data.Content = template.HTML(content.String())

	var page bytes.Buffer
	if err := indexTemplate.Execute(&page, data); err != nil {
		s.renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(page.Bytes())
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	s.logger.Error("failed to render page", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// nonEmptySelectors drops blank parameters. Comma-separated lists are split by the
// breakdown service, which knows the names that contain commas.
func nonEmptySelectors(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
