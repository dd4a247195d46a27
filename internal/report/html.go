// Package report renders breakdowns as HTML, Markdown, XLSX workbooks and PNG charts.
package report

import (
	"embed"
	"html/template"
	"io"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/protectedareas/wdpa-server/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Namer maps an ISO3 code to a display name.
type Namer interface {
	Name(code string) string
}

type codeNamer struct{}

func (codeNamer) Name(code string) string { return code }

// CodesOnly is a Namer that displays codes as-is.
var CodesOnly Namer = codeNamer{}

// FormatArea renders square kilometres with thousands separators and two decimals.
func FormatArea(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// FormatPercent renders a percent, or "n/a" when undefined.
func FormatPercent(p domain.Percent) string {
	return p.String()
}

type rowView struct {
	Country  string
	Category string
	Area     string
	Percent  string
}

type dimensionView struct {
	Name        string
	Label       string
	Rows        []rowView
	Categorized string
	Overlap     bool
}

type countryView struct {
	Code       string
	Name       string
	Known      bool
	Total      string
	Dimensions []dimensionView
}

func rowViews(rows []domain.BreakdownRow, names Namer) []rowView {
	out := make([]rowView, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowView{
			Country:  names.Name(r.CountryCode),
			Category: r.Category,
			Area:     FormatArea(r.AreaSqKm),
			Percent:  FormatPercent(r.Percent),
		})
	}
	return out
}

func countryViews(breakdowns []domain.CountryBreakdown, names Namer) []countryView {
	views := make([]countryView, 0, len(breakdowns))
	for _, cb := range breakdowns {
		name := cb.CountryName
		if name == "" {
			name = names.Name(cb.CountryCode)
		}

		v := countryView{
			Code:  cb.CountryCode,
			Name:  name,
			Known: cb.Known,
			Total: FormatArea(cb.TotalSqKm),
		}
		for _, dr := range cb.Dimensions {
			v.Dimensions = append(v.Dimensions, dimensionView{
				Name:        string(dr.Dimension),
				Label:       dr.Label,
				Rows:        rowViews(dr.Rows, names),
				Categorized: FormatArea(dr.CategorizedSqKm),
				Overlap:     len(dr.Rows) > 0 && math.Abs(dr.CategorizedSqKm-cb.TotalSqKm) > 1e-6*math.Max(cb.TotalSqKm, 1),
			})
		}
		views = append(views, v)
	}
	return views
}

// WriteCountriesHTML renders one section per country with a table per dimension.
func WriteCountriesHTML(w io.Writer, breakdowns []domain.CountryBreakdown, names Namer) error {
	if names == nil {
		names = CodesOnly
	}
	return tmpl.ExecuteTemplate(w, "countries", countryViews(breakdowns, names))
}

// WriteTableHTML renders a full dimension table across all countries.
func WriteTableHTML(w io.Writer, table domain.Breakdown, names Namer) error {
	if names == nil {
		names = CodesOnly
	}
	return tmpl.ExecuteTemplate(w, "table", dimensionView{
		Name:  string(table.Dimension),
		Label: table.Dimension.Label(),
		Rows:  rowViews(table.Rows, names),
	})
}
