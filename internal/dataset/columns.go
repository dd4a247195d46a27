package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

// CountryColumn is the WDPA column holding the ISO3 country code.
const CountryColumn = "ISO3"

// DefaultAreaColumn is the area column used when none is configured.
const DefaultAreaColumn = "GIS_AREA"

// AreaColumns lists the WDPA columns that can serve as the area measure.
func AreaColumns() []string {
	return []string{"GIS_AREA", "GIS_M_AREA", "REP_AREA", "REP_M_AREA"}
}

// ValidAreaColumn reports whether name is one of AreaColumns.
func ValidAreaColumn(name string) bool {
	for _, c := range AreaColumns() {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// RequiredColumns returns the columns a dataset must carry for the given area column.
func RequiredColumns(areaColumn string) []string {
	cols := []string{CountryColumn, areaColumn}
	for _, d := range domain.AllDimensions() {
		cols = append(cols, d.Column())
	}
	return cols
}

// columnIndex maps required columns to their position in a source row.
type columnIndex struct {
	areaColumn string
	country    int
	area       int
	dims       []int // parallel to domain.AllDimensions()
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// resolveColumns locates the required columns in a header row. Matching is case-insensitive.
func resolveColumns(header []string, areaColumn string) (*columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	var missing []string
	find := func(name string) int {
		i, ok := positions[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := &columnIndex{
		areaColumn: areaColumn,
		country:    find(CountryColumn),
		area:       find(areaColumn),
	}
	for _, d := range domain.AllDimensions() {
		idx.dims = append(idx.dims, find(d.Column()))
	}

	if len(missing) > 0 {
		return nil, errors.MalformedInputf("missing required columns: %s", strings.Join(missing, ", ")).
			WithDetails(map[string]any{"missing": missing})
	}
	return idx, nil
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// decode converts one data row into an AreaRecord. row is the 1-based data row number.
func (c *columnIndex) decode(row int, cells []string) (domain.AreaRecord, error) {
	code := domain.CanonicalCountryKey(cell(cells, c.country))
	if code == "" {
		return domain.AreaRecord{}, errors.MalformedInputf("row %d: empty %s", row, CountryColumn)
	}

	raw := strings.TrimSpace(cell(cells, c.area))
	area, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return domain.AreaRecord{}, errors.MalformedInputf("row %d: %s %q is not a number", row, c.areaColumn, raw)
	}
	if math.IsNaN(area) || math.IsInf(area, 0) || area < 0 {
		return domain.AreaRecord{}, errors.MalformedInputf("row %d: %s must be a finite non-negative number, got %q", row, c.areaColumn, raw)
	}

	value := func(d int) string {
		return strings.TrimSpace(cell(cells, c.dims[d]))
	}

	return domain.AreaRecord{
		CountryCode:       code,
		AreaSqKm:          area,
		Status:            value(0),
		GoverningBody:     value(1),
		OwnerType:         value(2),
		IUCNCategory:      value(3),
		VerificationType:  value(4),
		ParentCountryCode: domain.CanonicalCountryKey(value(5)),
	}, nil
}
