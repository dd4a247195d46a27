package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/protectedareas/wdpa-server/internal/aggregate"
	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

type mapNamer map[string]string

func (m mapNamer) Name(code string) string {
	if n, ok := m[code]; ok {
		return n
	}
	return code
}

var testNames = mapNamer{"KEN": "Kenya", "PER": "Peru"}

func testBreakdowns(t *testing.T) *domain.Breakdowns {
	t.Helper()
	b, err := aggregate.ComputeBreakdowns(context.Background(), []domain.AreaRecord{
		{CountryCode: "KEN", AreaSqKm: 1000, Status: "Designated", IUCNCategory: "II"},
		{CountryCode: "KEN", AreaSqKm: 234.5, Status: "Proposed", IUCNCategory: "<script>"},
		{CountryCode: "PER", AreaSqKm: 400, Status: "Designated", IUCNCategory: "II"},
		{CountryCode: "CIV", AreaSqKm: 0, Status: "Designated"},
	})
	require.NoError(t, err)
	return b
}

func testCountry(t *testing.T, code string) domain.CountryBreakdown {
	t.Helper()
	cb := aggregate.Lookup(testBreakdowns(t), code)
	cb.CountryName = testNames.Name(code)
	return cb
}

func TestFormatArea(t *testing.T) {
	assert.Equal(t, "1,234.50", FormatArea(1234.5))
	assert.Equal(t, "150.00", FormatArea(150))
	assert.Equal(t, "1,000,000.25", FormatArea(1000000.25))
}

func TestWriteCountriesHTML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCountriesHTML(&buf, []domain.CountryBreakdown{testCountry(t, "KEN")}, testNames)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Kenya")
	assert.Contains(t, html, "Total area in square km")
	assert.Contains(t, html, "Protection status")
	assert.Contains(t, html, "1,234.50")
	assert.Contains(t, html, "81.00%")
	assert.Contains(t, html, "19.00%")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestWriteCountriesHTML_EmptyCountry(t *testing.T) {
	cb := aggregate.Lookup(testBreakdowns(t), "NOR")

	var buf bytes.Buffer
	require.NoError(t, WriteCountriesHTML(&buf, []domain.CountryBreakdown{cb}, nil))
	assert.Contains(t, buf.String(), "NOR")
	assert.Contains(t, buf.String(), "No protected-area records")
}

func TestWriteCountriesHTML_UndefinedPercent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCountriesHTML(&buf, []domain.CountryBreakdown{testCountry(t, "CIV")}, nil))
	assert.Contains(t, buf.String(), "n/a")
}

func TestWriteTableHTML(t *testing.T) {
	table := testBreakdowns(t).Table(domain.DimensionStatus)

	var buf bytes.Buffer
	require.NoError(t, WriteTableHTML(&buf, table, testNames))

	html := buf.String()
	assert.Contains(t, html, `id="dimension-status"`)
	assert.Contains(t, html, "Peru")
	assert.Contains(t, html, "CIV")
	assert.Equal(t, len(table.Rows), strings.Count(html, "<tr><td>"))
}

func TestWriteCountriesMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCountriesMarkdown(&buf, []domain.CountryBreakdown{testCountry(t, "KEN"), testCountry(t, "PER")}, testNames)
	require.NoError(t, err)

	md := buf.String()
	assert.Contains(t, md, "Kenya")
	assert.Contains(t, md, "Peru")
	assert.Contains(t, md, "| Country")
	assert.Contains(t, md, "100.00%")
	assert.NotContains(t, md, "<table>")
}

func TestWriteTableMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTableMarkdown(&buf, testBreakdowns(t).Table(domain.DimensionIUCNCategory), testNames))
	assert.Contains(t, buf.String(), "IUCN category")
	assert.Contains(t, buf.String(), "|")
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf, []domain.CountryBreakdown{testCountry(t, "KEN"), testCountry(t, "CIV")}, testNames)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1+len(domain.AllDimensions()))
	assert.Equal(t, SummarySheet, sheets[0])
	assert.Contains(t, sheets, "Protection status")

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "ISO3", summary[0][0])
	assert.Equal(t, []string{"KEN", "Kenya", "TRUE", "1234.5"}, summary[1])

	status, err := f.GetRows("Protection status")
	require.NoError(t, err)
	require.Len(t, status, 4)
	assert.Equal(t, []string{"KEN", "Kenya", "Designated", "1000", "81"}, status[1])
	// undefined percent stays blank
	assert.Len(t, status[3], 4)
	assert.Equal(t, "CIV", status[3][0])
}

func TestWriteBarChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBarChart(&buf, testCountry(t, "KEN"), domain.DimensionStatus))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestWriteBarChart_NoRows(t *testing.T) {
	var buf bytes.Buffer

	err := WriteBarChart(&buf, testCountry(t, "CIV"), domain.DimensionStatus)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = WriteBarChart(&buf, aggregate.Lookup(testBreakdowns(t), "NOR"), domain.DimensionStatus)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Zero(t, buf.Len())
}
