package report

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

// SummarySheet is the first sheet of an exported workbook.
const SummarySheet = "Summary"

var summaryHeaders = []any{"ISO3", "Country", "Has records", "Total area in square km"}

// WriteWorkbook writes a workbook with a summary sheet and one sheet per dimension.
// Areas are numeric cells; an undefined percent is left blank.
func WriteWorkbook(w io.Writer, breakdowns []domain.CountryBreakdown, names Namer) error {
	if names == nil {
		names = CodesOnly
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create summary sheet")
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeaders); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "write summary header")
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 8)
	_ = f.SetColWidth(SummarySheet, "B", "D", 24)

	for i, cb := range breakdowns {
		name := cb.CountryName
		if name == "" {
			name = names.Name(cb.CountryCode)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{cb.CountryCode, name, cb.Known, cb.TotalSqKm}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write summary row")
		}
	}

	for _, dim := range domain.AllDimensions() {
		sheet := dim.Label()
		if _, err := f.NewSheet(sheet); err != nil {
			return errors.Wrapf(err, errors.CodeInternal, "create sheet %s", sheet)
		}
		headers := []any{"ISO3", "Country", sheet, "Total area in square km", "Percent of country total"}
		if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
			return errors.Wrapf(err, errors.CodeInternal, "write %s header", sheet)
		}
		_ = f.SetColWidth(sheet, "A", "A", 8)
		_ = f.SetColWidth(sheet, "B", "E", 24)

		line := 2
		for _, cb := range breakdowns {
			for _, r := range cb.Rows(dim) {
				var pct any
				if r.Percent.Defined {
					pct = r.Percent.Value
				}
				cell, _ := excelize.CoordinatesToCellName(1, line)
				row := []any{r.CountryCode, names.Name(r.CountryCode), r.Category, r.AreaSqKm, pct}
				if err := f.SetSheetRow(sheet, cell, &row); err != nil {
					return errors.Wrapf(err, errors.CodeInternal, "write %s row", sheet)
				}
				line++
			}
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "write workbook")
	}
	return nil
}
