package dataset

import (
	"context"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

func loadXLSX(ctx context.Context, opts Options) ([]domain.AreaRecord, error) {
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "open %s", opts.Path)
	}
	defer f.Close()

	return ReadXLSX(ctx, f, opts.Sheet, opts.AreaColumn)
}

// ReadXLSX decodes WDPA records from a workbook sheet whose first row is the header.
// An empty sheet name selects the first sheet.
func ReadXLSX(ctx context.Context, r io.Reader, sheet, areaColumn string) ([]domain.AreaRecord, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedInput, "open workbook")
	}
	defer wb.Close()

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.MalformedInput("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeMalformedInput, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.MalformedInputf("sheet %q is empty: no header row", sheet)
	}

	cols, err := resolveColumns(rows[0], areaColumn)
	if err != nil {
		return nil, err
	}

	records := make([]domain.AreaRecord, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		row := i + 1
		if row%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlankRow(cells) {
			continue
		}

		rec, err := cols.decode(row, cells)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
