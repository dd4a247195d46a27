package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 4096

func loadCSV(ctx context.Context, opts Options) ([]domain.AreaRecord, error) {
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "open %s", opts.Path)
	}
	defer f.Close()

	return ReadCSV(ctx, f, opts.AreaColumn)
}

// ReadCSV decodes WDPA records from a CSV stream with a header row.
func ReadCSV(ctx context.Context, r io.Reader, areaColumn string) ([]domain.AreaRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.MalformedInput("dataset is empty: no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedInput, "read header")
	}

	cols, err := resolveColumns(header, areaColumn)
	if err != nil {
		return nil, err
	}

	var records []domain.AreaRecord
	for row := 1; ; row++ {
		if row%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeMalformedInput, "row %d", row)
		}

		rec, err := cols.decode(row, cells)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}
