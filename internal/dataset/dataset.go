// Package dataset loads the protected-area records once and exposes them as an
// immutable handle shared by every query.
package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
	"github.com/protectedareas/wdpa-server/internal/id"
)

// Format identifies the on-disk encoding of a dataset.
type Format string

// Supported formats.
const (
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
	FormatXLSX   Format = "xlsx"
	FormatMemory Format = "memory"
)

// DetectFormat returns the format named by override, or the one implied by the path's extension.
func DetectFormat(path, override string) (Format, error) {
	if override != "" {
		switch f := Format(strings.ToLower(override)); f {
		case FormatCSV, FormatSQLite, FormatXLSX:
			return f, nil
		case "gpkg", "db":
			return FormatSQLite, nil
		default:
			return "", errors.Unsupportedf("unsupported dataset format %q", override)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".gpkg", ".sqlite", ".db":
		return FormatSQLite, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", errors.Unsupportedf("cannot infer dataset format from %q", path)
	}
}

// Options control how a dataset is loaded.
type Options struct {
	Path       string
	Format     string // empty to infer from extension
	Table      string // SQLite table; empty to pick the first table with the required columns
	Sheet      string // XLSX sheet; empty for the first sheet
	AreaColumn string // defaults to DefaultAreaColumn
}

// Dataset is a load-once, read-only snapshot of the input records.
// It is safe to share between goroutines without locking.
type Dataset struct {
	ID         string
	Source     string
	Format     Format
	AreaColumn string
	LoadedAt   time.Time

	records   []domain.AreaRecord
	countries int
}

// New wraps already-parsed records in a dataset handle.
func New(records []domain.AreaRecord, source string, format Format, areaColumn string) (*Dataset, error) {
	snapshotID, err := id.Generate(id.SnapshotPrefix)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		ID:         snapshotID,
		Source:     source,
		Format:     format,
		AreaColumn: areaColumn,
		LoadedAt:   time.Now().UTC(),
		records:    records,
		countries: len(lo.UniqBy(records, func(r domain.AreaRecord) string {
			return r.CountryCode
		})),
	}, nil
}

// Records returns the dataset's records. The slice is shared and must not be modified.
func (d *Dataset) Records() []domain.AreaRecord {
	return d.records
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// CountryCount returns the number of distinct country codes.
func (d *Dataset) CountryCount() int {
	return d.countries
}

// Close ends the dataset's lifecycle. Records stay readable afterwards since
// requests still in flight during shutdown may hold them.
func (d *Dataset) Close() error {
	return nil
}

// Load reads the dataset described by opts. Any precondition violation (missing column,
// bad area value, empty country code) is returned as a MALFORMED_INPUT error before
// any record is handed out.
func Load(ctx context.Context, opts Options, logger *slog.Logger) (*Dataset, error) {
	if opts.Path == "" {
		return nil, errors.Validation("dataset path is required")
	}
	if opts.AreaColumn == "" {
		opts.AreaColumn = DefaultAreaColumn
	}
	opts.AreaColumn = strings.ToUpper(opts.AreaColumn)
	if !ValidAreaColumn(opts.AreaColumn) {
		return nil, errors.Validationf("area column %q must be one of %s", opts.AreaColumn, strings.Join(AreaColumns(), ", "))
	}

	format, err := DetectFormat(opts.Path, opts.Format)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(opts.Path); err != nil {
		return nil, errors.Wrapf(err, errors.CodeNotFound, "dataset %s", opts.Path)
	}

	start := time.Now()
	logger.Info("loading dataset", "path", opts.Path, "format", format, "area_column", opts.AreaColumn)

	var records []domain.AreaRecord
	switch format {
	case FormatCSV:
		records, err = loadCSV(ctx, opts)
	case FormatSQLite:
		records, err = loadSQLite(ctx, opts)
	case FormatXLSX:
		records, err = loadXLSX(ctx, opts)
	default:
		err = errors.Unsupportedf("unsupported dataset format %q", format)
	}
	if err != nil {
		return nil, err
	}

	ds, err := New(records, opts.Path, format, opts.AreaColumn)
	if err != nil {
		return nil, err
	}

	logger.Info("dataset loaded",
		"id", ds.ID,
		"records", ds.Len(),
		"countries", ds.CountryCount(),
		"duration", time.Since(start),
	)
	return ds, nil
}
