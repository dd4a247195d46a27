package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

// loadSQLite reads the attribute table of a SQLite database or GeoPackage.
func loadSQLite(ctx context.Context, opts Options) ([]domain.AreaRecord, error) {
	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "open %s", opts.Path)
	}
	defer db.Close()

	return ReadSQLite(ctx, db, opts.Table, opts.AreaColumn)
}

// ReadSQLite decodes WDPA records from table. When table is empty the first table
// (by name) carrying every required column is used.
func ReadSQLite(ctx context.Context, db *sql.DB, table, areaColumn string) ([]domain.AreaRecord, error) {
	if table == "" {
		found, err := findTable(ctx, db, areaColumn)
		if err != nil {
			return nil, err
		}
		table = found
	}

	header, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, errors.MalformedInputf("table %q does not exist", table)
	}

	cols, err := resolveColumns(header, areaColumn)
	if err != nil {
		return nil, err
	}

	// Select every column in table order so the column index applies to each scanned row.
	quoted := make([]string, len(header))
	for i, h := range header {
		quoted[i] = quoteIdent(h)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), quoteIdent(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "query %s", table)
	}
	defer rows.Close()

	values := make([]any, len(header))
	dest := make([]any, len(header))
	for i := range values {
		dest[i] = &values[i]
	}
	cells := make([]string, len(header))

	var records []domain.AreaRecord
	for row := 1; rows.Next(); row++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrapf(err, errors.CodeMalformedInput, "row %d", row)
		}
		for i, v := range values {
			cells[i] = sqlText(v)
		}

		rec, err := cols.decode(row, cells)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "read %s", table)
	}

	return records, nil
}

func findTable(ctx context.Context, db *sql.DB, areaColumn string) (string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "list tables")
	}

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return "", errors.Wrap(err, errors.CodeInternal, "list tables")
		}
		tables = append(tables, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "list tables")
	}

	for _, table := range tables {
		header, err := tableColumns(ctx, db, table)
		if err != nil {
			return "", err
		}
		if _, err := resolveColumns(header, areaColumn); err == nil {
			return table, nil
		}
	}

	return "", errors.MalformedInputf("no table has the required columns: %s",
		strings.Join(RequiredColumns(areaColumn), ", "))
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "describe %s", table)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrapf(err, errors.CodeInternal, "describe %s", table)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// sqlText renders a scanned SQLite value as text. NULL becomes the empty string.
func sqlText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
