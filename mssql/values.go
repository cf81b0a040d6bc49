package mssql

import (
	"database/sql"
	"strings"

	mssqldb "github.com/denisenkom/go-mssqldb"
	"github.com/friendsofgo/errors"

	"github.com/kinderudp/paging-go"
)

// describeColumns converts the driver's column metadata of a page query.
func describeColumns(rows *sql.Rows) ([]paging.Column, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get column types")
	}

	columns := make([]paging.Column, len(types))
	for i, t := range types {
		nullable, ok := t.Nullable()
		columns[i] = paging.Column{
			Name:         t.Name(),
			DatabaseType: strings.ToUpper(t.DatabaseTypeName()),
			Nullable:     nullable || !ok,
			Ordinal:      i + 1,
		}
	}
	return columns, nil
}

// scanRows reads every remaining row, one value per column.
func scanRows(rows *sql.Rows, columns []paging.Column) ([]paging.Row, error) {
	out := make([]paging.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}

		for i, v := range values {
			converted, err := convertValue(columns[i].DatabaseType, v)
			if err != nil {
				return nil, errors.Wrapf(err, "column %s", columns[i].Name)
			}
			values[i] = converted
		}
		out = append(out, paging.Row(values))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading rows")
	}
	return out, nil
}

// convertValue turns driver byte encodings into readable values:
// exact numerics become decimal strings and UNIQUEIDENTIFIER becomes the
// canonical UUID text. Everything else is returned unchanged.
func convertValue(databaseType string, v any) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return v, nil
	}

	switch databaseType {
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		return string(b), nil
	case "UNIQUEIDENTIFIER":
		var id mssqldb.UniqueIdentifier
		if err := id.Scan(b); err != nil {
			return nil, err
		}
		return id.String(), nil
	}
	return b, nil
}
