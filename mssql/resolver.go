package mssql

import (
	"context"
	"database/sql"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"

	"github.com/kinderudp/paging-go"
)

// primaryKeyColumnQuery returns the first column of the table's primary key.
// Composite keys yield only their first column.
const primaryKeyColumnQuery = `
	SELECT TOP (1) ku.COLUMN_NAME
	FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
	INNER JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE ku
		ON tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		AND tc.CONSTRAINT_NAME = ku.CONSTRAINT_NAME
		AND tc.TABLE_SCHEMA = ku.TABLE_SCHEMA
		AND tc.TABLE_NAME = ku.TABLE_NAME
	WHERE ku.TABLE_SCHEMA = ? AND ku.TABLE_NAME = ?
	ORDER BY ku.ORDINAL_POSITION
`

// firstColumnQuery returns the column with the lowest ordinal position.
const firstColumnQuery = `
	SELECT TOP (1) COLUMN_NAME
	FROM INFORMATION_SCHEMA.COLUMNS
	WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
	ORDER BY ORDINAL_POSITION
`

// Resolver implements paging.OrderResolver with catalog queries against the
// INFORMATION_SCHEMA views of the connected database.
type Resolver struct {
	exec boil.ContextExecutor
}

var _ paging.OrderResolver = (*Resolver)(nil)

// NewResolver returns a resolver that queries through exec, usually the
// *sql.DB of the table's database.
func NewResolver(exec boil.ContextExecutor) *Resolver {
	return &Resolver{exec: exec}
}

// ResolveOrderColumn returns the table's primary-key column, falling back to
// its first column by ordinal position. It returns paging.ErrNoOrderingColumn
// when the catalog knows no column for the table.
func (r *Resolver) ResolveOrderColumn(ctx context.Context, table paging.TableRef) (string, error) {
	col, found, err := r.lookup(ctx, primaryKeyColumnQuery, table)
	if err != nil {
		return "", errors.Wrapf(err, "failed to look up primary key of %s", table.FullName())
	}
	if found {
		return col, nil
	}

	col, found, err = r.lookup(ctx, firstColumnQuery, table)
	if err != nil {
		return "", errors.Wrapf(err, "failed to look up columns of %s", table.FullName())
	}
	if found {
		return col, nil
	}

	return "", errors.Wrap(paging.ErrNoOrderingColumn, table.FullName())
}

func (r *Resolver) lookup(ctx context.Context, query string, table paging.TableRef) (string, bool, error) {
	var col string
	err := queries.Raw(query, table.Schema, table.Name).QueryRowContext(ctx, r.exec).Scan(&col)
	if errors.Cause(err) == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return col, true, nil
}
