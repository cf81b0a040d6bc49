package mssql

import (
	"strings"

	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/kinderudp/paging-go"
)

// dialect renders queries for SQL Server 2012 and later: bracket quoting,
// TOP for a first page, OFFSET ... ROWS FETCH NEXT ... ROWS ONLY after it.
var dialect = drivers.Dialect{
	LQ: '[',
	RQ: ']',

	UseSchema:               true,
	UseTopClause:            true,
	UseOutputClause:         true,
	UseCaseWhenExistsClause: true,
}

// NewQuery builds a SQL Server query from mods.
func NewQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

// OffsetToQueryMods converts FetchParams into SQLBoiler query mods for offset
// pagination. Column names must already be quoted; see QuoteOrderBy.
//
// The conversion follows these rules:
//   - Offset → qm.Offset(n), skipped for the first page
//   - Limit → qm.Limit(n)
//   - OrderBy → qm.OrderBy("[col1] DESC, [col2]")
//
// Example:
//
//	mods := mssql.OffsetToQueryMods(paging.FetchParams{
//	    Offset:  20000,
//	    Limit:   10000,
//	    OrderBy: []paging.OrderBy{{Column: "[id]"}},
//	})
//	// ORDER BY [id] OFFSET 20000 ROWS FETCH NEXT 10000 ROWS ONLY
func OffsetToQueryMods(params paging.FetchParams) []qm.QueryMod {
	mods := []qm.QueryMod{}

	if params.Offset > 0 {
		mods = append(mods, qm.Offset(params.Offset))
	}

	if params.Limit > 0 {
		mods = append(mods, qm.Limit(params.Limit))
	}

	if len(params.OrderBy) > 0 {
		mods = append(mods, qm.OrderBy(buildOrderByClause(params.OrderBy)))
	}

	return mods
}

// QuoteOrderBy returns a copy of orderBy with every column bracket-quoted.
func QuoteOrderBy(orderBy []paging.OrderBy) ([]paging.OrderBy, error) {
	quoted := make([]paging.OrderBy, len(orderBy))
	for i, o := range orderBy {
		col, err := QuoteIdentifier(o.Column)
		if err != nil {
			return nil, err
		}
		quoted[i] = paging.OrderBy{Column: col, Desc: o.Desc}
	}
	return quoted, nil
}

// buildOrderByClause constructs an ORDER BY clause from OrderBy directives.
// Assumes len(orderBy) > 0 (caller must verify).
func buildOrderByClause(orderBy []paging.OrderBy) string {
	parts := make([]string, len(orderBy))
	for i, o := range orderBy {
		if o.Desc {
			parts[i] = o.Column + " DESC"
		} else {
			parts[i] = o.Column
		}
	}
	return strings.Join(parts, ", ")
}

// PageQuery returns SELECT * over table for one page of params.
// Identifiers are quoted here; offsets and limits are rendered as integers.
func PageQuery(table paging.TableRef, params paging.FetchParams) (*queries.Query, error) {
	from, err := QuoteTable(table)
	if err != nil {
		return nil, err
	}

	orderBy, err := QuoteOrderBy(params.OrderBy)
	if err != nil {
		return nil, err
	}
	params.OrderBy = orderBy

	mods := append([]qm.QueryMod{qm.From(from)}, OffsetToQueryMods(params)...)
	return NewQuery(mods...), nil
}

// CountQuery returns SELECT COUNT(*) over table.
func CountQuery(table paging.TableRef) (*queries.Query, error) {
	from, err := QuoteTable(table)
	if err != nil {
		return nil, err
	}

	q := NewQuery(qm.From(from))
	queries.SetCount(q)
	return q, nil
}
