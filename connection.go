package paging

import "fmt"

// Concat joins pages into a single slice, preserving page order and the row
// order within each page. Nil pages are skipped.
//
// Example:
//
//	rows := paging.Concat(result.Pages)
func Concat[T any](pages []*Page[T]) []T {
	total := 0
	for _, p := range pages {
		if p != nil {
			total += len(p.Nodes)
		}
	}

	out := make([]T, 0, total)
	for _, p := range pages {
		if p == nil {
			continue
		}
		out = append(out, p.Nodes...)
	}
	return out
}

// BuildResultSet assembles a ResultSet from a finished fetch.
// Every row must have exactly one value per column; a mismatch means the
// table definition changed between pages and is reported as an error.
//
// Example usage:
//
//	rs, err := paging.BuildResultSet(table, "id", fetcher.Columns(), result)
func BuildResultSet(
	table TableRef,
	orderColumn string,
	columns []Column,
	result *Result[Row],
) (*ResultSet, error) {
	rs := &ResultSet{
		Table:       table,
		Columns:     columns,
		OrderColumn: orderColumn,
		Rows:        make([]Row, 0),
	}
	if result == nil {
		return rs, nil
	}

	for i, row := range result.Nodes {
		if len(columns) > 0 && len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d columns", i, len(row), len(columns))
		}
	}

	rs.Rows = result.Nodes
	if rs.Rows == nil {
		rs.Rows = make([]Row, 0)
	}
	rs.TotalCount = result.TotalCount
	rs.Pages = len(result.Pages)
	rs.Duration = result.Metadata.Duration
	return rs, nil
}
