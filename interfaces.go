package paging

import (
	"context"
	"time"
)

// Fetcher abstracts the database queries needed to page through a table.
// It keeps the paginator independent of the driver and query builder, so the
// same loop runs against SQL Server in production and an in-memory fake in
// tests.
//
// Type parameter T is the item type of one row (paging.Row for the SQL Server
// adapter).
//
// Example implementation:
//
//	type sliceFetcher struct {
//	    rows []paging.Row
//	}
//
//	func (f *sliceFetcher) Fetch(ctx context.Context, p paging.FetchParams) ([]paging.Row, error) {
//	    end := min(p.Offset+p.Limit, len(f.rows))
//	    if p.Offset >= end {
//	        return nil, nil
//	    }
//	    return f.rows[p.Offset:end], nil
//	}
type Fetcher[T any] interface {
	// Fetch retrieves one page. It must apply Limit, Offset and OrderBy.
	Fetch(ctx context.Context, params FetchParams) ([]T, error)

	// Count returns the number of rows in the table at the time of the call.
	// It only sizes the pagination; it never bounds the rows actually fetched.
	Count(ctx context.Context, params FetchParams) (int64, error)
}

// OrderResolver determines the column used to give a table a deterministic
// row order.
type OrderResolver interface {
	// ResolveOrderColumn returns a primary-key column of the table, or its
	// first column by ordinal position when it has no primary key.
	// It returns ErrNoOrderingColumn when neither exists.
	ResolveOrderColumn(ctx context.Context, table TableRef) (string, error)
}

// FetchParams contains all parameters needed to fetch a page of data.
// Paginators construct these parameters from their plan.
type FetchParams struct {
	// Limit is the maximum number of rows to fetch.
	Limit int

	// Offset is the number of rows to skip.
	Offset int

	// OrderBy specifies the sort order for results.
	OrderBy []OrderBy
}

// OrderBy represents a sort directive for query results.
type OrderBy struct {
	// Column is the name of the column to sort by.
	Column string

	// Desc indicates descending order. False means ascending.
	Desc bool
}

// Ascending returns a single ascending sort directive on column.
func Ascending(column string) []OrderBy {
	return []OrderBy{{Column: column}}
}

// Page represents a single fetched page.
//
// Type parameter T is the row type.
type Page[T any] struct {
	// Nodes contains the rows of this page in order-column order.
	Nodes []T

	// Index is the zero-based position of the page in the fetch sequence.
	Index int

	// Offset is the row offset the page query started at.
	Offset int

	// Cursor is an opaque offset cursor pointing just past this page.
	// Passing it back through WithAfter resumes after this page.
	Cursor string

	// Metadata provides observability information for this page query.
	Metadata Metadata
}

// Result is the outcome of a full multi-page fetch.
type Result[T any] struct {
	// Pages holds every non-empty page in fetch order.
	Pages []*Page[T]

	// Nodes is the concatenation of all pages, preserving page order and the
	// row order within each page.
	Nodes []T

	// TotalCount is the row count observed before the first page.
	TotalCount int64

	// TotalPages is the number of pages the plan expected.
	TotalPages int

	// Metadata aggregates the page metadata.
	Metadata Metadata
}

// Metadata provides observability and debugging information about a fetch.
type Metadata struct {
	// Strategy identifies which pagination strategy was used ("offset").
	Strategy string

	// QueryTimeMs is the total time spent executing database queries.
	QueryTimeMs int64

	// ItemsExamined is the total number of rows fetched from the database.
	ItemsExamined int

	// IterationsUsed is the number of page queries issued.
	IterationsUsed int

	// StoppedEarly is true when an empty page ended the loop before the
	// planned page count was reached.
	StoppedEarly bool

	// Duration is the wall-clock time of the whole operation.
	Duration time.Duration
}
