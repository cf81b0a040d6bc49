package paging

import "time"

// PageInfo describes the progress of a fetch at one point in time.
// It is passed to every Observer callback.
type PageInfo struct {
	Table       TableRef
	OrderColumn string

	// TotalCount is the row count observed before the first page.
	TotalCount int64

	// TotalPages is the number of pages the plan expects.
	TotalPages int

	// Page is the one-based number of the page just fetched (0 before the
	// first page).
	Page int

	// PageRows is the number of rows in the page just fetched.
	PageRows int

	// RowsFetched is the running total of rows fetched so far.
	RowsFetched int

	// Offset is the row offset of the page just fetched.
	Offset int

	// Elapsed is the time since the fetch started.
	Elapsed time.Duration
}

// HasNextPage reports whether the plan expects more pages.
func (p PageInfo) HasNextPage() bool {
	return p.Page < p.TotalPages
}

// Percent returns the completed fraction of planned pages in [0, 100].
func (p PageInfo) Percent() float64 {
	if p.TotalPages <= 0 {
		return 100
	}
	pct := float64(p.Page) / float64(p.TotalPages) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// NewStartPageInfo returns the PageInfo reported before the first page.
func NewStartPageInfo(table TableRef, orderColumn string, totalCount int64, totalPages int) PageInfo {
	return PageInfo{
		Table:       table,
		OrderColumn: orderColumn,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}
