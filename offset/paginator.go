// Package offset provides offset-based pagination over a whole table.
//
// This package sizes a fetch from the table's row count, then issues one
// ORDER BY ... OFFSET ... FETCH NEXT ... query per page, sequentially, until
// the planned pages are exhausted or a page comes back empty. It works with
// any paging.Fetcher, so the loop is independent of the database driver.
//
// Example usage:
//
//	paginator := offset.New(fetcher, table)
//	result, err := paginator.FetchAll(ctx, "id", paging.ApplyFetchOptions(
//	    paging.WithPageSize(10000),
//	))
package offset

import (
	"context"
	"fmt"
	"time"

	"github.com/kinderudp/paging-go"
)

// Strategy is the value reported in paging.Metadata.Strategy.
const Strategy = "offset"

// Plan is the page layout computed once per fetch from the row count.
type Plan struct {
	// Limit is the FETCH NEXT size of every page.
	Limit int

	// StartOffset is the offset of the first page (non-zero when resuming).
	StartOffset int

	// TotalPages is the number of page queries the plan expects.
	TotalPages int

	// TotalCount is the row count the plan was computed from.
	TotalCount int64

	// Sample is true when the plan fetches a single sample page.
	Sample bool
}

// NewPlan computes the page layout for a table of totalCount rows.
//
// The plan follows these rules:
//   - totalCount of zero returns paging.ErrNoData
//   - sample mode fetches one page of min(SampleSize, remaining rows)
//   - otherwise ceil(remaining rows / page size) pages are planned
//   - remaining rows are counted from the After cursor's offset
func NewPlan(args *paging.FetchArgs, totalCount int64, cfg *paging.PageConfig) (Plan, error) {
	if totalCount <= 0 {
		return Plan{}, paging.ErrNoData
	}

	limit, err := cfg.EffectiveLimit(args)
	if err != nil {
		return Plan{}, err
	}

	start := DecodeCursor(args.GetAfter())
	remaining := totalCount - int64(start)
	if remaining < 0 {
		remaining = 0
	}

	plan := Plan{
		Limit:       limit,
		StartOffset: start,
		TotalCount:  totalCount,
		Sample:      args.IsSample(),
	}

	if remaining == 0 {
		return plan, nil
	}

	if plan.Sample {
		plan.TotalPages = 1
		plan.Limit = int(min(int64(cfg.EffectiveSampleSize()), remaining))
		return plan, nil
	}

	plan.TotalPages = int((remaining + int64(limit) - 1) / int64(limit))
	return plan, nil
}

// Offset returns the row offset of page i (zero-based).
func (p Plan) Offset(i int) int {
	return p.StartOffset + i*p.Limit
}

// Params returns the fetch parameters of page i (zero-based).
func (p Plan) Params(i int, orderBy []paging.OrderBy) paging.FetchParams {
	return paging.FetchParams{
		Limit:   p.Limit,
		Offset:  p.Offset(i),
		OrderBy: orderBy,
	}
}

// Paginator fetches every page of one table through a paging.Fetcher.
type Paginator[T any] struct {
	fetcher paging.Fetcher[T]
	table   paging.TableRef
	config  *paging.PageConfig
	now     func() time.Time
}

// Option configures a Paginator.
type Option func(*options)

type options struct {
	config *paging.PageConfig
	now    func() time.Time
}

// WithPageConfig overrides the default page size limits.
func WithPageConfig(cfg *paging.PageConfig) Option {
	return func(o *options) {
		if cfg != nil {
			o.config = cfg
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an offset paginator for table.
func New[T any](fetcher paging.Fetcher[T], table paging.TableRef, opts ...Option) *Paginator[T] {
	o := &options{
		config: paging.NewPageConfig(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Paginator[T]{
		fetcher: fetcher,
		table:   table,
		config:  o.config,
		now:     o.now,
	}
}

// FetchAll counts the table, plans the pages, and fetches them one after
// another ordered by orderColumn ascending. Iteration stops early, without
// error, at the first empty page.
//
// The returned Result concatenates all pages in fetch order.
func (p *Paginator[T]) FetchAll(ctx context.Context, orderColumn string, args *paging.FetchArgs) (*paging.Result[T], error) {
	startTime := p.now()
	observer := args.GetObserver()
	info := paging.NewStartPageInfo(p.table, orderColumn, 0, 0)

	fail := func(err error) (*paging.Result[T], error) {
		info.Elapsed = p.now().Sub(startTime)
		observer.Failed(info, err)
		return nil, err
	}

	if err := p.config.Validate(args); err != nil {
		return fail(err)
	}

	orderBy := paging.Ascending(orderColumn)

	totalCount, err := p.fetcher.Count(ctx, paging.FetchParams{OrderBy: orderBy})
	if err != nil {
		return fail(fmt.Errorf("count rows of %s: %w", p.table.FullName(), err))
	}
	info.TotalCount = totalCount

	plan, err := NewPlan(args, totalCount, p.config)
	if err != nil {
		return fail(err)
	}
	info.TotalPages = plan.TotalPages
	observer.Started(info)

	result := &paging.Result[T]{
		TotalCount: totalCount,
		TotalPages: plan.TotalPages,
		Metadata:   paging.Metadata{Strategy: Strategy},
	}

	for i := 0; i < plan.TotalPages; i++ {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("page %d/%d: %w", i+1, plan.TotalPages, err))
		}

		params := plan.Params(i, orderBy)
		queryStart := p.now()
		nodes, err := p.fetcher.Fetch(ctx, params)
		queryTime := p.now().Sub(queryStart)
		if err != nil {
			return fail(fmt.Errorf("fetch page %d/%d (offset %d): %w", i+1, plan.TotalPages, params.Offset, err))
		}

		result.Metadata.IterationsUsed++
		result.Metadata.QueryTimeMs += queryTime.Milliseconds()

		if len(nodes) == 0 {
			result.Metadata.StoppedEarly = true
			break
		}

		page := &paging.Page[T]{
			Nodes:  nodes,
			Index:  i,
			Offset: params.Offset,
			Cursor: EncodeCursor(params.Offset + len(nodes)),
			Metadata: paging.Metadata{
				Strategy:       Strategy,
				QueryTimeMs:    queryTime.Milliseconds(),
				ItemsExamined:  len(nodes),
				IterationsUsed: 1,
				Duration:       queryTime,
			},
		}
		result.Pages = append(result.Pages, page)
		result.Metadata.ItemsExamined += len(nodes)

		info.Page = i + 1
		info.PageRows = len(nodes)
		info.RowsFetched = result.Metadata.ItemsExamined
		info.Offset = params.Offset
		info.Elapsed = p.now().Sub(startTime)
		observer.PageFetched(info)
	}

	result.Nodes = paging.Concat(result.Pages)
	result.Metadata.Duration = p.now().Sub(startTime)

	info.Elapsed = result.Metadata.Duration
	info.PageRows = 0
	observer.Completed(info)

	return result, nil
}
