package mssql

import (
	"context"
	"database/sql"
	"sync"

	"github.com/friendsofgo/errors"
	"github.com/rs/zerolog"

	"github.com/aarondl/sqlboiler/v4/queries"

	"github.com/kinderudp/paging-go"
)

// TxBeginner opens the transaction each page query runs in. *sql.DB
// satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// RowFetcher implements paging.Fetcher[paging.Row] for one SQL Server table.
// Every Count and Fetch call runs in its own transaction, which is released
// before the call returns, so no connection is held between pages.
type RowFetcher struct {
	db     TxBeginner
	table  paging.TableRef
	logger zerolog.Logger

	mu      sync.Mutex
	columns []paging.Column
}

// FetcherOption configures a RowFetcher.
type FetcherOption func(*RowFetcher)

// WithLogger logs every rendered page query at debug level.
func WithLogger(logger zerolog.Logger) FetcherOption {
	return func(f *RowFetcher) {
		f.logger = logger
	}
}

// NewRowFetcher creates a fetcher for table over db.
//
// Example:
//
//	fetcher := mssql.NewRowFetcher(db, table)
//	paginator := offset.New[paging.Row](fetcher, table)
func NewRowFetcher(db TxBeginner, table paging.TableRef, opts ...FetcherOption) *RowFetcher {
	f := &RowFetcher{
		db:     db,
		table:  table,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ paging.Fetcher[paging.Row] = (*RowFetcher)(nil)

// Fetch runs the ORDER BY ... OFFSET ... FETCH NEXT query for one page and
// returns its rows. Column metadata of the page is kept for Columns.
func (f *RowFetcher) Fetch(ctx context.Context, params paging.FetchParams) ([]paging.Row, error) {
	q, err := PageQuery(f.table, params)
	if err != nil {
		return nil, err
	}

	if e := f.logger.Debug(); e.Enabled() {
		sqlText, _ := queries.BuildQuery(q)
		e.Str("table", f.table.FullName()).
			Int("offset", params.Offset).
			Int("limit", params.Limit).
			Str("sql", sqlText).
			Msg("Fetching page")
	}

	var out []paging.Row
	err = f.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := q.QueryContext(ctx, tx)
		if err != nil {
			return errors.Wrapf(err, "failed to query %s at offset %d", f.table.FullName(), params.Offset)
		}
		defer rows.Close()

		columns, err := describeColumns(rows)
		if err != nil {
			return err
		}

		out, err = scanRows(rows, columns)
		if err != nil {
			return err
		}

		f.setColumns(columns)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns SELECT COUNT(*) for the table. params are not used: a count
// is neither ordered nor paged.
func (f *RowFetcher) Count(ctx context.Context, params paging.FetchParams) (int64, error) {
	q, err := CountQuery(f.table)
	if err != nil {
		return 0, err
	}

	var count int64
	err = f.inTx(ctx, func(tx *sql.Tx) error {
		if err := q.QueryRowContext(ctx, tx).Scan(&count); err != nil {
			return errors.Wrapf(err, "failed to count rows of %s", f.table.FullName())
		}
		return nil
	})
	return count, err
}

// Columns returns the column metadata of the last fetched page, or nil
// before the first page.
func (f *RowFetcher) Columns() []paging.Column {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.columns == nil {
		return nil
	}
	out := make([]paging.Column, len(f.columns))
	copy(out, f.columns)
	return out
}

func (f *RowFetcher) setColumns(columns []paging.Column) {
	f.mu.Lock()
	f.columns = columns
	f.mu.Unlock()
}

// inTx runs fn in a fresh transaction and always rolls it back: page reads
// never write, and rollback returns the connection to the pool.
func (f *RowFetcher) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	return fn(tx)
}
