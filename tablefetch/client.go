// Package tablefetch reads whole SQL Server tables page by page.
//
// A Client holds the server configuration and one connection pool per
// database. GetData resolves an ordering column, counts the table, and pages
// through it with the offset strategy, returning the rows in order.
//
// Example usage:
//
//	client := tablefetch.New(mssql.Config{Server: `udpdev.ad.rice.edu\udp`},
//	    tablefetch.WithLogger(logger),
//	)
//	defer client.Close()
//
//	rs, err := client.GetData(ctx, "udpdb", "bea", "rea_012021_tables",
//	    paging.WithPageSize(5000),
//	)
package tablefetch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kinderudp/paging-go"
	"github.com/kinderudp/paging-go/mssql"
	"github.com/kinderudp/paging-go/offset"
)

// DB is what a fetch needs from a connection pool. *sql.DB satisfies it.
type DB interface {
	boil.ContextExecutor
	mssql.TxBeginner
	Close() error
}

// Opener opens a pool for cfg, which already names the target database.
type Opener func(ctx context.Context, cfg mssql.Config) (DB, error)

func openSQLServer(ctx context.Context, cfg mssql.Config) (DB, error) {
	db, err := mssql.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return db, nil
}

var _ DB = (*sql.DB)(nil)

// Client fetches tables from one SQL Server. It is safe for concurrent use;
// each GetData call pages sequentially.
type Client struct {
	cfg        mssql.Config
	pageConfig *paging.PageConfig
	logger     zerolog.Logger
	observer   paging.Observer
	open       Opener

	mu    sync.Mutex
	pools map[string]DB
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for progress and query logs.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPageConfig overrides the default and maximum page sizes.
func WithPageConfig(cfg *paging.PageConfig) Option {
	return func(c *Client) {
		if cfg != nil {
			c.pageConfig = cfg
		}
	}
}

// WithObserver adds an observer notified by every fetch of this client,
// in addition to the ones passed per call.
func WithObserver(o paging.Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithOpener replaces how connection pools are opened.
func WithOpener(open Opener) Option {
	return func(c *Client) {
		if open != nil {
			c.open = open
		}
	}
}

// New creates a client for the server in cfg. No connection is made until
// the first GetData.
func New(cfg mssql.Config, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		pageConfig: paging.NewPageConfig(),
		logger:     zerolog.Nop(),
		observer:   paging.NopObserver{},
		open:       openSQLServer,
		pools:      make(map[string]DB),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetData returns every row of database.schema.table ordered by its primary
// key, or by its first column when it has none.
//
// With paging.WithSample(true) only the first min(100, rows) rows are read.
// The table is counted once up front; rows inserted or deleted while paging
// can be missed or repeated, and an empty page ends the fetch early.
func (c *Client) GetData(ctx context.Context, database, schema, table string, opts ...paging.FetchOption) (*paging.ResultSet, error) {
	ref, err := paging.NewTableRef(database, schema, table)
	if err != nil {
		return nil, err
	}

	args := paging.ApplyFetchOptions(opts...)
	logger := c.logger.With().
		Str("run_id", uuid.NewString()).
		Str("table", ref.String()).
		Logger()
	observer := paging.Observers{NewLogObserver(logger), c.observer, args.GetObserver()}
	completion := &heldCompletion{Observer: observer}
	args.Observer = completion

	fail := func(err error) (*paging.ResultSet, error) {
		observer.Failed(paging.NewStartPageInfo(ref, "", 0, 0), err)
		return nil, err
	}

	db, err := c.pool(ctx, database)
	if err != nil {
		return fail(err)
	}

	orderColumn, err := mssql.NewResolver(db).ResolveOrderColumn(ctx, ref)
	if err != nil {
		return fail(err)
	}
	logger.Debug().Str("order_column", orderColumn).Msg("Resolved order column")

	fetcher := mssql.NewRowFetcher(db, ref, mssql.WithLogger(logger))
	paginator := offset.New[paging.Row](fetcher, ref, offset.WithPageConfig(c.pageConfig))

	// The paginator reports its own failures to the observer.
	result, err := paginator.FetchAll(ctx, orderColumn, args)
	if err != nil {
		return nil, err
	}

	rs, err := paging.BuildResultSet(ref, orderColumn, fetcher.Columns(), result)
	if err != nil {
		observer.Failed(completion.info, err)
		return nil, err
	}
	observer.Completed(completion.info)
	return rs, nil
}

// heldCompletion forwards every notification except Completed, which is
// kept until the result set has been assembled.
type heldCompletion struct {
	paging.Observer
	info paging.PageInfo
}

func (h *heldCompletion) Completed(info paging.PageInfo) {
	h.info = info
}

// pool returns the pool for database, opening it on first use. The lock is
// not held while connecting; when two calls race to open the same database
// the first pool stored wins and the other is closed.
func (c *Client) pool(ctx context.Context, database string) (DB, error) {
	c.mu.Lock()
	db, ok := c.pools[database]
	c.mu.Unlock()
	if ok {
		return db, nil
	}

	opened, err := c.open(ctx, c.cfg.WithDatabase(database))
	if err != nil {
		return nil, fmt.Errorf("connect to %s on %s: %w", database, c.cfg.Server, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if db, ok := c.pools[database]; ok {
		opened.Close() //nolint:errcheck
		return db, nil
	}
	c.pools[database] = opened
	c.logger.Debug().Str("database", database).Msg("Opened connection pool")
	return opened, nil
}

// Close closes every pool. The client must not be used afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for name, db := range c.pools {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(c.pools, name)
	}
	return errors.Join(errs...)
}
