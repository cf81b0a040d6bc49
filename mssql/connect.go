package mssql

import (
	"context"
	"database/sql"

	_ "github.com/denisenkom/go-mssqldb" // MS SQL Server driver
	"github.com/friendsofgo/errors"
)

// Open validates cfg, opens a pool against it and pings the server.
// Driver errors are wrapped, so errors.Is and errors.As still reach them.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open(DriverName, cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to ping %s", cfg.Server)
	}

	return db, nil
}
