package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/kinderudp/paging-go/export"
	"github.com/kinderudp/paging-go/internal/config"
	"github.com/kinderudp/paging-go/internal/logging"
)

// Flags holds the parsed command line.
type Flags struct {
	Config      string
	Server      string
	Database    string
	Schema      string
	Table       string
	PageSize    int
	Sample      bool
	After       string
	Format      string
	Output      string
	LogLevel    string
	Pretty      bool
	MetricsAddr string

	// set records which flags were given explicitly.
	set map[string]bool
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string, stderr io.Writer) (*Flags, error) {
	f := &Flags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("udpfetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: udpfetch -database DB -schema SCHEMA -table TABLE [options]")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	fs.StringVar(&f.Config, "config", "", "Path to YAML config file")
	fs.StringVar(&f.Server, "server", "", `SQL Server host[\instance], overrides sqlserver.server`)
	fs.StringVar(&f.Database, "database", "", "Database name (required)")
	fs.StringVar(&f.Schema, "schema", "dbo", "Schema name")
	fs.StringVar(&f.Table, "table", "", "Table name (required)")
	fs.IntVar(&f.PageSize, "page-size", 0, "Rows per page (default from config, 10000)")
	fs.BoolVar(&f.Sample, "sample", false, "Fetch only the first 100 rows")
	fs.StringVar(&f.After, "after", "", "Resume after this page cursor")
	fs.StringVar(&f.Format, "format", string(export.FormatCSV), "Output format: csv or xlsx")
	fs.StringVar(&f.Output, "out", "", "Output file (default stdout for csv)")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&f.Pretty, "pretty", false, "Human-readable logs")
	fs.StringVar(&f.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while fetching")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	var missing []string
	if f.Database == "" {
		missing = append(missing, "-database")
	}
	if f.Table == "" {
		missing = append(missing, "-table")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return f, nil
}

// Apply overrides cfg with the flags that were given explicitly.
// -page-size is passed per fetch by run instead.
func (f *Flags) Apply(cfg *config.Config) {
	if f.set["server"] {
		cfg.SQLServer.Server = f.Server
	}
	if f.set["log-level"] {
		cfg.Log.Level = logging.Level(f.LogLevel)
	}
	if f.set["pretty"] {
		cfg.Log.Pretty = f.Pretty
	}
	if f.set["metrics-addr"] {
		cfg.Metrics.Addr = f.MetricsAddr
	}
}
