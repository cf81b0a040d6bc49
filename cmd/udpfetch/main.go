// Command udpfetch copies one SQL Server table to CSV or XLSX, reading it
// page by page.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kinderudp/paging-go"
	"github.com/kinderudp/paging-go/export"
	"github.com/kinderudp/paging-go/internal/config"
	"github.com/kinderudp/paging-go/internal/logging"
	"github.com/kinderudp/paging-go/metrics"
	"github.com/kinderudp/paging-go/tablefetch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "udpfetch: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags, err := ParseFlags(args, stderr)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(flags.Format)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX && flags.Output == "" {
		return errors.New("-out is required for xlsx output")
	}

	cfg, err := config.Load(flags.Config)
	if err != nil {
		return err
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := cfg.Log
	logCfg.Output = stderr
	logging.Setup(logCfg)
	logger := logging.NewLogger("udpfetch")

	reg := prometheus.NewRegistry()
	observer := metrics.New(reg, cfg.Metrics.Namespace)
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer shutdown(srv)
	}

	client := tablefetch.New(cfg.SQLServer,
		tablefetch.WithLogger(logger),
		tablefetch.WithPageConfig(cfg.Paging.PageConfig()),
		tablefetch.WithObserver(observer),
	)
	defer client.Close()

	opts := []paging.FetchOption{
		paging.WithSample(flags.Sample),
		paging.WithAfter(flags.After),
	}
	if flags.set["page-size"] {
		opts = append(opts, paging.WithPageSize(flags.PageSize))
	}

	rs, err := client.GetData(ctx, flags.Database, flags.Schema, flags.Table, opts...)
	if err != nil {
		return err
	}

	if err := writeResult(stdout, flags.Output, format, rs); err != nil {
		return err
	}

	logger.Info().
		Str("table", rs.Table.String()).
		Int("rows", rs.RowCount()).
		Str("format", string(format)).
		Str("out", flags.Output).
		Msg("Export complete")
	return nil
}

// writeResult writes rs to path, or to stdout when path is empty.
func writeResult(stdout io.Writer, path string, format export.Format, rs *paging.ResultSet) error {
	if path == "" {
		return export.Write(stdout, format, rs)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, format, rs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()
	logger.Info().Str("addr", addr).Msg("Serving metrics")
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx) //nolint:errcheck
}
