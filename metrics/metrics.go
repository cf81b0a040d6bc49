// Package metrics exports table fetch progress as Prometheus metrics.
//
// Metrics (namespace defaults to "udp"):
//   - udp_fetches_total{table, outcome} (Counter): finished fetches, outcome
//     is "completed" or a failure reason
//   - udp_table_rows{table} (Gauge): row count seen when the fetch started
//   - udp_pages_fetched_total{table} (Counter): non-empty pages fetched
//   - udp_rows_fetched_total{table} (Counter): rows fetched
//   - udp_fetch_progress_ratio{table} (Gauge): fetched pages / planned pages
//   - udp_fetch_duration_seconds{table} (Histogram): duration of completed fetches
//
// Example Prometheus Queries:
//
//	# Rows per second while a large table is fetched
//	rate(udp_rows_fetched_total[1m])
//
//	# Fetch failures by reason
//	sum by (outcome) (rate(udp_fetches_total{outcome!="completed"}[1h]))
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kinderudp/paging-go"
)

// Outcome label values.
const (
	OutcomeCompleted     = "completed"
	OutcomeNoData        = "no_data"
	OutcomeNoOrderColumn = "no_order_column"
	OutcomeInvalidTable  = "invalid_table"
	OutcomeInvalidSize   = "invalid_page_size"
	OutcomeCanceled      = "canceled"
	OutcomeError         = "error"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "udp"

// Observer implements paging.Observer by updating Prometheus collectors.
// It is safe for concurrent fetches.
type Observer struct {
	fetches  *prometheus.CounterVec
	rows     *prometheus.GaugeVec
	pages    *prometheus.CounterVec
	fetched  *prometheus.CounterVec
	progress *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

var _ paging.Observer = (*Observer)(nil)

// New registers the collectors with reg under namespace. A nil reg means
// prometheus.DefaultRegisterer; an empty namespace means DefaultNamespace.
// Registering twice with the same registry panics, as promauto does.
func New(reg prometheus.Registerer, namespace string) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Observer{
		fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Finished table fetches by outcome",
			},
			[]string{"table", "outcome"},
		),
		rows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "table_rows",
				Help:      "Row count observed when the fetch started",
			},
			[]string{"table"},
		),
		pages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pages_fetched_total",
				Help:      "Non-empty pages fetched",
			},
			[]string{"table"},
		),
		fetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_fetched_total",
				Help:      "Rows fetched",
			},
			[]string{"table"},
		),
		progress: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fetch_progress_ratio",
				Help:      "Fetched pages divided by planned pages",
			},
			[]string{"table"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of completed table fetches",
				Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8), // 0.1s .. ~27m
			},
			[]string{"table"},
		),
	}
}

func (o *Observer) Started(info paging.PageInfo) {
	table := info.Table.String()
	o.rows.WithLabelValues(table).Set(float64(info.TotalCount))
	o.progress.WithLabelValues(table).Set(0)
}

func (o *Observer) PageFetched(info paging.PageInfo) {
	table := info.Table.String()
	o.pages.WithLabelValues(table).Inc()
	o.fetched.WithLabelValues(table).Add(float64(info.PageRows))
	o.progress.WithLabelValues(table).Set(info.Percent() / 100)
}

func (o *Observer) Completed(info paging.PageInfo) {
	table := info.Table.String()
	o.progress.WithLabelValues(table).Set(1)
	o.duration.WithLabelValues(table).Observe(info.Elapsed.Seconds())
	o.fetches.WithLabelValues(table, OutcomeCompleted).Inc()
}

func (o *Observer) Failed(info paging.PageInfo, err error) {
	o.fetches.WithLabelValues(info.Table.String(), Outcome(err)).Inc()
}

// Outcome classifies a fetch error into an outcome label value.
func Outcome(err error) string {
	var sizeErr *paging.PageSizeError
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.Is(err, paging.ErrNoData):
		return OutcomeNoData
	case errors.Is(err, paging.ErrNoOrderingColumn):
		return OutcomeNoOrderColumn
	case errors.Is(err, paging.ErrInvalidTable):
		return OutcomeInvalidTable
	case errors.As(err, &sizeErr):
		return OutcomeInvalidSize
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
