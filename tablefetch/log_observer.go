package tablefetch

import (
	"github.com/rs/zerolog"

	"github.com/kinderudp/paging-go"
)

// LogObserver writes fetch progress to a zerolog logger.
type LogObserver struct {
	logger zerolog.Logger
}

var _ paging.Observer = LogObserver{}

// NewLogObserver returns an observer logging to logger.
func NewLogObserver(logger zerolog.Logger) LogObserver {
	return LogObserver{logger: logger}
}

func (o LogObserver) Started(info paging.PageInfo) {
	o.logger.Info().
		Str("order_column", info.OrderColumn).
		Int64("total_rows", info.TotalCount).
		Int("total_pages", info.TotalPages).
		Msg("Connection established")
}

func (o LogObserver) PageFetched(info paging.PageInfo) {
	o.logger.Info().
		Int("page", info.Page).
		Int("total_pages", info.TotalPages).
		Int("rows", info.PageRows).
		Int("rows_fetched", info.RowsFetched).
		Int("offset", info.Offset).
		Float64("progress_pct", info.Percent()).
		Bool("has_next", info.HasNextPage()).
		Msg("Fetched page")
}

func (o LogObserver) Completed(info paging.PageInfo) {
	o.logger.Info().
		Int("rows", info.RowsFetched).
		Int("pages", info.Page).
		Dur("duration", info.Elapsed).
		Msg("Fetch complete")
}

func (o LogObserver) Failed(info paging.PageInfo, err error) {
	o.logger.Error().
		Err(err).
		Int("page", info.Page).
		Int("rows_fetched", info.RowsFetched).
		Dur("duration", info.Elapsed).
		Msg("Fetch failed")
}
