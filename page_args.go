package paging

import "fmt"

const (
	// DefaultPageSize is the number of rows per page when not specified.
	DefaultPageSize = 10000

	// DefaultMaxPageSize is the largest page size accepted.
	// A single page is held in memory twice while it is appended to the
	// result, so this bounds the transient cost of one query.
	DefaultMaxPageSize = 1000000

	// SampleSize is the number of rows fetched in sample mode.
	SampleSize = 100
)

// PageConfig holds pagination configuration options.
// Use NewPageConfig() to create a config with defaults, then customize using
// the With* methods.
//
// Example:
//
//	config := paging.NewPageConfig().WithDefaultSize(5000)
//	limit, err := config.EffectiveLimit(args)
type PageConfig struct {
	// DefaultSize is the page size used when not specified in FetchArgs.
	DefaultSize int

	// MaxSize is the maximum allowed page size. Larger requests are rejected.
	MaxSize int

	// SampleSize is the upper bound on rows fetched in sample mode.
	SampleSize int
}

// NewPageConfig creates a PageConfig with defaults:
// - DefaultSize: 10000
// - MaxSize: 1000000
// - SampleSize: 100
func NewPageConfig() *PageConfig {
	return &PageConfig{
		DefaultSize: DefaultPageSize,
		MaxSize:     DefaultMaxPageSize,
		SampleSize:  SampleSize,
	}
}

// WithDefaultSize sets the default page size and returns the config for chaining.
func (c *PageConfig) WithDefaultSize(size int) *PageConfig {
	if size > 0 {
		c.DefaultSize = size
	}
	return c
}

// WithMaxSize sets the maximum page size and returns the config for chaining.
func (c *PageConfig) WithMaxSize(size int) *PageConfig {
	if size > 0 {
		c.MaxSize = size
	}
	return c
}

// WithSampleSize sets the sample size and returns the config for chaining.
func (c *PageConfig) WithSampleSize(size int) *PageConfig {
	if size > 0 {
		c.SampleSize = size
	}
	return c
}

// EffectiveLimit returns the page size to use.
// - If args is nil or PageSize is nil, returns DefaultSize
// - If PageSize is not positive or exceeds MaxSize, returns a *PageSizeError
// - Otherwise returns PageSize
func (c *PageConfig) EffectiveLimit(args *FetchArgs) (int, error) {
	if c == nil {
		c = NewPageConfig()
	}

	defaultSize := c.DefaultSize
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}

	if args == nil || args.PageSize == nil {
		return defaultSize, nil
	}

	if err := c.Validate(args); err != nil {
		return 0, err
	}

	return *args.PageSize, nil
}

// EffectiveSampleSize returns the configured sample size, falling back to
// SampleSize.
func (c *PageConfig) EffectiveSampleSize() int {
	if c == nil || c.SampleSize <= 0 {
		return SampleSize
	}
	return c.SampleSize
}

// Validate checks the requested page size against MaxSize.
func (c *PageConfig) Validate(args *FetchArgs) error {
	if c == nil {
		c = NewPageConfig()
	}

	if args == nil || args.PageSize == nil {
		return nil
	}

	maxSize := c.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}

	if *args.PageSize <= 0 || *args.PageSize > maxSize {
		return &PageSizeError{
			Requested: *args.PageSize,
			Maximum:   maxSize,
		}
	}

	return nil
}

// FetchArgs represents the per-call parameters of a table fetch.
type FetchArgs struct {
	// PageSize is the number of rows per page (nil means the default).
	PageSize *int `json:"pageSize,omitempty"`

	// Sample limits the fetch to a single page of at most SampleSize rows.
	Sample bool `json:"sample,omitempty"`

	// After is an offset cursor; fetching resumes just past it.
	After *string `json:"after,omitempty"`

	// Observer receives progress notifications. Nil means none.
	Observer Observer `json:"-"`
}

// GetPageSize returns the requested page size.
func (a *FetchArgs) GetPageSize() *int {
	if a == nil {
		return nil
	}
	return a.PageSize
}

// GetAfter returns the resume cursor.
func (a *FetchArgs) GetAfter() *string {
	if a == nil {
		return nil
	}
	return a.After
}

// IsSample reports whether sample mode is on.
func (a *FetchArgs) IsSample() bool {
	return a != nil && a.Sample
}

// GetObserver returns the observer, never nil.
func (a *FetchArgs) GetObserver() Observer {
	if a == nil || a.Observer == nil {
		return NopObserver{}
	}
	return a.Observer
}

// PageSizeError is returned when the requested page size is not positive or
// exceeds the maximum allowed.
type PageSizeError struct {
	Requested int
	Maximum   int
}

func (e *PageSizeError) Error() string {
	if e.Requested <= 0 {
		return fmt.Sprintf("requested page size %d must be positive", e.Requested)
	}
	return fmt.Sprintf("requested page size %d exceeds maximum allowed page size of %d",
		e.Requested, e.Maximum)
}

// FetchOption configures a single table fetch.
//
// Example:
//
//	rs, err := client.GetData(ctx, "udpdb", "bea", "rea_012021_tables",
//	    paging.WithPageSize(5000),
//	    paging.WithSample(true),
//	)
type FetchOption func(*FetchArgs)

// WithPageSize sets the page size for this fetch.
func WithPageSize(size int) FetchOption {
	return func(a *FetchArgs) {
		a.PageSize = &size
	}
}

// WithSample switches sample mode on or off.
func WithSample(sample bool) FetchOption {
	return func(a *FetchArgs) {
		a.Sample = sample
	}
}

// WithAfter resumes the fetch just past the given offset cursor, as found in
// Page.Cursor.
func WithAfter(cursor string) FetchOption {
	return func(a *FetchArgs) {
		if cursor != "" {
			a.After = &cursor
		}
	}
}

// WithObserver attaches a progress observer. Multiple calls combine.
func WithObserver(o Observer) FetchOption {
	return func(a *FetchArgs) {
		if o == nil {
			return
		}
		if a.Observer == nil {
			a.Observer = o
			return
		}
		a.Observer = Observers{a.Observer, o}
	}
}

// ApplyFetchOptions applies functional options and returns the FetchArgs.
func ApplyFetchOptions(opts ...FetchOption) *FetchArgs {
	args := &FetchArgs{}
	for _, opt := range opts {
		if opt != nil {
			opt(args)
		}
	}
	return args
}
