package paging

// Observer receives progress notifications from a fetch. Implementations
// must not block for long: callbacks run on the fetching goroutine between
// page queries.
type Observer interface {
	// Started is called once the connection is established, the order column
	// is resolved and the rows are counted.
	Started(info PageInfo)

	// PageFetched is called after each non-empty page.
	PageFetched(info PageInfo)

	// Completed is called once after the last page.
	Completed(info PageInfo)

	// Failed is called when the fetch ends with an error.
	Failed(info PageInfo, err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) Started(PageInfo)       {}
func (NopObserver) PageFetched(PageInfo)   {}
func (NopObserver) Completed(PageInfo)     {}
func (NopObserver) Failed(PageInfo, error) {}

// ObserverFuncs adapts plain functions to the Observer interface.
// Nil fields are skipped.
//
// Example:
//
//	obs := paging.ObserverFuncs{
//	    OnPage: func(info paging.PageInfo) {
//	        fmt.Printf("%d/%d\n", info.Page, info.TotalPages)
//	    },
//	}
type ObserverFuncs struct {
	OnStart    func(PageInfo)
	OnPage     func(PageInfo)
	OnComplete func(PageInfo)
	OnFailure  func(PageInfo, error)
}

func (f ObserverFuncs) Started(info PageInfo) {
	if f.OnStart != nil {
		f.OnStart(info)
	}
}

func (f ObserverFuncs) PageFetched(info PageInfo) {
	if f.OnPage != nil {
		f.OnPage(info)
	}
}

func (f ObserverFuncs) Completed(info PageInfo) {
	if f.OnComplete != nil {
		f.OnComplete(info)
	}
}

func (f ObserverFuncs) Failed(info PageInfo, err error) {
	if f.OnFailure != nil {
		f.OnFailure(info, err)
	}
}

// Observers fans each notification out to every member in order.
type Observers []Observer

func (o Observers) Started(info PageInfo) {
	for _, obs := range o {
		if obs != nil {
			obs.Started(info)
		}
	}
}

func (o Observers) PageFetched(info PageInfo) {
	for _, obs := range o {
		if obs != nil {
			obs.PageFetched(info)
		}
	}
}

func (o Observers) Completed(info PageInfo) {
	for _, obs := range o {
		if obs != nil {
			obs.Completed(info)
		}
	}
}

func (o Observers) Failed(info PageInfo, err error) {
	for _, obs := range o {
		if obs != nil {
			obs.Failed(info, err)
		}
	}
}
