package search

// Options configures a bounded search request. The bounded path
// accepts a native sort directive and is capped at 1000 results by the
// upstream.
type Options struct {
	SortBy    string
	SortOrder string
	Limit     int
}

// ExportOptions configures an unbounded export retrieval. The export
// path rejects sort directives: any sort requested here is stripped
// from the outbound call and applied locally after retrieval.
// MaxResults of zero means "retrieve until upstream exhaustion".
type ExportOptions struct {
	SortBy     string
	SortOrder  string
	MaxResults int
}

// EnhanceOptions configures an enhanced search: a base retrieval
// followed by client-side filtering.
type EnhanceOptions struct {
	Filter    FilterOptions
	SortBy    string
	SortOrder string
	Limit     int
}

// BatchOptions configures a concurrent multi-query run.
type BatchOptions struct {
	Deduplicate   bool
	SortBy        string
	SortOrder     string
	LimitPerQuery int
}

// DateRangeOptions configures a date-range search.
type DateRangeOptions struct {
	DateField      string // created, updated, solved, due
	StartDate      string
	EndDate        string
	RelativePeriod string // last_7_days, last_30_days, this_month, last_month, this_quarter, last_quarter
	SortBy         string
	SortOrder      string
	Limit          int
}

// TagOptions configures an advanced tag search.
type TagOptions struct {
	IncludeTags []string
	ExcludeTags []string
	Logic       TagLogic
	SortBy      string
	SortOrder   string
	Limit       int
}
