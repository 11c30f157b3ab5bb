package kb

// DefaultLocale is used when the caller does not specify one.
const DefaultLocale = "en-us"

// MaxPageSize is the upstream's per_page ceiling.
const MaxPageSize = 100

// SearchOptions configures an article search.
type SearchOptions struct {
	Query     string
	Labels    []string
	SectionID *int64
	Locale    string
	PerPage   int
	SortBy    string
}