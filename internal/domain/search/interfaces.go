package search

import "context"

// Retriever fetches ticket result sets from the upstream service. The
// production implementation is the upstream API client; tests inject
// fakes.
type Retriever interface {
	// Search runs a bounded (≤1000 results) search with optional
	// native sort.
	Search(ctx context.Context, query string, opts Options) (*ResultSet, error)
	// SearchExport runs an unbounded cursor-paged retrieval. Sort is
	// applied client-side after retrieval completes.
	SearchExport(ctx context.Context, query string, opts ExportOptions) (*ResultSet, error)
}
