package analytics

import (
	"context"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
)

// Searcher retrieves the ticket sets the aggregations run over.
type Searcher interface {
	SearchExport(ctx context.Context, query string, opts search.ExportOptions) (*search.ResultSet, error)
}
