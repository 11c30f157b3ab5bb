package relationship

import (
	"context"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

// TicketSource provides the ticket reads and searches the discovery
// strategies run on. The production implementation is the upstream API
// client.
type TicketSource interface {
	GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error)
	SearchExport(ctx context.Context, query string, opts search.ExportOptions) (*search.ResultSet, error)
}
