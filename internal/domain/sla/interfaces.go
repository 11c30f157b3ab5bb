package sla

import (
	"context"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

// Source provides the upstream reads the evaluator runs on.
type Source interface {
	GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error)
	TicketMetricEvents(ctx context.Context, ticketID int64) ([]MetricEvent, error)
	SearchExport(ctx context.Context, query string, opts search.ExportOptions) (*search.ResultSet, error)
	SLAPolicies(ctx context.Context) ([]Policy, error)
	SLAPolicy(ctx context.Context, id int64) (*Policy, error)
	IncrementalMetricEvents(ctx context.Context, startTime int64, maxResults int) ([]MetricEvent, bool, *int64, error)
}
