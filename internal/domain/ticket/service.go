package ticket

import (
	"context"
	"log/slog"
)

// Source provides upstream ticket reads. The production implementation
// is the upstream API client.
type Source interface {
	GetTicket(ctx context.Context, id int64) (*Ticket, error)
	GetTickets(ctx context.Context, ids []int64) ([]Ticket, error)
	GetTicketComments(ctx context.Context, id int64) ([]Comment, error)
	IncrementalTickets(ctx context.Context, startTime int64, maxResults int) ([]Ticket, bool, *int64, error)
	IncrementalTicketEvents(ctx context.Context, startTime int64, maxResults int) ([]Event, bool, *int64, error)
}

// List is a multi-ticket response.
type List struct {
	Tickets []Ticket `json:"tickets"`
	Count   int      `json:"count"`
}

// CommentList is a comment thread response.
type CommentList struct {
	TicketID int64     `json:"ticket_id"`
	Comments []Comment `json:"comments"`
	Count    int       `json:"count"`
}

// IncrementalBatch is one page of the incremental tickets stream.
type IncrementalBatch struct {
	Tickets       []Ticket `json:"tickets"`
	Count         int      `json:"count"`
	HasMore       bool     `json:"has_more"`
	NextStartTime *int64   `json:"next_start_time,omitempty"`
}

// EventBatch is one page of the incremental ticket events stream.
type EventBatch struct {
	Events        []Event `json:"ticket_events"`
	Count         int     `json:"count"`
	HasMore       bool    `json:"has_more"`
	NextStartTime *int64  `json:"next_start_time,omitempty"`
}

// Service handles ticket read operations.
type Service struct {
	source Source
	logger *slog.Logger
}

// NewService creates a new ticket service.
func NewService(source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// Get fetches one ticket.
func (s *Service) Get(ctx context.Context, id int64) (*Ticket, error) {
	if err := ValidateID("ticket_id", id); err != nil {
		return nil, err
	}
	return s.source.GetTicket(ctx, id)
}

// GetMany fetches multiple tickets by ID. Unknown IDs are absent from
// the result rather than errors.
func (s *Service) GetMany(ctx context.Context, ids []int64) (*List, error) {
	if err := ValidateIDs("ticket_ids", ids); err != nil {
		return nil, err
	}
	tickets, err := s.source.GetTickets(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &List{Tickets: tickets, Count: len(tickets)}, nil
}

// Comments fetches a ticket's full comment thread.
func (s *Service) Comments(ctx context.Context, id int64) (*CommentList, error) {
	if err := ValidateID("ticket_id", id); err != nil {
		return nil, err
	}
	comments, err := s.source.GetTicketComments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CommentList{TicketID: id, Comments: comments, Count: len(comments)}, nil
}

// Incremental fetches tickets changed since startTime (Unix seconds).
func (s *Service) Incremental(ctx context.Context, startTime int64, maxResults int) (*IncrementalBatch, error) {
	tickets, hasMore, next, err := s.source.IncrementalTickets(ctx, startTime, maxResults)
	if err != nil {
		return nil, err
	}
	return &IncrementalBatch{
		Tickets:       tickets,
		Count:         len(tickets),
		HasMore:       hasMore,
		NextStartTime: next,
	}, nil
}

// IncrementalEvents fetches the audit event stream for tickets changed
// since startTime (Unix seconds).
func (s *Service) IncrementalEvents(ctx context.Context, startTime int64, maxResults int) (*EventBatch, error) {
	events, hasMore, next, err := s.source.IncrementalTicketEvents(ctx, startTime, maxResults)
	if err != nil {
		return nil, err
	}
	return &EventBatch{
		Events:        events,
		Count:         len(events),
		HasMore:       hasMore,
		NextStartTime: next,
	}, nil
}
