package zendesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ganot/helpdesk-mcp/internal/domain/sla"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// CursorStore persists the resume position of incremental endpoints
// across runs. Implementations must tolerate concurrent callers.
type CursorStore interface {
	// GetCursor returns the stored position for key; ok is false when no
	// position has been stored yet.
	GetCursor(ctx context.Context, key string) (value int64, ok bool, err error)
	SetCursor(ctx context.Context, key string, value int64) error
}

// Cursor namespace keys, one per incremental endpoint.
const (
	cursorTickets      = "incremental_tickets"
	cursorEvents       = "incremental_ticket_events"
	cursorMetricEvents = "incremental_ticket_metric_events"
)

// IncrementalTickets fetches tickets changed since startTime (Unix
// seconds). Returns the tickets, whether more remain, and the start
// time to resume from (nil when the stream is exhausted).
func (c *Client) IncrementalTickets(ctx context.Context, startTime int64, maxResults int) ([]ticket.Ticket, bool, *int64, error) {
	items, hasMore, next, err := c.incrementalFetch(ctx, incrementalSpec{
		op:        "incremental tickets",
		path:      "/incremental/tickets.json",
		include:   "metric_sets",
		cursorKey: cursorTickets,
	}, startTime, maxResults)
	if err != nil {
		return nil, false, nil, err
	}

	tickets := make([]ticket.Ticket, 0, len(items))
	for _, raw := range items {
		var w wireTicket
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, false, nil, fmt.Errorf("decode incremental ticket: %w", err)
		}
		tickets = append(tickets, w.domain())
	}
	return tickets, hasMore, next, nil
}

// IncrementalTicketEvents fetches audit events for tickets changed
// since startTime.
func (c *Client) IncrementalTicketEvents(ctx context.Context, startTime int64, maxResults int) ([]ticket.Event, bool, *int64, error) {
	items, hasMore, next, err := c.incrementalFetch(ctx, incrementalSpec{
		op:        "incremental ticket events",
		path:      "/incremental/ticket_events.json",
		cursorKey: cursorEvents,
	}, startTime, maxResults)
	if err != nil {
		return nil, false, nil, err
	}

	events := make([]ticket.Event, 0, len(items))
	for _, raw := range items {
		var ev ticket.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, false, nil, fmt.Errorf("decode incremental ticket event: %w", err)
		}
		events = append(events, ev)
	}
	return events, hasMore, next, nil
}

// IncrementalMetricEvents fetches metric events across all tickets
// since startTime, for bulk SLA analysis.
func (c *Client) IncrementalMetricEvents(ctx context.Context, startTime int64, maxResults int) ([]sla.MetricEvent, bool, *int64, error) {
	items, hasMore, next, err := c.incrementalFetch(ctx, incrementalSpec{
		op:        "incremental metric events",
		path:      "/incremental/ticket_metric_events.json",
		cursorKey: cursorMetricEvents,
	}, startTime, maxResults)
	if err != nil {
		return nil, false, nil, err
	}

	events := make([]sla.MetricEvent, 0, len(items))
	for _, raw := range items {
		var ev sla.MetricEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, false, nil, fmt.Errorf("decode incremental metric event: %w", err)
		}
		events = append(events, ev)
	}
	return events, hasMore, next, nil
}

type incrementalSpec struct {
	op        string
	path      string
	include   string
	cursorKey string
}

// incrementalFetch pages through one incremental endpoint. The resume
// position is seeded from the cursor store when it is ahead of the
// caller's startTime, and the final position is persisted back.
// Upstream end_time values never move backwards here: a candidate at or
// before the effective start is bumped forward one second so resuming
// cannot loop on a hot timestamp.
func (c *Client) incrementalFetch(ctx context.Context, spec incrementalSpec, startTime int64, maxResults int) ([]json.RawMessage, bool, *int64, error) {
	if startTime < 0 {
		return nil, false, nil, errs.Validation("start_time", "must be >= 0, got %d", startTime)
	}

	effective := startTime
	if c.cursors != nil && spec.cursorKey != "" {
		key := c.cursorKey(spec.cursorKey)
		if last, ok, err := c.cursors.GetCursor(ctx, key); err != nil {
			c.logger.Warn("cursor read failed, using caller start_time", "key", key, "error", err)
		} else if ok && last > effective {
			effective = last
		}
	}

	params := url.Values{}
	params.Set("start_time", strconv.FormatInt(effective, 10))
	if spec.include != "" {
		params.Set("include", spec.include)
	}

	var (
		items     []json.RawMessage
		hasMore   bool
		nextStart *int64
	)
	seenPages := make(map[string]struct{})
	nextURL := ""

	for {
		var page incrementalPage
		var err error
		if nextURL == "" {
			err = c.getJSON(ctx, spec.op, spec.path, params, &page)
		} else {
			err = c.getJSONURL(ctx, spec.op, nextURL, &page)
		}
		if err != nil {
			return nil, false, nil, err
		}

		pageItems := page.items()
		if maxResults > 0 {
			remaining := maxResults - len(items)
			if remaining > 0 {
				if remaining > len(pageItems) {
					remaining = len(pageItems)
				}
				items = append(items, pageItems[:remaining]...)
			}
		} else {
			items = append(items, pageItems...)
		}

		rawNext := page.nextLink()
		if page.EndTime != nil {
			candidate := *page.EndTime
			nextStart = &candidate
		} else if st, ok := startTimeFromLink(rawNext); ok {
			nextStart = &st
		}

		hasMore = rawNext != "" && (page.EndOfStream == nil || !*page.EndOfStream)

		if maxResults > 0 && len(items) >= maxResults {
			break
		}
		if rawNext == "" || (page.EndOfStream != nil && *page.EndOfStream) {
			break
		}
		if _, seen := seenPages[rawNext]; seen {
			break
		}
		seenPages[rawNext] = struct{}{}
		nextURL = rawNext
	}

	if nextStart != nil && *nextStart <= effective {
		bumped := effective + 1
		nextStart = &bumped
	}
	if !hasMore {
		nextStart = nil
	}

	if c.cursors != nil && spec.cursorKey != "" && nextStart != nil {
		key := c.cursorKey(spec.cursorKey)
		if err := c.cursors.SetCursor(ctx, key, *nextStart); err != nil {
			c.logger.Warn("cursor write failed", "key", key, "error", err)
		}
	}

	return items, hasMore, nextStart, nil
}

func (p *incrementalPage) items() []json.RawMessage {
	switch {
	case p.Tickets != nil:
		return p.Tickets
	case p.TicketEvents != nil:
		return p.TicketEvents
	default:
		return p.TicketMetricEvents
	}
}

func (p *incrementalPage) nextLink() string {
	if p.NextPage != "" {
		return p.NextPage
	}
	return p.AfterURL
}

func startTimeFromLink(link string) (int64, bool) {
	if link == "" {
		return 0, false
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return 0, false
	}
	raw := parsed.Query().Get("start_time")
	if raw == "" {
		return 0, false
	}
	st, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return st, true
}

func (c *Client) cursorKey(endpoint string) string {
	key := fmt.Sprintf("%s:%s", c.subdomain, endpoint)
	if c.cursorLabel != "" {
		key += ":" + c.cursorLabel
	}
	return key
}
