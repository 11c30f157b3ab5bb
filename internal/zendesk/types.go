package zendesk

import (
	"encoding/json"

	"github.com/ganot/helpdesk-mcp/internal/domain/kb"
	"github.com/ganot/helpdesk-mcp/internal/domain/sla"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

// wireTicket adapts the upstream ticket payload. The sideloaded metric
// set arrives under "metric_set"; the domain model exposes it as
// Metrics.
type wireTicket struct {
	ticket.Ticket
	MetricSet *ticket.Metrics `json:"metric_set,omitempty"`
}

func (w wireTicket) domain() ticket.Ticket {
	t := w.Ticket
	if t.Metrics == nil {
		t.Metrics = w.MetricSet
	}
	return t
}

func domainTickets(wire []wireTicket) []ticket.Ticket {
	tickets := make([]ticket.Ticket, 0, len(wire))
	for _, w := range wire {
		tickets = append(tickets, w.domain())
	}
	return tickets
}

// searchPage is one page of the bounded search endpoint. Count is the
// upstream's total estimate, not the page size.
type searchPage struct {
	Results  []wireTicket `json:"results"`
	Count    int          `json:"count"`
	NextPage string       `json:"next_page"`
}

// exportPage is one page of the cursor-paged export endpoint.
type exportPage struct {
	Results []wireTicket `json:"results"`
	Links   struct {
		Next string `json:"next"`
	} `json:"links"`
	Meta struct {
		HasMore     bool   `json:"has_more"`
		AfterCursor string `json:"after_cursor"`
	} `json:"meta"`
}

type ticketEnvelope struct {
	Ticket wireTicket `json:"ticket"`
}

type ticketsEnvelope struct {
	Tickets []wireTicket `json:"tickets"`
}

type commentsPage struct {
	Comments []ticket.Comment `json:"comments"`
	NextPage string           `json:"next_page"`
}

type metricEventsPage struct {
	MetricEvents []sla.MetricEvent `json:"metric_events"`
	NextPage     string            `json:"next_page"`
}

type policiesEnvelope struct {
	Policies []sla.Policy `json:"sla_policies"`
}

type policyEnvelope struct {
	Policy sla.Policy `json:"sla_policy"`
}

type articleSearchPage struct {
	Results  []kb.Article `json:"results"`
	NextPage string       `json:"next_page"`
}

type articleEnvelope struct {
	Article kb.Article `json:"article"`
}

type sectionsPage struct {
	Sections []kb.Section `json:"sections"`
	NextPage string       `json:"next_page"`
}

// incrementalPage covers all incremental endpoints; exactly one of the
// item slices is populated per endpoint. Items stay raw until the typed
// wrapper decodes them.
type incrementalPage struct {
	Tickets            []json.RawMessage `json:"tickets"`
	TicketEvents       []json.RawMessage `json:"ticket_events"`
	TicketMetricEvents []json.RawMessage `json:"ticket_metric_events"`
	NextPage           string            `json:"next_page"`
	AfterURL           string            `json:"after_url"`
	EndOfStream        *bool             `json:"end_of_stream"`
	EndTime            *int64            `json:"end_time"`
}
