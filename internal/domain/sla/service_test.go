package sla_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/sla"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

type fakeSource struct {
	tickets  map[int64]ticket.Ticket
	events   map[int64][]sla.MetricEvent
	eventErr map[int64]error
	results  map[string][]ticket.Ticket
	policies []sla.Policy

	exportCalls []search.ExportOptions
	queries     []string

	bulkEvents  []sla.MetricEvent
	bulkHasMore bool
	bulkNext    *int64
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tickets:  make(map[int64]ticket.Ticket),
		events:   make(map[int64][]sla.MetricEvent),
		eventErr: make(map[int64]error),
		results:  make(map[string][]ticket.Ticket),
	}
}

func (f *fakeSource) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	tk, ok := f.tickets[id]
	if !ok {
		return nil, errs.NotFound("ticket", id)
	}
	return &tk, nil
}

func (f *fakeSource) TicketMetricEvents(ctx context.Context, ticketID int64) ([]sla.MetricEvent, error) {
	if err := f.eventErr[ticketID]; err != nil {
		return nil, err
	}
	return f.events[ticketID], nil
}

func (f *fakeSource) SearchExport(ctx context.Context, query string, opts search.ExportOptions) (*search.ResultSet, error) {
	f.exportCalls = append(f.exportCalls, opts)
	f.queries = append(f.queries, query)
	tickets := f.results[query]
	return &search.ResultSet{Tickets: tickets, Count: len(tickets)}, nil
}

func (f *fakeSource) SLAPolicies(ctx context.Context) ([]sla.Policy, error) {
	return f.policies, nil
}

func (f *fakeSource) SLAPolicy(ctx context.Context, id int64) (*sla.Policy, error) {
	for i := range f.policies {
		if f.policies[i].ID == id {
			return &f.policies[i], nil
		}
	}
	return nil, errs.NotFound("sla policy", id)
}

func (f *fakeSource) IncrementalMetricEvents(ctx context.Context, startTime int64, maxResults int) ([]sla.MetricEvent, bool, *int64, error) {
	return f.bulkEvents, f.bulkHasMore, f.bulkNext, nil
}

func event(id int64, metric, eventType string, at time.Time) sla.MetricEvent {
	return sla.MetricEvent{ID: id, TicketID: 1, Metric: metric, Type: eventType, Time: at}
}

func TestTicketStatus_Breached(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	source := newFakeSource()
	source.tickets[1] = ticket.Ticket{ID: 1, Status: ticket.StatusOpen, Priority: ticket.PriorityHigh}

	apply := event(10, "first_reply_time", sla.EventApply, base)
	apply.Policy = &sla.PolicyRef{ID: 7, Title: "Premium"}
	source.events[1] = []sla.MetricEvent{
		apply,
		event(11, "first_reply_time", sla.EventBreach, base.Add(4*time.Hour)),
	}

	svc := sla.NewService(source, nil)
	status, err := svc.TicketStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, sla.StatusBreached, status.Status)
	require.True(t, status.HasBreaches)
	require.Equal(t, 1, status.BreachCount)
	require.Equal(t, "first_reply_time", status.Breaches[0].Metric)
	// Breach attributes to the policy in force when it happened.
	require.Equal(t, int64(7), status.Breaches[0].PolicyID)
	require.Equal(t, "Premium", status.Breaches[0].PolicyTitle)
	require.Len(t, status.ActiveSLAs, 1)
}

func TestTicketStatus_AtRisk(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	source := newFakeSource()
	source.tickets[1] = ticket.Ticket{ID: 1, Status: ticket.StatusOpen}

	pause := event(20, "requester_wait_time", sla.EventPause, base)
	pause.Status = map[string]any{"state": "near breach"}
	source.events[1] = []sla.MetricEvent{pause}

	svc := sla.NewService(source, nil)
	status, err := svc.TicketStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, sla.StatusAtRisk, status.Status)
	require.False(t, status.HasBreaches)
	require.Len(t, status.AtRisk, 1)
}

func TestTicketStatus_PauseWithoutBreachMentionIsOK(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	source := newFakeSource()
	source.tickets[1] = ticket.Ticket{ID: 1, Status: ticket.StatusOpen}

	pause := event(20, "requester_wait_time", sla.EventPause, base)
	pause.Status = map[string]any{"state": "on hold"}
	source.events[1] = []sla.MetricEvent{
		pause,
		event(21, "requester_wait_time", sla.EventFulfill, base.Add(time.Hour)),
	}

	svc := sla.NewService(source, nil)
	status, err := svc.TicketStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, sla.StatusOK, status.Status)
	require.Empty(t, status.AtRisk)
}

func TestTicketStatus_BreachOutranksRisk(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	source := newFakeSource()
	source.tickets[1] = ticket.Ticket{ID: 1}

	pause := event(20, "first_reply_time", sla.EventPause, base)
	pause.Status = "breach imminent"
	source.events[1] = []sla.MetricEvent{
		pause,
		event(21, "resolution_time", sla.EventBreach, base.Add(time.Hour)),
	}

	svc := sla.NewService(source, nil)
	status, err := svc.TicketStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, sla.StatusBreached, status.Status)
	require.Len(t, status.AtRisk, 1)
}

func TestBreachSearch_FiltersAndOverFetches(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	source := newFakeSource()
	source.results["*"] = []ticket.Ticket{{ID: 1}, {ID: 2}, {ID: 3}}
	source.events[1] = []sla.MetricEvent{event(1, "first_reply_time", sla.EventBreach, base)}
	source.events[2] = nil
	source.events[3] = []sla.MetricEvent{event(3, "resolution_time", sla.EventBreach, base)}

	svc := sla.NewService(source, nil)
	report, err := svc.BreachSearch(context.Background(), sla.BreachSearchOptions{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, report.Count)
	require.Equal(t, 20, source.exportCalls[0].MaxResults, "candidates over-fetch twice the limit")
	require.Equal(t, "*", source.queries[0])

	// Narrowing to one metric drops the other breach.
	report, err = svc.BreachSearch(context.Background(), sla.BreachSearchOptions{
		Limit:      10,
		BreachType: "first_reply_time",
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Count)
	require.Equal(t, int64(1), report.Tickets[0].ID)
}

func TestBreachSearch_QueryFromFilters(t *testing.T) {
	source := newFakeSource()
	svc := sla.NewService(source, nil)

	_, err := svc.BreachSearch(context.Background(), sla.BreachSearchOptions{
		Status:   "open",
		Priority: "high",
	})
	require.NoError(t, err)
	require.Equal(t, "status:open priority:high", source.queries[0])
}

func TestBreachSearch_SkipsFailedCandidates(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	source := newFakeSource()
	source.results["*"] = []ticket.Ticket{{ID: 1}, {ID: 2}}
	source.eventErr[1] = fmt.Errorf("events unavailable")
	source.events[2] = []sla.MetricEvent{event(2, "first_reply_time", sla.EventBreach, base)}

	svc := sla.NewService(source, nil)
	report, err := svc.BreachSearch(context.Background(), sla.BreachSearchOptions{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, report.Count)
	require.Equal(t, int64(2), report.Tickets[0].ID)
}

func TestAtRisk_DefaultsToUnsolvedAndExcludesBreached(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	source := newFakeSource()
	source.results["status<solved"] = []ticket.Ticket{{ID: 1}, {ID: 2}}

	risk := event(1, "first_reply_time", sla.EventPause, base)
	risk.Status = "breach risk"
	source.events[1] = []sla.MetricEvent{risk}

	breachedRisk := event(2, "first_reply_time", sla.EventPause, base)
	breachedRisk.Status = "breach risk"
	source.events[2] = []sla.MetricEvent{
		breachedRisk,
		event(3, "first_reply_time", sla.EventBreach, base.Add(time.Hour)),
	}

	svc := sla.NewService(source, nil)
	report, err := svc.AtRisk(context.Background(), sla.AtRiskOptions{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, "status<solved", source.queries[0])
	require.Equal(t, 30, source.exportCalls[0].MaxResults, "candidates over-fetch three times the limit")
	require.Equal(t, 1, report.Count)
	require.Equal(t, int64(1), report.Tickets[0].ID)
}

func TestPolicies(t *testing.T) {
	source := newFakeSource()
	source.policies = []sla.Policy{{ID: 1, Title: "Premium"}, {ID: 2, Title: "Standard"}}

	svc := sla.NewService(source, nil)
	list, err := svc.Policies(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, list.Count)

	policy, err := svc.Policy(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "Standard", policy.Title)

	_, err = svc.Policy(context.Background(), 404)
	require.True(t, errs.IsNotFound(err))
}

func TestBulkMetricEvents(t *testing.T) {
	next := int64(1700000001)
	source := newFakeSource()
	source.bulkEvents = []sla.MetricEvent{event(1, "first_reply_time", sla.EventBreach, time.Now())}
	source.bulkHasMore = true
	source.bulkNext = &next

	svc := sla.NewService(source, nil)
	batch, err := svc.BulkMetricEvents(context.Background(), 1700000000, 100)
	require.NoError(t, err)
	require.Equal(t, 1, batch.Count)
	require.True(t, batch.HasMore)
	require.Equal(t, next, *batch.NextStartTime)
}
