package zendesk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ganot/helpdesk-mcp/internal/domain/sla"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// TicketMetricEvents fetches the complete metric event history for one
// ticket, in upstream order.
func (c *Client) TicketMetricEvents(ctx context.Context, ticketID int64) ([]sla.MetricEvent, error) {
	if err := ticket.ValidateID("ticket_id", ticketID); err != nil {
		return nil, err
	}
	op := fmt.Sprintf("get metric events for ticket %d", ticketID)

	var events []sla.MetricEvent
	nextURL := ""
	for {
		var page metricEventsPage
		var err error
		if nextURL == "" {
			err = c.getJSON(ctx, op, fmt.Sprintf("/tickets/%d/metric_events.json", ticketID), nil, &page)
		} else {
			err = c.getJSONURL(ctx, op, nextURL, &page)
		}
		if err != nil {
			if statusIs(err, http.StatusNotFound) {
				return nil, errs.NotFound("ticket", ticketID)
			}
			return nil, err
		}
		events = append(events, page.MetricEvents...)
		if page.NextPage == "" || len(page.MetricEvents) == 0 {
			break
		}
		nextURL = page.NextPage
	}
	return events, nil
}

// SLAPolicies fetches every policy configured upstream.
func (c *Client) SLAPolicies(ctx context.Context) ([]sla.Policy, error) {
	var env policiesEnvelope
	if err := c.getJSON(ctx, "list sla policies", "/slas/policies.json", nil, &env); err != nil {
		return nil, err
	}
	return env.Policies, nil
}

// SLAPolicy fetches one policy by ID.
func (c *Client) SLAPolicy(ctx context.Context, id int64) (*sla.Policy, error) {
	if err := ticket.ValidateID("policy_id", id); err != nil {
		return nil, err
	}
	op := fmt.Sprintf("get sla policy %d", id)

	var env policyEnvelope
	if err := c.getJSON(ctx, op, fmt.Sprintf("/slas/policies/%d.json", id), nil, &env); err != nil {
		if statusIs(err, http.StatusNotFound) {
			return nil, errs.NotFound("sla policy", id)
		}
		return nil, err
	}
	return &env.Policy, nil
}
