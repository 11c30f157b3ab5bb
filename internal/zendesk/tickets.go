package zendesk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// showManyChunk is the upstream's cap on ids per show_many call.
const showManyChunk = 100

// GetTicket fetches a single ticket with its metric set sideloaded.
func (c *Client) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	if err := ticket.ValidateID("ticket_id", id); err != nil {
		return nil, err
	}
	op := fmt.Sprintf("get ticket %d", id)

	params := url.Values{}
	params.Set("include", "metric_sets")

	var env ticketEnvelope
	err := c.getJSON(ctx, op, fmt.Sprintf("/tickets/%d.json", id), params, &env)
	if err != nil {
		if statusIs(err, http.StatusNotFound) {
			return nil, errs.NotFound("ticket", id)
		}
		return nil, err
	}
	t := env.Ticket.domain()
	return &t, nil
}

// GetTickets fetches multiple tickets by ID in chunks. Unknown IDs are
// silently absent from the result, matching upstream show_many
// semantics.
func (c *Client) GetTickets(ctx context.Context, ids []int64) ([]ticket.Ticket, error) {
	if err := ticket.ValidateIDs("ticket_ids", ids); err != nil {
		return nil, err
	}

	var tickets []ticket.Ticket
	for start := 0; start < len(ids); start += showManyChunk {
		end := start + showManyChunk
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		parts := make([]string, len(chunk))
		for i, id := range chunk {
			parts[i] = strconv.FormatInt(id, 10)
		}
		params := url.Values{}
		params.Set("ids", strings.Join(parts, ","))
		params.Set("include", "metric_sets")

		var env ticketsEnvelope
		op := fmt.Sprintf("get tickets (%d ids)", len(chunk))
		if err := c.getJSON(ctx, op, "/tickets/show_many.json", params, &env); err != nil {
			return nil, err
		}
		tickets = append(tickets, domainTickets(env.Tickets)...)
	}
	return tickets, nil
}

// GetTicketComments fetches the full comment thread for a ticket,
// oldest first.
func (c *Client) GetTicketComments(ctx context.Context, id int64) ([]ticket.Comment, error) {
	if err := ticket.ValidateID("ticket_id", id); err != nil {
		return nil, err
	}
	op := fmt.Sprintf("get comments for ticket %d", id)

	var comments []ticket.Comment
	nextURL := ""
	for {
		var page commentsPage
		var err error
		if nextURL == "" {
			err = c.getJSON(ctx, op, fmt.Sprintf("/tickets/%d/comments.json", id), nil, &page)
		} else {
			err = c.getJSONURL(ctx, op, nextURL, &page)
		}
		if err != nil {
			if statusIs(err, http.StatusNotFound) {
				return nil, errs.NotFound("ticket", id)
			}
			return nil, err
		}
		comments = append(comments, page.Comments...)
		if page.NextPage == "" || len(page.Comments) == 0 {
			break
		}
		nextURL = page.NextPage
	}
	return comments, nil
}
