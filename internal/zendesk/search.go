package zendesk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

const (
	// boundedPageSize is the upstream's maximum per_page on the bounded
	// search endpoint.
	boundedPageSize = 100

	// exportPageSize is the page[size] requested on the export endpoint.
	exportPageSize = 100
)

// Search runs the bounded search endpoint. The upstream caps this path
// at 1000 total results; the sort directive is executed natively.
func (c *Client) Search(ctx context.Context, query string, opts search.Options) (*search.ResultSet, error) {
	op := fmt.Sprintf("search %q", query)

	params := url.Values{}
	params.Set("query", scopeToTickets(query))
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
		order := opts.SortOrder
		if order == "" {
			order = "desc"
		}
		params.Set("sort_order", order)
	}
	perPage := opts.Limit
	if perPage <= 0 || perPage > boundedPageSize {
		perPage = boundedPageSize
	}
	params.Set("per_page", strconv.Itoa(perPage))

	var tickets []ticket.Ticket
	nextURL := ""
	for {
		var page searchPage
		var err error
		if nextURL == "" {
			err = c.getJSON(ctx, op, "/search.json", params, &page)
		} else {
			err = c.getJSONURL(ctx, op, nextURL, &page)
		}
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, domainTickets(page.Results)...)
		if opts.Limit > 0 && len(tickets) >= opts.Limit {
			tickets = tickets[:opts.Limit]
			break
		}
		if page.NextPage == "" || len(page.Results) == 0 {
			break
		}
		nextURL = page.NextPage
	}

	return &search.ResultSet{
		Tickets:   tickets,
		Count:     len(tickets),
		Query:     query,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
	}, nil
}

// SearchExport runs the cursor-paged export endpoint. The export path
// rejects sort directives, so none are ever sent; the requested sort is
// applied locally once retrieval completes. A MaxResults of zero pages
// until upstream exhaustion.
func (c *Client) SearchExport(ctx context.Context, query string, opts search.ExportOptions) (*search.ResultSet, error) {
	op := fmt.Sprintf("search export %q", query)

	params := url.Values{}
	params.Set("query", query)
	params.Set("filter[type]", "ticket")
	params.Set("page[size]", strconv.Itoa(exportPageSize))

	var tickets []ticket.Ticket
	truncated := false
	seenCursors := make(map[string]struct{})
	nextURL := ""

page:
	for {
		var page exportPage
		var err error
		if nextURL == "" {
			err = c.getJSON(ctx, op, "/search/export.json", params, &page)
		} else {
			err = c.getJSONURL(ctx, op, nextURL, &page)
		}
		if err != nil {
			return nil, err
		}

		for i, w := range page.Results {
			tickets = append(tickets, w.domain())
			if opts.MaxResults > 0 && len(tickets) >= opts.MaxResults {
				if i < len(page.Results)-1 || page.Meta.HasMore {
					truncated = true
				}
				break page
			}
		}

		if !page.Meta.HasMore || page.Links.Next == "" {
			break
		}
		// Cursor loop guard: a repeated pagination link means the
		// upstream is cycling and exhaustion will never be reached.
		if _, seen := seenCursors[page.Links.Next]; seen {
			c.logger.Warn("export pagination loop detected", "query", query)
			break
		}
		seenCursors[page.Links.Next] = struct{}{}
		nextURL = page.Links.Next
	}

	search.SortTickets(tickets, opts.SortBy, opts.SortOrder)

	return &search.ResultSet{
		Tickets:   tickets,
		Count:     len(tickets),
		Query:     query,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
		Truncated: truncated,
	}, nil
}

// scopeToTickets restricts a bounded search to ticket results unless
// the query already constrains the result type.
func scopeToTickets(query string) string {
	if strings.Contains(query, "type:") {
		return query
	}
	return query + " type:ticket"
}
