package zendesk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ganot/helpdesk-mcp/internal/domain/kb"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// SearchArticles runs a relevance search over help-center articles.
// The second return reports whether the upstream indicated further
// pages beyond the requested size.
func (c *Client) SearchArticles(ctx context.Context, opts kb.SearchOptions) ([]kb.Article, bool, error) {
	op := fmt.Sprintf("search articles %q", opts.Query)

	params := url.Values{}
	params.Set("query", opts.Query)
	params.Set("per_page", strconv.Itoa(pageSize(opts.PerPage)))
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
	}
	if len(opts.Labels) > 0 {
		params.Set("label_names", strings.Join(opts.Labels, ","))
	}
	if opts.SectionID != nil {
		params.Set("section", strconv.FormatInt(*opts.SectionID, 10))
	}
	if opts.Locale != "" {
		params.Set("locale", opts.Locale)
	}

	var page articleSearchPage
	if err := c.getJSON(ctx, op, "/help_center/articles/search.json", params, &page); err != nil {
		return nil, false, err
	}
	return page.Results, page.NextPage != "", nil
}

// GetArticle fetches one article with its full body.
func (c *Client) GetArticle(ctx context.Context, id int64, loc string) (*kb.Article, error) {
	if err := ticket.ValidateID("article_id", id); err != nil {
		return nil, err
	}
	op := fmt.Sprintf("get article %d", id)

	path := fmt.Sprintf("/help_center/%s/articles/%d.json", locale(loc), id)
	var env articleEnvelope
	if err := c.getJSON(ctx, op, path, nil, &env); err != nil {
		if statusIs(err, http.StatusNotFound) {
			return nil, errs.NotFound("article", id)
		}
		return nil, err
	}
	return &env.Article, nil
}

// Sections lists all help-center sections for a locale.
func (c *Client) Sections(ctx context.Context, loc string) ([]kb.Section, error) {
	op := "list sections"
	path := fmt.Sprintf("/help_center/%s/sections.json", locale(loc))

	var sections []kb.Section
	nextURL := ""
	for {
		var page sectionsPage
		var err error
		if nextURL == "" {
			err = c.getJSON(ctx, op, path, nil, &page)
		} else {
			err = c.getJSONURL(ctx, op, nextURL, &page)
		}
		if err != nil {
			return nil, err
		}
		sections = append(sections, page.Sections...)
		if page.NextPage == "" || len(page.Sections) == 0 {
			break
		}
		nextURL = page.NextPage
	}
	return sections, nil
}

func locale(loc string) string {
	if loc == "" {
		return kb.DefaultLocale
	}
	return loc
}

func pageSize(requested int) int {
	if requested <= 0 {
		return 25
	}
	if requested > kb.MaxPageSize {
		return kb.MaxPageSize
	}
	return requested
}
