package zendesk

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/domain/kb"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

func TestGetTicket_NotFoundMapped(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.GetTicket(context.Background(), 42)
	require.True(t, errs.IsNotFound(err))
}

func TestGetTicket_SideloadsMetrics(t *testing.T) {
	var gotPath, gotInclude string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInclude = r.URL.Query().Get("include")
		w.Write([]byte(`{"ticket":{"id":42,"subject":"hello","metric_set":{"reply_time_in_seconds":60}}}`))
	}))

	tk, err := client.GetTicket(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "/tickets/42.json", gotPath)
	require.Equal(t, "metric_sets", gotInclude)
	require.Equal(t, "hello", tk.Subject)
	require.NotNil(t, tk.Metrics)
}

func TestGetTickets_Chunks(t *testing.T) {
	var gotIDs []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = append(gotIDs, r.URL.Query().Get("ids"))
		w.Write([]byte(`{"tickets":[{"id":1}]}`))
	}))

	ids := make([]int64, 150)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	tickets, err := client.GetTickets(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, tickets, 2, "one ticket per chunked request")
	require.Len(t, gotIDs, 2)
	require.Contains(t, gotIDs[0], "1,2,")
	require.Contains(t, gotIDs[1], "101,102,")
}

func TestGetTicketComments_Paginates(t *testing.T) {
	mux := http.NewServeMux()
	client, _ := newTestClient(t, mux)

	mux.HandleFunc("/tickets/7/comments.json", func(w http.ResponseWriter, r *http.Request) {
		next := client.baseURL + "/comments-page2"
		fmt.Fprintf(w, `{"comments":[{"id":1,"body":"first"}],"next_page":%q}`, next)
	})
	mux.HandleFunc("/comments-page2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"comments":[{"id":2,"body":"second"}]}`))
	})

	comments, err := client.GetTicketComments(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "second", comments[1].Body)
}

func TestTicketMetricEvents(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tickets/5/metric_events.json", r.URL.Path)
		w.Write([]byte(`{"metric_events":[{"id":1,"ticket_id":5,"metric":"first_reply_time","type":"breach"}]}`))
	}))

	events, err := client.TicketMetricEvents(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "breach", events[0].Type)
}

func TestSLAPolicy_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.SLAPolicy(context.Background(), 9)
	require.True(t, errs.IsNotFound(err))
}

func TestSearchArticles_Params(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "/help_center/articles/search.json", r.URL.Path)
		require.Equal(t, "reset password", q.Get("query"))
		require.Equal(t, "faq,howto", q.Get("label_names"))
		require.Equal(t, "25", q.Get("per_page"))
		w.Write([]byte(`{"results":[{"id":1,"title":"Reset your password"}],"next_page":"more"}`))
	}))

	articles, hasMore, err := client.SearchArticles(context.Background(), kb.SearchOptions{
		Query:  "reset password",
		Labels: []string{"faq", "howto"},
	})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.True(t, hasMore)
}

func TestGetArticle_LocaleInPath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"article":{"id":3,"title":"VPN setup","body":"full body"}}`))
	}))

	article, err := client.GetArticle(context.Background(), 3, "")
	require.NoError(t, err)
	require.Equal(t, "/help_center/en-us/articles/3.json", gotPath)
	require.Equal(t, "full body", article.Body)
}

func TestSections_Paginates(t *testing.T) {
	mux := http.NewServeMux()
	client, _ := newTestClient(t, mux)

	mux.HandleFunc("/help_center/en-us/sections.json", func(w http.ResponseWriter, r *http.Request) {
		next := client.baseURL + "/sections-page2"
		fmt.Fprintf(w, `{"sections":[{"id":1,"name":"FAQ"}],"next_page":%q}`, next)
	})
	mux.HandleFunc("/sections-page2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sections":[{"id":2,"name":"Guides"}]}`))
	})

	sections, err := client.Sections(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, sections, 2)
}
