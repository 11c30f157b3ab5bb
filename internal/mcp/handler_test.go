package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/domain/analytics"
	"github.com/ganot/helpdesk-mcp/internal/domain/kb"
	"github.com/ganot/helpdesk-mcp/internal/domain/relationship"
	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/sla"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
	"github.com/ganot/helpdesk-mcp/internal/mcp"
)

type stubTickets struct {
	gotID        int64
	gotIDs       []int64
	gotStartTime int64
	gotMax       int
	err          error
}

func (s *stubTickets) Get(ctx context.Context, id int64) (*ticket.Ticket, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return &ticket.Ticket{ID: id, Subject: "stub"}, nil
}

func (s *stubTickets) GetMany(ctx context.Context, ids []int64) (*ticket.List, error) {
	s.gotIDs = ids
	return &ticket.List{Count: len(ids)}, nil
}

func (s *stubTickets) Comments(ctx context.Context, id int64) (*ticket.CommentList, error) {
	s.gotID = id
	return &ticket.CommentList{TicketID: id}, nil
}

func (s *stubTickets) Incremental(ctx context.Context, startTime int64, maxResults int) (*ticket.IncrementalBatch, error) {
	s.gotStartTime = startTime
	s.gotMax = maxResults
	return &ticket.IncrementalBatch{}, nil
}

func (s *stubTickets) IncrementalEvents(ctx context.Context, startTime int64, maxResults int) (*ticket.EventBatch, error) {
	s.gotStartTime = startTime
	s.gotMax = maxResults
	return &ticket.EventBatch{}, nil
}

type stubSearch struct {
	gotQuery   string
	gotOptions search.Options
}

func (s *stubSearch) Search(ctx context.Context, query string, opts search.Options) (*search.ResultSet, error) {
	s.gotQuery = query
	s.gotOptions = opts
	return &search.ResultSet{Query: query}, nil
}

func (s *stubSearch) SearchExport(ctx context.Context, query string, opts search.ExportOptions) (*search.ResultSet, error) {
	s.gotQuery = query
	return &search.ResultSet{Query: query}, nil
}

func (s *stubSearch) Enhanced(ctx context.Context, query string, opts search.EnhanceOptions) (*search.EnhancedResult, error) {
	s.gotQuery = query
	return &search.EnhancedResult{}, nil
}

func (s *stubSearch) BatchSearch(ctx context.Context, queries []string, opts search.BatchOptions) (*search.BatchResult, error) {
	return &search.BatchResult{}, nil
}

func (s *stubSearch) ByDateRange(ctx context.Context, opts search.DateRangeOptions) (*search.ResultSet, error) {
	return &search.ResultSet{}, nil
}

func (s *stubSearch) ByTags(ctx context.Context, opts search.TagOptions) (*search.ResultSet, error) {
	return &search.ResultSet{}, nil
}

func (s *stubSearch) BySource(ctx context.Context, channel string, opts search.ExportOptions) (*search.ResultSet, error) {
	s.gotQuery = channel
	return &search.ResultSet{}, nil
}

type stubAnalytics struct{}

func (stubAnalytics) SearchStatistics(ctx context.Context, query string, opts analytics.StatisticsOptions) (*analytics.StatisticsReport, error) {
	return &analytics.StatisticsReport{Query: query}, nil
}

func (stubAnalytics) CaseVolume(ctx context.Context, opts analytics.VolumeOptions) (*analytics.VolumeReport, error) {
	return &analytics.VolumeReport{}, nil
}

type stubRelationships struct{}

func (stubRelationships) FindRelated(ctx context.Context, ticketID int64, limit int) (*relationship.RelatedReport, error) {
	return &relationship.RelatedReport{}, nil
}

func (stubRelationships) FindDuplicates(ctx context.Context, ticketID int64, limit int) (*relationship.DuplicateReport, error) {
	return &relationship.DuplicateReport{}, nil
}

func (stubRelationships) Thread(ctx context.Context, ticketID int64) (*relationship.Thread, error) {
	return &relationship.Thread{}, nil
}

func (stubRelationships) Relationships(ctx context.Context, ticketID int64) (*relationship.Relationships, error) {
	return &relationship.Relationships{}, nil
}

type stubSLA struct {
	policiesCalled bool
	bulkStart      int64
}

func (s *stubSLA) TicketStatus(ctx context.Context, ticketID int64) (*sla.TicketStatus, error) {
	return &sla.TicketStatus{TicketID: ticketID}, nil
}

func (s *stubSLA) BreachSearch(ctx context.Context, opts sla.BreachSearchOptions) (*sla.BreachReport, error) {
	return &sla.BreachReport{}, nil
}

func (s *stubSLA) AtRisk(ctx context.Context, opts sla.AtRiskOptions) (*sla.BreachReport, error) {
	return &sla.BreachReport{}, nil
}

func (s *stubSLA) Policies(ctx context.Context) (*sla.PolicyList, error) {
	s.policiesCalled = true
	return &sla.PolicyList{}, nil
}

func (s *stubSLA) Policy(ctx context.Context, id int64) (*sla.Policy, error) {
	return &sla.Policy{ID: id}, nil
}

func (s *stubSLA) BulkMetricEvents(ctx context.Context, startTime int64, maxResults int) (*sla.EventBatch, error) {
	s.bulkStart = startTime
	return &sla.EventBatch{}, nil
}

type stubKB struct {
	gotLocale string
}

func (s *stubKB) SearchArticles(ctx context.Context, opts kb.SearchOptions) (*kb.SearchResult, error) {
	return &kb.SearchResult{Query: opts.Query}, nil
}

func (s *stubKB) Article(ctx context.Context, id int64, locale string) (*kb.Article, error) {
	s.gotLocale = locale
	return &kb.Article{ID: id}, nil
}

func (s *stubKB) SectionList(ctx context.Context, locale string) (*kb.SectionList, error) {
	s.gotLocale = locale
	return &kb.SectionList{Locale: locale}, nil
}

func newTestHandler() (*mcp.Handler, *stubTickets, *stubSearch, *stubSLA) {
	tickets := &stubTickets{}
	searches := &stubSearch{}
	slas := &stubSLA{}
	handler := mcp.NewHandler(mcp.Services{
		Tickets:       tickets,
		Search:        searches,
		Analytics:     stubAnalytics{},
		Relationships: stubRelationships{},
		SLA:           slas,
		KB:            &stubKB{},
	})
	return handler, tickets, searches, slas
}

func TestHandle_DispatchesGetTicket(t *testing.T) {
	handler, tickets, _, _ := newTestHandler()

	result, err := handler.Handle(context.Background(), "get_ticket", json.RawMessage(`{"ticket_id":42}`))
	require.NoError(t, err)
	require.Equal(t, int64(42), tickets.gotID)

	tk, ok := result.(*ticket.Ticket)
	require.True(t, ok)
	require.Equal(t, "stub", tk.Subject)
}

func TestHandle_InvalidParams(t *testing.T) {
	handler, _, _, _ := newTestHandler()

	_, err := handler.Handle(context.Background(), "get_ticket", json.RawMessage(`{"ticket_id":"forty-two"}`))
	var apiErr *mcp.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_PARAMS", apiErr.Code)
}

func TestHandle_EmptyParamsAllowed(t *testing.T) {
	handler, _, _, slas := newTestHandler()

	_, err := handler.Handle(context.Background(), "get_sla_policies", nil)
	require.NoError(t, err)
	require.True(t, slas.policiesCalled)

	_, err = handler.Handle(context.Background(), "get_tickets_at_risk_of_breach", json.RawMessage(`null`))
	require.NoError(t, err)
}

func TestHandle_MapsDomainErrors(t *testing.T) {
	handler, tickets, _, _ := newTestHandler()
	tickets.err = errs.NotFound("ticket", 42)

	_, err := handler.Handle(context.Background(), "get_ticket", json.RawMessage(`{"ticket_id":42}`))
	var apiErr *mcp.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestHandle_UnknownTool(t *testing.T) {
	handler, _, _, _ := newTestHandler()

	_, err := handler.Handle(context.Background(), "delete_all_tickets", nil)
	var apiErr *mcp.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "UNKNOWN_TOOL", apiErr.Code)
}

func TestHandle_SearchPassesOptions(t *testing.T) {
	handler, _, searches, _ := newTestHandler()

	params := json.RawMessage(`{"query":"status:open","limit":50,"sort_by":"created_at","sort_order":"asc"}`)
	_, err := handler.Handle(context.Background(), "search_tickets", params)
	require.NoError(t, err)
	require.Equal(t, "status:open", searches.gotQuery)
	require.Equal(t, 50, searches.gotOptions.Limit)
	require.Equal(t, "created_at", searches.gotOptions.SortBy)
	require.Equal(t, "asc", searches.gotOptions.SortOrder)
}

func TestHandle_BuildSearchQueryIsPure(t *testing.T) {
	handler, _, _, _ := newTestHandler()

	result, err := handler.Handle(context.Background(), "build_search_query", json.RawMessage(`{"status":"open"}`))
	require.NoError(t, err)

	built, ok := result.(search.BuiltQuery)
	require.True(t, ok)
	require.Equal(t, "status:open", built.Query)
}

func TestHandle_BuildSearchQueryCustomFieldKeys(t *testing.T) {
	handler, _, _, _ := newTestHandler()

	result, err := handler.Handle(context.Background(), "build_search_query",
		json.RawMessage(`{"custom_fields":{"360001234567":"production"}}`))
	require.NoError(t, err)
	built := result.(search.BuiltQuery)
	require.Contains(t, built.Query, "custom_field_360001234567:production")

	// Non-numeric keys are rejected before building.
	_, err = handler.Handle(context.Background(), "build_search_query",
		json.RawMessage(`{"custom_fields":{"environment":"production"}}`))
	var apiErr *mcp.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestHandle_IncrementalRouting(t *testing.T) {
	handler, tickets, _, slas := newTestHandler()

	_, err := handler.Handle(context.Background(), "incremental_tickets",
		json.RawMessage(`{"start_time":1700000000,"max_results":100}`))
	require.NoError(t, err)
	require.Equal(t, int64(1700000000), tickets.gotStartTime)
	require.Equal(t, 100, tickets.gotMax)

	_, err = handler.Handle(context.Background(), "incremental_ticket_metric_events",
		json.RawMessage(`{"start_time":1700000500}`))
	require.NoError(t, err)
	require.Equal(t, int64(1700000500), slas.bulkStart)
}
