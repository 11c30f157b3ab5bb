package mcp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ganot/helpdesk-mcp/internal/domain/analytics"
	"github.com/ganot/helpdesk-mcp/internal/domain/kb"
	"github.com/ganot/helpdesk-mcp/internal/domain/relationship"
	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/sla"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// TicketService defines ticket operations needed by MCP.
type TicketService interface {
	Get(ctx context.Context, id int64) (*ticket.Ticket, error)
	GetMany(ctx context.Context, ids []int64) (*ticket.List, error)
	Comments(ctx context.Context, id int64) (*ticket.CommentList, error)
	Incremental(ctx context.Context, startTime int64, maxResults int) (*ticket.IncrementalBatch, error)
	IncrementalEvents(ctx context.Context, startTime int64, maxResults int) (*ticket.EventBatch, error)
}

// SearchService defines search operations needed by MCP.
type SearchService interface {
	Search(ctx context.Context, query string, opts search.Options) (*search.ResultSet, error)
	SearchExport(ctx context.Context, query string, opts search.ExportOptions) (*search.ResultSet, error)
	Enhanced(ctx context.Context, query string, opts search.EnhanceOptions) (*search.EnhancedResult, error)
	BatchSearch(ctx context.Context, queries []string, opts search.BatchOptions) (*search.BatchResult, error)
	ByDateRange(ctx context.Context, opts search.DateRangeOptions) (*search.ResultSet, error)
	ByTags(ctx context.Context, opts search.TagOptions) (*search.ResultSet, error)
	BySource(ctx context.Context, channel string, opts search.ExportOptions) (*search.ResultSet, error)
}

// AnalyticsService defines aggregation operations needed by MCP.
type AnalyticsService interface {
	SearchStatistics(ctx context.Context, query string, opts analytics.StatisticsOptions) (*analytics.StatisticsReport, error)
	CaseVolume(ctx context.Context, opts analytics.VolumeOptions) (*analytics.VolumeReport, error)
}

// RelationshipService defines relationship discovery operations needed by MCP.
type RelationshipService interface {
	FindRelated(ctx context.Context, ticketID int64, limit int) (*relationship.RelatedReport, error)
	FindDuplicates(ctx context.Context, ticketID int64, limit int) (*relationship.DuplicateReport, error)
	Thread(ctx context.Context, ticketID int64) (*relationship.Thread, error)
	Relationships(ctx context.Context, ticketID int64) (*relationship.Relationships, error)
}

// SLAService defines SLA operations needed by MCP.
type SLAService interface {
	TicketStatus(ctx context.Context, ticketID int64) (*sla.TicketStatus, error)
	BreachSearch(ctx context.Context, opts sla.BreachSearchOptions) (*sla.BreachReport, error)
	AtRisk(ctx context.Context, opts sla.AtRiskOptions) (*sla.BreachReport, error)
	Policies(ctx context.Context) (*sla.PolicyList, error)
	Policy(ctx context.Context, id int64) (*sla.Policy, error)
	BulkMetricEvents(ctx context.Context, startTime int64, maxResults int) (*sla.EventBatch, error)
}

// KBService defines knowledge-base operations needed by MCP.
type KBService interface {
	SearchArticles(ctx context.Context, opts kb.SearchOptions) (*kb.SearchResult, error)
	Article(ctx context.Context, id int64, locale string) (*kb.Article, error)
	SectionList(ctx context.Context, locale string) (*kb.SectionList, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Tickets       TicketService
	Search        SearchService
	Analytics     AnalyticsService
	Relationships RelationshipService
	SLA           SLAService
	KB            KBService
}

// Handler dispatches MCP tool calls to domain services.
type Handler struct {
	services Services
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{services: services}
}

// Handle dispatches one tool call by name.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "get_ticket":
		var req GetTicketParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Tickets.Get(ctx, req.TicketID))

	case "get_tickets":
		var req GetTicketsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Tickets.GetMany(ctx, req.TicketIDs))

	case "get_ticket_comments":
		var req GetTicketCommentsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Tickets.Comments(ctx, req.TicketID))

	case "search_tickets":
		var req SearchTicketsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Search.Search(ctx, req.Query, search.Options{
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
			Limit:     req.Limit,
		}))

	case "search_tickets_export":
		var req SearchTicketsExportParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Search.SearchExport(ctx, req.Query, search.ExportOptions{
			SortBy:     req.SortBy,
			SortOrder:  req.SortOrder,
			MaxResults: req.MaxResults,
		}))

	case "search_tickets_enhanced":
		var req SearchTicketsEnhancedParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Search.Enhanced(ctx, req.Query, search.EnhanceOptions{
			Filter: search.FilterOptions{
				RegexPattern:      req.RegexPattern,
				FuzzyTerm:         req.FuzzyTerm,
				FuzzyThreshold:    req.FuzzyThreshold,
				ProximityTerms:    req.ProximityTerms,
				ProximityDistance: req.ProximityDistance,
				Fields:            req.Fields,
			},
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
			Limit:     req.Limit,
		}))

	case "build_search_query":
		var req BuildSearchQueryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		spec, err := querySpec(req)
		if err != nil {
			return nil, mapError(err)
		}
		return search.Build(spec), nil

	case "batch_search_tickets":
		var req BatchSearchTicketsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Search.BatchSearch(ctx, req.Queries, search.BatchOptions{
			Deduplicate:   req.Deduplicate,
			SortBy:        req.SortBy,
			SortOrder:     req.SortOrder,
			LimitPerQuery: req.LimitPerQuery,
		}))

	case "search_by_date_range":
		var req SearchByDateRangeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Search.ByDateRange(ctx, search.DateRangeOptions{
			DateField:      req.DateField,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			RelativePeriod: req.RelativePeriod,
			SortBy:         req.SortBy,
			SortOrder:      req.SortOrder,
			Limit:          req.Limit,
		}))

	case "search_by_tags_advanced":
		var req SearchByTagsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Search.ByTags(ctx, search.TagOptions{
			IncludeTags: req.Tags,
			ExcludeTags: req.ExcludeTags,
			Logic:       search.TagLogic(req.Logic),
			SortBy:      req.SortBy,
			SortOrder:   req.SortOrder,
			Limit:       req.Limit,
		}))

	case "search_by_source":
		var req SearchBySourceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Search.BySource(ctx, req.Channel, search.ExportOptions{
			SortBy:     req.SortBy,
			SortOrder:  req.SortOrder,
			MaxResults: req.Limit,
		}))

	case "get_search_statistics":
		var req SearchStatisticsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Analytics.SearchStatistics(ctx, req.Query, analytics.StatisticsOptions{
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
			Limit:     req.Limit,
		}))

	case "get_case_volume_analytics":
		var req CaseVolumeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Analytics.CaseVolume(ctx, analytics.VolumeOptions{
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			MaxResults:     req.MaxResults,
			TimeBucket:     req.TimeBucket,
			FilterStatus:   req.FilterStatus,
			FilterPriority: req.FilterPriority,
			FilterTags:     req.FilterTags,
		}))

	case "find_related_tickets":
		var req FindRelatedTicketsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Relationships.FindRelated(ctx, req.TicketID, req.Limit))

	case "find_duplicate_tickets":
		var req FindDuplicateTicketsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Relationships.FindDuplicates(ctx, req.TicketID, req.Limit))

	case "find_ticket_thread":
		var req TicketThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Relationships.Thread(ctx, req.TicketID))

	case "get_ticket_relationships":
		var req TicketRelationshipsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Relationships.Relationships(ctx, req.TicketID))

	case "get_sla_policies":
		return h.result(h.services.SLA.Policies(ctx))

	case "get_sla_policy":
		var req SLAPolicyParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.SLA.Policy(ctx, req.PolicyID))

	case "get_ticket_sla_status":
		var req TicketSLAStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.SLA.TicketStatus(ctx, req.TicketID))

	case "search_tickets_with_sla_breaches":
		var req SLABreachSearchParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.SLA.BreachSearch(ctx, sla.BreachSearchOptions{
			BreachType: req.BreachType,
			Status:     req.Status,
			Priority:   req.Priority,
			Limit:      req.Limit,
		}))

	case "get_tickets_at_risk_of_breach":
		var req SLAAtRiskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.SLA.AtRisk(ctx, sla.AtRiskOptions{
			Status:   req.Status,
			Priority: req.Priority,
			Limit:    req.Limit,
		}))

	case "search_kb_articles":
		var req SearchKBArticlesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.KB.SearchArticles(ctx, kb.SearchOptions{
			Query:     req.Query,
			Labels:    req.Labels,
			SectionID: req.SectionID,
			Locale:    req.Locale,
			PerPage:   req.PerPage,
			SortBy:    req.SortBy,
		}))

	case "get_kb_article":
		var req GetKBArticleParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.KB.Article(ctx, req.ArticleID, req.Locale))

	case "list_kb_sections":
		var req ListKBSectionsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.KB.SectionList(ctx, req.Locale))

	case "incremental_tickets":
		var req IncrementalParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Tickets.Incremental(ctx, req.StartTime, req.MaxResults))

	case "incremental_ticket_events":
		var req IncrementalParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.Tickets.IncrementalEvents(ctx, req.StartTime, req.MaxResults))

	case "incremental_ticket_metric_events":
		var req IncrementalParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.result(h.services.SLA.BulkMetricEvents(ctx, req.StartTime, req.MaxResults))

	default:
		return nil, &APIError{
			Code:         "UNKNOWN_TOOL",
			Message:      "unknown tool: " + method,
			RecoveryHint: "Call tools/list for the supported tool names",
		}
	}
}

// result maps domain errors on the way out; successful payloads pass
// through for JSON serialization.
func (h *Handler) result(payload any, err error) (any, error) {
	if err != nil {
		return nil, mapError(err)
	}
	return payload, nil
}

func decodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return &APIError{
			Code:         "INVALID_PARAMS",
			Message:      "invalid parameters: " + err.Error(),
			RecoveryHint: "Check parameter types against the tool schema",
		}
	}
	return nil
}

// querySpec converts wire params into the structured query spec.
// Custom field keys arrive as JSON strings and must be numeric IDs.
func querySpec(req BuildSearchQueryParams) (search.QuerySpec, error) {
	spec := search.QuerySpec{
		Status:              req.Status,
		Priority:            req.Priority,
		Assignee:            req.Assignee,
		Requester:           req.Requester,
		Organization:        req.Organization,
		Tags:                req.Tags,
		TagLogic:            search.TagLogic(req.TagsLogic),
		ExcludeTags:         req.ExcludeTags,
		CreatedAfter:        req.CreatedAfter,
		CreatedBefore:       req.CreatedBefore,
		UpdatedAfter:        req.UpdatedAfter,
		UpdatedBefore:       req.UpdatedBefore,
		SolvedAfter:         req.SolvedAfter,
		SolvedBefore:        req.SolvedBefore,
		DueAfter:            req.DueAfter,
		DueBefore:           req.DueBefore,
		SubjectContains:     req.SubjectContains,
		DescriptionContains: req.DescriptionContains,
		CommentContains:     req.CommentContains,
	}
	if len(req.CustomFields) > 0 {
		spec.CustomFields = make(map[int64]any, len(req.CustomFields))
		for key, value := range req.CustomFields {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return search.QuerySpec{}, errs.Validation("custom_fields", "field key %q is not a numeric field ID", key)
			}
			spec.CustomFields[id] = value
		}
	}
	return spec, nil
}
