package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// maxBoundedResults is the upstream's hard cap on the bounded search
// path. Larger result sets must use the export path.
const maxBoundedResults = 1000

// Service handles search business logic.
type Service struct {
	retriever Retriever
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new search service.
func NewService(retriever Retriever, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		retriever: retriever,
		logger:    logger,
		now:       time.Now,
	}
}

// Search runs a bounded search with optional native sorting.
func (s *Service) Search(ctx context.Context, query string, opts Options) (*ResultSet, error) {
	if query == "" {
		return nil, errs.Validation("query", "search query cannot be empty")
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.Limit > maxBoundedResults {
		opts.Limit = maxBoundedResults
	}

	result, err := s.retriever.Search(ctx, query, opts)
	if err != nil {
		return nil, errs.WrapOp(fmt.Sprintf("search %q", query), err)
	}
	result.Note = "Search API limited to 1000 total results. Use search_tickets_export for unlimited results."
	return result, nil
}

// SearchExport runs an unbounded export retrieval. Sort directives are
// never sent upstream; the retriever applies them locally.
func (s *Service) SearchExport(ctx context.Context, query string, opts ExportOptions) (*ResultSet, error) {
	if query == "" {
		return nil, errs.Validation("query", "search query cannot be empty")
	}
	result, err := s.retriever.SearchExport(ctx, query, opts)
	if err != nil {
		return nil, errs.WrapOp(fmt.Sprintf("search export %q", query), err)
	}
	result.Note = "Results from search export API (no 1000 result limit). Sorting applied client-side."
	return result, nil
}

// Enhanced runs a base export retrieval followed by the client-side
// ranking and filter engine. Retrieval over-fetches twice the limit to
// leave headroom for filtering.
func (s *Service) Enhanced(ctx context.Context, query string, opts EnhanceOptions) (*EnhancedResult, error) {
	if query == "" {
		return nil, errs.Validation("query", "base search query cannot be empty")
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	base, err := s.SearchExport(ctx, query, ExportOptions{
		SortBy:     opts.SortBy,
		SortOrder:  opts.SortOrder,
		MaxResults: opts.Limit * 2,
	})
	if err != nil {
		return nil, err
	}

	matches, err := Annotate(base.Tickets, opts.Filter)
	if err != nil {
		return nil, err
	}
	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}

	return &EnhancedResult{
		Matches:      matches,
		Count:        len(matches),
		Query:        query,
		SortBy:       opts.SortBy,
		SortOrder:    opts.SortOrder,
		Limit:        opts.Limit,
		Enhancements: describeEnhancements(opts.Filter),
	}, nil
}

func describeEnhancements(filter FilterOptions) string {
	var applied []string
	if filter.RegexPattern != "" {
		applied = append(applied, "regex_pattern: "+filter.RegexPattern)
	}
	if filter.FuzzyTerm != "" {
		threshold := filter.FuzzyThreshold
		if threshold == 0 {
			threshold = DefaultFuzzyThreshold
		}
		applied = append(applied, fmt.Sprintf("fuzzy_term: %s (threshold: %v)", filter.FuzzyTerm, threshold))
	}
	if len(filter.ProximityTerms) >= 2 {
		distance := filter.ProximityDistance
		if distance == 0 {
			distance = DefaultProximityDistance
		}
		applied = append(applied, fmt.Sprintf("proximity_terms: %s (distance: %d)",
			strings.Join(filter.ProximityTerms, ","), distance))
	}
	if len(applied) == 0 {
		return "none"
	}
	return strings.Join(applied, ", ")
}

// ByDateRange searches tickets by a date window on the given field,
// with support for relative periods resolved against the current UTC
// date.
func (s *Service) ByDateRange(ctx context.Context, opts DateRangeOptions) (*ResultSet, error) {
	field := opts.DateField
	if field == "" {
		field = "created"
	}
	start, end := opts.StartDate, opts.EndDate
	if opts.RelativePeriod != "" {
		var err error
		start, end, err = resolveRelativePeriod(opts.RelativePeriod, s.now().UTC())
		if err != nil {
			return nil, err
		}
	}

	query := BuildQuery(QuerySpec{
		CreatedAfter:  pick(field == "created", start),
		CreatedBefore: pick(field == "created", end),
		UpdatedAfter:  pick(field == "updated", start),
		UpdatedBefore: pick(field == "updated", end),
		SolvedAfter:   pick(field == "solved", start),
		SolvedBefore:  pick(field == "solved", end),
		DueAfter:      pick(field == "due", start),
		DueBefore:     pick(field == "due", end),
	})

	return s.SearchExport(ctx, query, ExportOptions{
		SortBy:     opts.SortBy,
		SortOrder:  opts.SortOrder,
		MaxResults: opts.Limit,
	})
}

func pick(use bool, value string) string {
	if use {
		return value
	}
	return ""
}

func resolveRelativePeriod(period string, now time.Time) (string, string, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	const day = 24 * time.Hour
	iso := func(t time.Time) string { return t.Format("2006-01-02") }

	switch period {
	case "last_7_days":
		return iso(today.Add(-7 * day)), iso(today), nil
	case "last_30_days":
		return iso(today.Add(-30 * day)), iso(today), nil
	case "this_month":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return iso(first), iso(today), nil
	case "last_month":
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		lastOfPrev := firstOfThis.Add(-day)
		firstOfPrev := time.Date(lastOfPrev.Year(), lastOfPrev.Month(), 1, 0, 0, 0, 0, time.UTC)
		return iso(firstOfPrev), iso(lastOfPrev), nil
	case "this_quarter":
		quarterMonth := time.Month((int(today.Month())-1)/3*3 + 1)
		first := time.Date(today.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
		return iso(first), iso(today), nil
	case "last_quarter":
		quarterMonth := time.Month((int(today.Month())-1)/3*3 + 1)
		thisQuarter := time.Date(today.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
		lastQuarter := thisQuarter.AddDate(0, -3, 0)
		return iso(lastQuarter), iso(thisQuarter.Add(-day)), nil
	default:
		return "", "", errs.Validation("relative_period", "unknown period %q", period)
	}
}

// ByTags runs an advanced tag search with AND/OR include logic and
// unconditional exclusion.
func (s *Service) ByTags(ctx context.Context, opts TagOptions) (*ResultSet, error) {
	query := BuildQuery(QuerySpec{
		Tags:        opts.IncludeTags,
		TagLogic:    opts.Logic,
		ExcludeTags: opts.ExcludeTags,
	})
	return s.SearchExport(ctx, query, ExportOptions{
		SortBy:     opts.SortBy,
		SortOrder:  opts.SortOrder,
		MaxResults: opts.Limit,
	})
}

// BySource searches tickets created through a specific integration
// channel.
func (s *Service) BySource(ctx context.Context, channel string, opts ExportOptions) (*ResultSet, error) {
	if channel == "" {
		return nil, errs.Validation("channel", "channel cannot be empty")
	}
	return s.SearchExport(ctx, "via.channel:"+channel, opts)
}
