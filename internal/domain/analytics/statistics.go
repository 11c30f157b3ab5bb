package analytics

import (
	"context"
	"strconv"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// SearchStatistics retrieves a query's result set and rolls it up into
// distribution counts: status, priority, top assignees, requesters,
// organizations and tags, a monthly histogram, and approximate
// resolution times for solved tickets.
func (s *Service) SearchStatistics(ctx context.Context, query string, opts StatisticsOptions) (*StatisticsReport, error) {
	if query == "" {
		return nil, errs.Validation("query", "search query cannot be empty")
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultStatsLimit
	}

	set, err := s.searcher.SearchExport(ctx, query, search.ExportOptions{
		SortBy:     opts.SortBy,
		SortOrder:  opts.SortOrder,
		MaxResults: opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	if len(set.Tickets) == 0 {
		return &StatisticsReport{
			Query:   query,
			Message: "No tickets found for analysis",
		}, nil
	}

	statusCounts := make(map[string]int)
	priorityCounts := make(map[string]int)
	assigneeCounts := make(map[string]int)
	requesterCounts := make(map[string]int)
	organizationCounts := make(map[string]int)
	tagCounts := make(map[string]int)
	monthCounts := make(map[string]int)
	var resolutionHours []float64

	assignedTotal := 0
	for i := range set.Tickets {
		tk := &set.Tickets[i]

		statusCounts[orUnknown(string(tk.Status))]++
		priorityCounts[orUnknown(string(tk.Priority))]++

		if tk.AssigneeID != nil {
			assigneeCounts[strconv.FormatInt(*tk.AssigneeID, 10)]++
			assignedTotal++
		}
		requesterCounts[strconv.FormatInt(tk.RequesterID, 10)]++
		if tk.OrganizationID != nil {
			organizationCounts[strconv.FormatInt(*tk.OrganizationID, 10)]++
		}
		for _, tag := range tk.Tags {
			tagCounts[tag]++
		}

		if !tk.CreatedAt.IsZero() {
			monthCounts[monthKey(tk.CreatedAt.UTC())]++
		}

		if tk.Status == ticket.StatusSolved && !tk.CreatedAt.IsZero() && !tk.UpdatedAt.IsZero() {
			hours := tk.UpdatedAt.Sub(tk.CreatedAt).Hours()
			if hours >= 0 {
				resolutionHours = append(resolutionHours, hours)
			}
		}
	}

	resolution := ResolutionStats{TotalSolved: len(resolutionHours)}
	if len(resolutionHours) > 0 {
		sum, minimum, maximum := 0.0, resolutionHours[0], resolutionHours[0]
		for _, h := range resolutionHours {
			sum += h
			if h < minimum {
				minimum = h
			}
			if h > maximum {
				maximum = h
			}
		}
		resolution.AverageHours = round2(sum / float64(len(resolutionHours)))
		resolution.MinHours = round2(minimum)
		resolution.MaxHours = round2(maximum)
	}

	topRequesters := topCounts(requesterCounts, topEntityCount)
	topOrganizations := topCounts(organizationCounts, topEntityCount)
	topTags := topCounts(tagCounts, topEntityCount)

	summary := &Summary{
		UnassignedTickets:  len(set.Tickets) - assignedTotal,
		AvgResolutionHours: resolution.AverageHours,
	}
	if top := topCounts(statusCounts, 1); len(top) > 0 {
		summary.MostCommonStatus = top[0].Key
	}
	if top := topCounts(priorityCounts, 1); len(top) > 0 {
		summary.MostCommonPriority = top[0].Key
	}
	if len(topRequesters) > 0 {
		summary.MostActiveRequester = &topRequesters[0]
	}
	if len(topOrganizations) > 0 {
		summary.MostActiveOrganization = &topOrganizations[0]
	}
	if len(topTags) > 0 {
		summary.MostCommonTag = &topTags[0]
	}

	return &StatisticsReport{
		Query:        query,
		TotalTickets: len(set.Tickets),
		Statistics: &Statistics{
			ByStatus:       statusCounts,
			ByPriority:     priorityCounts,
			ByAssignee:     toMap(topCounts(assigneeCounts, topEntityCount)),
			ByRequester:    toMap(topRequesters),
			ByOrganization: toMap(topOrganizations),
			ByTags:         toMap(topTags),
			ByMonth:        monthCounts,
			ResolutionTime: resolution,
		},
		Summary: summary,
	}, nil
}
