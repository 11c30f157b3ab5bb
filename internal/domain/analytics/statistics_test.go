package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/domain/analytics"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

func TestSearchStatistics_EmptyQuery(t *testing.T) {
	svc := analytics.NewService(&fakeSearcher{}, nil)
	_, err := svc.SearchStatistics(context.Background(), "", analytics.StatisticsOptions{})
	require.True(t, errs.IsValidation(err))
}

func TestSearchStatistics_DefaultLimit(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := analytics.NewService(searcher, nil)

	report, err := svc.SearchStatistics(context.Background(), "status:open", analytics.StatisticsOptions{})
	require.NoError(t, err)
	require.Equal(t, 1000, searcher.calls[0].MaxResults)
	require.Equal(t, "No tickets found for analysis", report.Message)
	require.Nil(t, report.Statistics)
}

func TestSearchStatistics_Rollups(t *testing.T) {
	created := day(2024, 2, 10)
	searcher := &fakeSearcher{
		tickets: []ticket.Ticket{
			{
				ID: 1, Status: ticket.StatusSolved, Priority: ticket.PriorityHigh,
				RequesterID: 50, OrganizationID: orgPtr(9), AssigneeID: assignee(7),
				Tags:      []string{"billing", "urgent"},
				CreatedAt: created, UpdatedAt: created.Add(10 * time.Hour),
			},
			{
				ID: 2, Status: ticket.StatusSolved,
				RequesterID: 50,
				Tags:        []string{"billing"},
				CreatedAt:   created, UpdatedAt: created.Add(20 * time.Hour),
			},
			{
				ID: 3, Status: ticket.StatusOpen,
				RequesterID: 51,
				CreatedAt:   day(2024, 3, 1),
			},
		},
	}
	svc := analytics.NewService(searcher, nil)

	report, err := svc.SearchStatistics(context.Background(), "billing", analytics.StatisticsOptions{Limit: 50})
	require.NoError(t, err)
	require.Equal(t, 50, searcher.calls[0].MaxResults)
	require.Equal(t, "billing", report.Query)
	require.Equal(t, 3, report.TotalTickets)

	stats := report.Statistics
	require.NotNil(t, stats)
	require.Equal(t, map[string]int{"solved": 2, "open": 1}, stats.ByStatus)
	require.Equal(t, map[string]int{"high": 1, "unknown": 2}, stats.ByPriority)
	require.Equal(t, map[string]int{"7": 1}, stats.ByAssignee)
	require.Equal(t, map[string]int{"50": 2, "51": 1}, stats.ByRequester)
	require.Equal(t, map[string]int{"9": 1}, stats.ByOrganization)
	require.Equal(t, map[string]int{"billing": 2, "urgent": 1}, stats.ByTags)
	require.Equal(t, map[string]int{"2024-02": 2, "2024-03": 1}, stats.ByMonth)

	// Solved tickets approximate resolution as created-to-last-update.
	require.Equal(t, 2, stats.ResolutionTime.TotalSolved)
	require.Equal(t, 15.0, stats.ResolutionTime.AverageHours)
	require.Equal(t, 10.0, stats.ResolutionTime.MinHours)
	require.Equal(t, 20.0, stats.ResolutionTime.MaxHours)

	summary := report.Summary
	require.NotNil(t, summary)
	require.Equal(t, "solved", summary.MostCommonStatus)
	require.Equal(t, "unknown", summary.MostCommonPriority)
	require.Equal(t, analytics.KeyCount{Key: "50", Count: 2}, *summary.MostActiveRequester)
	require.Equal(t, analytics.KeyCount{Key: "billing", Count: 2}, *summary.MostCommonTag)
	require.Equal(t, 2, summary.UnassignedTickets)
	require.Equal(t, 15.0, summary.AvgResolutionHours)
}

func TestSearchStatistics_NegativeResolutionIgnored(t *testing.T) {
	created := day(2024, 2, 10)
	searcher := &fakeSearcher{
		tickets: []ticket.Ticket{
			{
				ID: 1, Status: ticket.StatusSolved, RequesterID: 1,
				CreatedAt: created, UpdatedAt: created.Add(-time.Hour),
			},
		},
	}
	svc := analytics.NewService(searcher, nil)

	report, err := svc.SearchStatistics(context.Background(), "anything", analytics.StatisticsOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, report.Statistics.ResolutionTime.TotalSolved)
}

func orgPtr(id int64) *int64 { return &id }
