package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

func tk(id int64, subject, description string) ticket.Ticket {
	return ticket.Ticket{ID: id, Subject: subject, Description: description}
}

func TestAnnotate_RegexCaseInsensitive(t *testing.T) {
	tickets := []ticket.Ticket{
		tk(1, "ERROR-4521 in checkout", ""),
		tk(2, "slow dashboard", "no error code here"),
		tk(3, "unrelated", "nothing"),
	}
	matches, err := search.Annotate(tickets, search.FilterOptions{RegexPattern: `error-\d+`})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, int64(1), matches[0].ID)
	require.Equal(t, "subject", matches[0].Field)
}

func TestAnnotate_InvalidRegex(t *testing.T) {
	_, err := search.Annotate(nil, search.FilterOptions{RegexPattern: "("})
	require.Error(t, err)
	require.True(t, errs.IsValidation(err))
}

func TestAnnotate_FuzzyThresholdInclusive(t *testing.T) {
	// Subject word overlap engineered so similarity is exactly at the
	// threshold: "cannot login" vs "cannot login today" scores
	// 2/3 + 0.2 containment boost.
	tickets := []ticket.Ticket{tk(1, "cannot login today", "")}

	score := search.Similarity("cannot login", "cannot login today")
	matches, err := search.Annotate(tickets, search.FilterOptions{
		FuzzyTerm:      "cannot login",
		FuzzyThreshold: score,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1, "boundary score must be included")
	require.InDelta(t, score, matches[0].Score, 1e-9)

	matches, err = search.Annotate(tickets, search.FilterOptions{
		FuzzyTerm:      "cannot login",
		FuzzyThreshold: score + 0.0001,
	})
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestAnnotate_FuzzyThresholdOutOfRange(t *testing.T) {
	_, err := search.Annotate(nil, search.FilterOptions{FuzzyTerm: "x", FuzzyThreshold: 1.5})
	require.True(t, errs.IsValidation(err))
}

func TestAnnotate_FuzzySortsByScoreDescending(t *testing.T) {
	tickets := []ticket.Ticket{
		tk(1, "password reset loop detected", ""),
		tk(2, "password reset", ""),
	}
	matches, err := search.Annotate(tickets, search.FilterOptions{
		FuzzyTerm:      "password reset",
		FuzzyThreshold: 0.3,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, int64(2), matches[0].ID)
	require.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestAnnotate_ProximityDistanceBoundary(t *testing.T) {
	// "timeout" and "checkout" are exactly 3 words apart.
	tickets := []ticket.Ticket{tk(1, "", "timeout observed during checkout flow")}

	matches, err := search.Annotate(tickets, search.FilterOptions{
		ProximityTerms:    []string{"timeout", "checkout"},
		ProximityDistance: 3,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 3, matches[0].Span)
	require.Equal(t, "description", matches[0].Field)

	matches, err = search.Annotate(tickets, search.FilterOptions{
		ProximityTerms:    []string{"timeout", "checkout"},
		ProximityDistance: 2,
	})
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestAnnotate_ProximityRequiresAllTermsInWindow(t *testing.T) {
	// "payment" and "timeout" are adjacent but "declined" sits 20 words
	// further out, so no choice of occurrences keeps all three terms
	// mutually within the distance bound.
	far := "payment timeout a1 a2 a3 a4 a5 a6 a7 a8 a9 a10 a11 a12 a13 a14 a15 a16 a17 a18 a19 declined"
	tickets := []ticket.Ticket{tk(1, "", far)}

	matches, err := search.Annotate(tickets, search.FilterOptions{
		ProximityTerms:    []string{"payment", "timeout", "declined"},
		ProximityDistance: 5,
	})
	require.NoError(t, err)
	require.Empty(t, matches, "a close pair must not mask a distant term")
}

func TestAnnotate_ProximityThreeTermWindowSpan(t *testing.T) {
	tickets := []ticket.Ticket{tk(1, "", "payment gateway timeout during checkout flow")}

	matches, err := search.Annotate(tickets, search.FilterOptions{
		ProximityTerms:    []string{"payment", "timeout", "checkout"},
		ProximityDistance: 4,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	// Tightest window covering all three terms runs from "payment" to
	// "checkout": positions 0..4.
	require.Equal(t, 4, matches[0].Span)
}

func TestAnnotate_ProximityPicksTightestWindow(t *testing.T) {
	// Two occurrences of "retry"; the later one forms a tighter window
	// with "failed" and "upload".
	tickets := []ticket.Ticket{tk(1, "", "retry x1 x2 x3 x4 x5 failed retry upload")}

	matches, err := search.Annotate(tickets, search.FilterOptions{
		ProximityTerms:    []string{"failed", "retry", "upload"},
		ProximityDistance: 3,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 2, matches[0].Span)
}

func TestAnnotate_ProximityNeedsTwoTerms(t *testing.T) {
	_, err := search.Annotate(nil, search.FilterOptions{ProximityTerms: []string{"solo"}})
	require.True(t, errs.IsValidation(err))
}

func TestAnnotate_FiltersComposeAsAND(t *testing.T) {
	tickets := []ticket.Ticket{
		tk(1, "payment timeout at checkout", ""),
		tk(2, "payment declined", ""),
	}
	matches, err := search.Annotate(tickets, search.FilterOptions{
		RegexPattern:   "payment",
		ProximityTerms: []string{"timeout", "checkout"},
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, int64(1), matches[0].ID)
}

func TestSortTickets_ClientSide(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tickets := []ticket.Ticket{
		{ID: 1, CreatedAt: base.Add(2 * time.Hour), Priority: ticket.PriorityLow},
		{ID: 2, CreatedAt: base, Priority: ticket.PriorityUrgent},
		{ID: 3, CreatedAt: base.Add(time.Hour), Priority: ticket.PriorityHigh},
	}

	search.SortTickets(tickets, "created_at", "asc")
	require.Equal(t, []int64{2, 3, 1}, ids(tickets))

	// Default order is descending.
	search.SortTickets(tickets, "priority", "")
	require.Equal(t, []int64{2, 3, 1}, ids(tickets))
}

func TestSortTickets_NoSortFieldKeepsOrder(t *testing.T) {
	tickets := []ticket.Ticket{{ID: 3}, {ID: 1}, {ID: 2}}
	search.SortTickets(tickets, "", "asc")
	require.Equal(t, []int64{3, 1, 2}, ids(tickets))
}

func ids(tickets []ticket.Ticket) []int64 {
	out := make([]int64, len(tickets))
	for i := range tickets {
		out[i] = tickets[i].ID
	}
	return out
}
