// Package search implements query translation, retrieval orchestration,
// and the client-side ranking and filtering the upstream search grammar
// cannot express.
package search

import (
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

// ResultSet is an ordered sequence of tickets plus retrieval metadata.
// Truncated distinguishes "stopped early at the caller's cap" from
// "upstream exhausted": it is true only when more results remained.
type ResultSet struct {
	Tickets   []ticket.Ticket `json:"tickets"`
	Count     int             `json:"count"`
	Query     string          `json:"query"`
	SortBy    string          `json:"sort_by,omitempty"`
	SortOrder string          `json:"sort_order,omitempty"`
	Truncated bool            `json:"truncated"`
	Note      string          `json:"note,omitempty"`
}

// Match annotates a ticket that passed the ranking and filter engine.
// Score is in [0,1]; when several filters contributed, Score carries
// the tightest (lowest) of their scores.
type Match struct {
	ticket.Ticket
	Score  float64 `json:"match_score"`
	Field  string  `json:"match_field,omitempty"`
	Reason string  `json:"match_reason,omitempty"`
	// Span is the minimal observed token span for proximity matches.
	Span int `json:"proximity_span,omitempty"`
}

// EnhancedResult is the payload of an enhanced (client-side filtered)
// search.
type EnhancedResult struct {
	Matches      []Match `json:"tickets"`
	Count        int     `json:"count"`
	Query        string  `json:"query"`
	SortBy       string  `json:"sort_by,omitempty"`
	SortOrder    string  `json:"sort_order,omitempty"`
	Limit        int     `json:"limit"`
	Enhancements string  `json:"enhancements_applied"`
}

// QueryResult is one query's outcome inside a batch run. Failed queries
// report Error and contribute no tickets; sibling queries are not
// affected.
type QueryResult struct {
	Query           string          `json:"query"`
	Tickets         []ticket.Ticket `json:"tickets,omitempty"`
	Count           int             `json:"count"`
	Error           string          `json:"error,omitempty"`
	ExecutionTimeMS int64           `json:"execution_time_ms"`
}

// BatchResult aggregates a concurrent multi-query run.
type BatchResult struct {
	RunID           string          `json:"run_id"`
	QueriesExecuted int             `json:"queries_executed"`
	QueriesFailed   int             `json:"queries_failed"`
	Results         []QueryResult   `json:"query_results"`
	Merged          []ticket.Ticket `json:"all_tickets,omitempty"`
	UniqueTickets   int             `json:"unique_tickets"`
	TotalTimeMS     int64           `json:"total_execution_time_ms"`
	Deduplicated    bool            `json:"deduplication_applied"`
}
