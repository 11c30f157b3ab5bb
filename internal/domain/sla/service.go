package sla

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

// Service derives SLA health from metric event streams. The upstream
// exposes no queryable breach flag, so breach and at-risk listings
// evaluate candidate tickets one by one; cost scales with the number of
// candidates retrieved, not with the account size.
type Service struct {
	source Source
	logger *slog.Logger
}

// NewService creates a new SLA service.
func NewService(source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// TicketStatus evaluates SLA health for one ticket from its metric
// event history.
func (s *Service) TicketStatus(ctx context.Context, ticketID int64) (*TicketStatus, error) {
	tk, err := s.source.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	events, err := s.source.TicketMetricEvents(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return analyze(tk, events), nil
}

// analyze classifies a ticket's SLA health: any breach event means
// breached; otherwise a pause event whose status payload mentions a
// breach means at_risk; otherwise ok. The policy in force at breach
// time is the most recent apply event preceding it.
func analyze(tk *ticket.Ticket, events []MetricEvent) *TicketStatus {
	var (
		breaches   []Breach
		atRisk     []RiskSignal
		activeSLAs []AppliedPolicy

		currentPolicyID    int64
		currentPolicyTitle string
	)

	for _, event := range events {
		switch event.Type {
		case EventApply:
			if event.Policy != nil {
				currentPolicyID = event.Policy.ID
				currentPolicyTitle = event.Policy.Title
			}
			activeSLAs = append(activeSLAs, AppliedPolicy{
				PolicyID:    currentPolicyID,
				PolicyTitle: currentPolicyTitle,
				AppliedAt:   event.Time,
			})

		case EventBreach:
			breaches = append(breaches, Breach{
				Metric:      event.Metric,
				InstanceID:  event.InstanceID,
				BreachedAt:  event.Time,
				PolicyID:    currentPolicyID,
				PolicyTitle: currentPolicyTitle,
			})

		case EventPause:
			if statusMentionsBreach(event.Status) {
				atRisk = append(atRisk, RiskSignal{
					Metric:     event.Metric,
					InstanceID: event.InstanceID,
					Status:     event.Status,
					Time:       event.Time,
				})
			}
		}
	}

	overall := StatusOK
	switch {
	case len(breaches) > 0:
		overall = StatusBreached
	case len(atRisk) > 0:
		overall = StatusAtRisk
	}

	return &TicketStatus{
		TicketID:     tk.ID,
		Status:       overall,
		HasBreaches:  len(breaches) > 0,
		BreachCount:  len(breaches),
		Breaches:     breaches,
		AtRisk:       atRisk,
		ActiveSLAs:   activeSLAs,
		TicketStatus: tk.Status,
		Priority:     tk.Priority,
		CreatedAt:    tk.CreatedAt,
		UpdatedAt:    tk.UpdatedAt,
	}
}

func statusMentionsBreach(status any) bool {
	if status == nil {
		return false
	}
	return strings.Contains(strings.ToLower(fmt.Sprint(status)), "breach")
}

// BreachSearch finds tickets that have breached SLA. Candidates come
// from a search over-fetched to twice the limit; each candidate's event
// stream is evaluated individually, and candidates whose evaluation
// fails are skipped.
func (s *Service) BreachSearch(ctx context.Context, opts BreachSearchOptions) (*BreachReport, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	query := breachQuery(opts.Status, opts.Priority, "")

	set, err := s.source.SearchExport(ctx, query, search.ExportOptions{
		SortBy:     "updated_at",
		SortOrder:  "desc",
		MaxResults: opts.Limit * 2,
	})
	if err != nil {
		return nil, err
	}

	var flagged []FlaggedTicket
	for i := range set.Tickets {
		if len(flagged) >= opts.Limit {
			break
		}
		tk := set.Tickets[i]
		status, ok := s.evaluate(ctx, &tk)
		if !ok || !status.HasBreaches {
			continue
		}
		if opts.BreachType != "" && !hasBreachOfType(status.Breaches, opts.BreachType) {
			continue
		}
		flagged = append(flagged, FlaggedTicket{Ticket: tk, SLAStatus: status})
	}

	return &BreachReport{
		Tickets:        flagged,
		Count:          len(flagged),
		BreachType:     opts.BreachType,
		StatusFilter:   opts.Status,
		PriorityFilter: opts.Priority,
		Note:           "Tickets with SLA breaches. Each ticket includes sla_status with breach details.",
	}, nil
}

// AtRisk finds tickets showing risk signals without a breach yet.
// Defaults to unsolved tickets; candidates over-fetch to three times
// the limit because risk signals are rarer than breaches.
func (s *Service) AtRisk(ctx context.Context, opts AtRiskOptions) (*BreachReport, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	query := breachQuery(opts.Status, opts.Priority, "status<solved")

	set, err := s.source.SearchExport(ctx, query, search.ExportOptions{
		SortBy:     "updated_at",
		SortOrder:  "desc",
		MaxResults: opts.Limit * 3,
	})
	if err != nil {
		return nil, err
	}

	var flagged []FlaggedTicket
	for i := range set.Tickets {
		if len(flagged) >= opts.Limit {
			break
		}
		tk := set.Tickets[i]
		status, ok := s.evaluate(ctx, &tk)
		if !ok {
			continue
		}
		if status.Status != StatusAtRisk || status.HasBreaches {
			continue
		}
		flagged = append(flagged, FlaggedTicket{Ticket: tk, SLAStatus: status})
	}

	return &BreachReport{
		Tickets:        flagged,
		Count:          len(flagged),
		StatusFilter:   opts.Status,
		PriorityFilter: opts.Priority,
		Note:           "Tickets at risk of SLA breach. Each ticket includes sla_status with risk details.",
	}, nil
}

func (s *Service) evaluate(ctx context.Context, tk *ticket.Ticket) (*TicketStatus, bool) {
	events, err := s.source.TicketMetricEvents(ctx, tk.ID)
	if err != nil {
		s.logger.Warn("skipping candidate, metric events unavailable", "ticket_id", tk.ID, "error", err)
		return nil, false
	}
	return analyze(tk, events), true
}

func hasBreachOfType(breaches []Breach, breachType string) bool {
	for _, b := range breaches {
		if b.Metric == breachType {
			return true
		}
	}
	return false
}

// breachQuery builds the candidate query from optional status and
// priority filters, falling back to defaultStatus (when given) or the
// match-all query.
func breachQuery(status, priority, defaultStatus string) string {
	var parts []string
	switch {
	case status != "":
		parts = append(parts, "status:"+status)
	case defaultStatus != "":
		parts = append(parts, defaultStatus)
	}
	if priority != "" {
		parts = append(parts, "priority:"+priority)
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// EventBatch is one page of the bulk metric events stream.
type EventBatch struct {
	Events        []MetricEvent `json:"ticket_metric_events"`
	Count         int           `json:"count"`
	HasMore       bool          `json:"has_more"`
	NextStartTime *int64        `json:"next_start_time,omitempty"`
}

// BulkMetricEvents fetches metric events across all tickets changed
// since startTime, for account-wide SLA analysis.
func (s *Service) BulkMetricEvents(ctx context.Context, startTime int64, maxResults int) (*EventBatch, error) {
	events, hasMore, next, err := s.source.IncrementalMetricEvents(ctx, startTime, maxResults)
	if err != nil {
		return nil, err
	}
	return &EventBatch{
		Events:        events,
		Count:         len(events),
		HasMore:       hasMore,
		NextStartTime: next,
	}, nil
}

// Policies lists every policy configured upstream.
func (s *Service) Policies(ctx context.Context) (*PolicyList, error) {
	policies, err := s.source.SLAPolicies(ctx)
	if err != nil {
		return nil, err
	}
	return &PolicyList{Policies: policies, Count: len(policies)}, nil
}

// Policy fetches one policy by ID.
func (s *Service) Policy(ctx context.Context, id int64) (*Policy, error) {
	return s.source.SLAPolicy(ctx, id)
}
