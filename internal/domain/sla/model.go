// Package sla derives service-level health for tickets from the
// upstream's metric event stream. The upstream has no queryable breach
// flag; everything here is reconstructed from the event history.
package sla

import (
	"encoding/json"
	"time"

	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

// Overall health values, ordered by severity.
const (
	StatusOK       = "ok"
	StatusAtRisk   = "at_risk"
	StatusBreached = "breached"
)

// PolicyRef identifies the policy attached to an apply event.
type PolicyRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// MetricEvent is one entry in a ticket's metric event history. Status
// carries the upstream's free-form status payload on pause and update
// events; its shape varies per metric, so it stays untyped.
type MetricEvent struct {
	ID         int64      `json:"id"`
	TicketID   int64      `json:"ticket_id"`
	Metric     string     `json:"metric"`
	InstanceID int64      `json:"instance_id"`
	Type       string     `json:"type"`
	Time       time.Time  `json:"time"`
	Policy     *PolicyRef `json:"sla_policy,omitempty"`
	Status     any        `json:"status,omitempty"`
	Deleted    bool       `json:"deleted,omitempty"`
}

// Event types observed in the stream.
const (
	EventApply   = "apply_sla"
	EventFulfill = "fulfill"
	EventBreach  = "breach"
	EventPause   = "pause"
	EventResume  = "resume"
)

// AppliedPolicy records a policy application on the ticket's timeline.
type AppliedPolicy struct {
	PolicyID    int64     `json:"policy_id,omitempty"`
	PolicyTitle string    `json:"policy_title,omitempty"`
	AppliedAt   time.Time `json:"applied_at"`
}

// Breach is one terminal target miss. The policy fields reflect the
// policy in force at breach time, which may be empty when the apply
// event predates the retained history.
type Breach struct {
	Metric      string    `json:"metric"`
	InstanceID  int64     `json:"instance_id"`
	BreachedAt  time.Time `json:"breached_at"`
	PolicyID    int64     `json:"policy_id,omitempty"`
	PolicyTitle string    `json:"policy_title,omitempty"`
}

// RiskSignal is a pause event whose status payload mentions a breach,
// the upstream's only advance warning that a target is close.
type RiskSignal struct {
	Metric     string    `json:"metric"`
	InstanceID int64     `json:"instance_id"`
	Status     any       `json:"status"`
	Time       time.Time `json:"time"`
}

// TicketStatus is the full health report for one ticket.
type TicketStatus struct {
	TicketID     int64           `json:"ticket_id"`
	Status       string          `json:"status"`
	HasBreaches  bool            `json:"has_breaches"`
	BreachCount  int             `json:"breach_count"`
	Breaches     []Breach        `json:"breaches"`
	AtRisk       []RiskSignal    `json:"at_risk"`
	ActiveSLAs   []AppliedPolicy `json:"active_slas"`
	TicketStatus ticket.Status   `json:"ticket_status"`
	Priority     ticket.Priority `json:"priority,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PolicyMetric is one target row in a policy definition.
type PolicyMetric struct {
	Priority      string `json:"priority"`
	Metric        string `json:"metric"`
	Target        int    `json:"target"`
	BusinessHours bool   `json:"business_hours"`
}

// Policy is an SLA policy definition as configured upstream. Filter is
// the upstream's rule expression, passed through uninterpreted.
type Policy struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Position      int             `json:"position,omitempty"`
	Filter        json.RawMessage `json:"filter,omitempty"`
	PolicyMetrics []PolicyMetric  `json:"policy_metrics,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FlaggedTicket pairs a ticket with its health report in breach and
// at-risk listings.
type FlaggedTicket struct {
	ticket.Ticket
	SLAStatus *TicketStatus `json:"sla_status"`
}

// BreachReport is the result of a breach search.
type BreachReport struct {
	Tickets        []FlaggedTicket `json:"tickets"`
	Count          int             `json:"count"`
	BreachType     string          `json:"breach_type_filter,omitempty"`
	StatusFilter   string          `json:"status_filter,omitempty"`
	PriorityFilter string          `json:"priority_filter,omitempty"`
	Note           string          `json:"note"`
}
