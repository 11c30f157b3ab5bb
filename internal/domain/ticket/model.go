// Package ticket defines the read-side model for upstream support
// tickets. Tickets are created externally; this server only reads them
// and derives views over them.
package ticket

import (
	"encoding/json"
	"time"
)

// Status represents the workflow state of a ticket.
type Status string

const (
	StatusNew     Status = "new"
	StatusOpen    Status = "open"
	StatusPending Status = "pending"
	StatusHold    Status = "hold"
	StatusSolved  Status = "solved"
	StatusClosed  Status = "closed"
)

// Priority represents ticket urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// statusRank orders statuses for client-side sorting: new > open >
// pending > hold > solved > closed.
var statusRank = map[Status]int{
	StatusNew:     6,
	StatusOpen:    5,
	StatusPending: 4,
	StatusHold:    3,
	StatusSolved:  2,
	StatusClosed:  1,
}

// priorityRank orders priorities: urgent > high > normal > low.
var priorityRank = map[Priority]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityNormal: 2,
	PriorityLow:    1,
}

// Rank returns the sort rank of a status; unknown statuses rank lowest.
func (s Status) Rank() int { return statusRank[s] }

// Rank returns the sort rank of a priority; unknown priorities rank lowest.
func (p Priority) Rank() int { return priorityRank[p] }

// CustomField is one entry of a ticket's custom-field map.
type CustomField struct {
	ID    int64 `json:"id"`
	Value any   `json:"value"`
}

// Via describes how a ticket was created.
type Via struct {
	Channel string `json:"channel,omitempty"`
	Source  any    `json:"source,omitempty"`
}

// Metrics carries the upstream timing measurements for a ticket. All
// values are in seconds; nil means the upstream has not recorded that
// measurement yet.
type Metrics struct {
	ReplyTime           *int64 `json:"reply_time_in_seconds,omitempty"`
	FirstResolutionTime *int64 `json:"first_resolution_time_in_seconds,omitempty"`
	FullResolutionTime  *int64 `json:"full_resolution_time_in_seconds,omitempty"`
	AgentWaitTime       *int64 `json:"agent_wait_time_in_seconds,omitempty"`
	RequesterWaitTime   *int64 `json:"requester_wait_time_in_seconds,omitempty"`
	OnHoldTime          *int64 `json:"on_hold_time_in_seconds,omitempty"`
}

// Satisfaction is an optional CSAT rating on a ticket.
type Satisfaction struct {
	Score   string `json:"score,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Ticket is a support case as exposed by the upstream service.
// ViaID is the upstream's single-field link mechanism: an optional
// back-reference to the causally-related ticket this one was created
// from (follow-up tickets).
type Ticket struct {
	ID             int64         `json:"id"`
	Subject        string        `json:"subject"`
	Description    string        `json:"description,omitempty"`
	Status         Status        `json:"status"`
	Priority       Priority      `json:"priority,omitempty"`
	Type           string        `json:"type,omitempty"`
	RequesterID    int64         `json:"requester_id"`
	AssigneeID     *int64        `json:"assignee_id,omitempty"`
	OrganizationID *int64        `json:"organization_id,omitempty"`
	GroupID        *int64        `json:"group_id,omitempty"`
	FormID         *int64        `json:"ticket_form_id,omitempty"`
	ViaID          *int64        `json:"via_id,omitempty"`
	Via            *Via          `json:"via,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	CustomFields   []CustomField `json:"custom_fields,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	SolvedAt       *time.Time    `json:"solved_at,omitempty"`
	Metrics        *Metrics      `json:"metrics,omitempty"`
	Satisfaction   *Satisfaction `json:"satisfaction_rating,omitempty"`
}

// Channel returns the creation channel, empty when unknown.
func (t *Ticket) Channel() string {
	if t.Via == nil {
		return ""
	}
	return t.Via.Channel
}

// HasTag reports whether the ticket carries the given tag.
func (t *Ticket) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// Event is one audit entry from the incremental ticket events stream.
// Child events vary widely per event type and stay raw.
type Event struct {
	ID          int64             `json:"id"`
	TicketID    int64             `json:"ticket_id"`
	Timestamp   int64             `json:"timestamp"`
	UpdaterID   *int64            `json:"updater_id,omitempty"`
	Via         string            `json:"via,omitempty"`
	ChildEvents []json.RawMessage `json:"child_events,omitempty"`
}

// Comment is a single public or private comment on a ticket.
type Comment struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}
