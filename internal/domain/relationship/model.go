// Package relationship discovers connections between tickets: explicit
// follow-up links carried in via_id, and implicit links inferred from
// subject similarity and shared requester or organization.
package relationship

import (
	"time"

	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

// Role tags a ticket's position relative to the reference ticket.
type Role string

const (
	RoleRoot      Role = "root"
	RoleParent    Role = "parent"
	RoleChild     Role = "child"
	RoleSibling   Role = "sibling"
	RoleReference Role = "reference"
)

// Member is one ticket in a thread or relationship listing, reduced to
// the fields useful for navigation.
type Member struct {
	ID          int64         `json:"id"`
	Subject     string        `json:"subject"`
	Status      ticket.Status `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	RequesterID int64         `json:"requester_id"`
	AssigneeID  *int64        `json:"assignee_id,omitempty"`
	Role        Role          `json:"relationship"`
}

// Thread is a reconstructed conversation chain.
type Thread struct {
	Members           []Member `json:"thread_tickets"`
	Count             int      `json:"count"`
	Root              *Member  `json:"thread_root,omitempty"`
	Structure         string   `json:"thread_structure"`
	ReferenceTicketID int64    `json:"reference_ticket_id"`
	Notes             []string `json:"notes,omitempty"`
}

// Relationships is the one-hop family of a ticket.
type Relationships struct {
	Parent            *Member  `json:"parent_ticket,omitempty"`
	Children          []Member `json:"child_tickets"`
	Siblings          []Member `json:"sibling_tickets"`
	Kind              string   `json:"relationship_type"`
	ReferenceTicketID int64    `json:"reference_ticket_id"`
	TotalRelated      int      `json:"total_related"`
	Notes             []string `json:"notes,omitempty"`
}

// Reference summarizes the ticket the discovery ran against.
type Reference struct {
	ID             int64  `json:"id"`
	Subject        string `json:"subject"`
	RequesterID    int64  `json:"requester_id"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
}

// RelatedTicket is a discovery hit with its relevance attribution.
type RelatedTicket struct {
	ticket.Ticket
	Score  float64 `json:"relevance_score"`
	Reason string  `json:"relevance_reason"`
}

// RelatedReport is the result of a related-ticket discovery run.
type RelatedReport struct {
	Related   []RelatedTicket `json:"related_tickets"`
	Count     int             `json:"count"`
	Reference Reference       `json:"reference_ticket"`
	Strategy  string          `json:"search_strategy"`
}

// DuplicateCandidate is a probable duplicate with its similarity
// attribution.
type DuplicateCandidate struct {
	ticket.Ticket
	Score  float64 `json:"similarity_score"`
	Reason string  `json:"duplicate_reason"`
}

// DuplicateReport is the result of a duplicate detection run.
type DuplicateReport struct {
	Candidates []DuplicateCandidate `json:"duplicate_candidates"`
	Count      int                  `json:"count"`
	Reference  Reference            `json:"reference_ticket"`
	Threshold  float64              `json:"similarity_threshold"`
}
