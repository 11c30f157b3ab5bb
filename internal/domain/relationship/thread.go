package relationship

import (
	"context"
	"fmt"
	"sort"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

// Thread reconstructs the conversation chain around a ticket. The walk
// follows via_id upward until a ticket without a parent is reached,
// with a cycle guard and a hop bound against malformed link data, then
// collects children and siblings by search. Members are returned in
// chronological order.
func (s *Service) Thread(ctx context.Context, ticketID int64) (*Thread, error) {
	ref, err := s.source.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var notes []string
	ancestors, walkNotes := s.walkAncestors(ctx, ref)
	notes = append(notes, walkNotes...)

	// The reference is a child once its link resolves to a parent; it
	// stays a plain reference only when standalone or the parent is
	// unreachable.
	refRole := RoleReference
	if len(ancestors) > 0 {
		refRole = RoleChild
	}
	members := []Member{member(ref, refRole)}
	seen := map[int64]struct{}{ref.ID: {}}

	var root *Member
	for i, ancestor := range ancestors {
		role := RoleParent
		if i == len(ancestors)-1 {
			role = RoleRoot
		}
		m := member(&ancestor, role)
		if role == RoleRoot {
			root = &m
		}
		members = append(members, m)
		seen[ancestor.ID] = struct{}{}
	}

	children, err := s.searchMembers(ctx, fmt.Sprintf("via_id:%d", ticketID), RoleChild, seen)
	if err != nil {
		s.logger.Warn("child search failed", "ticket_id", ticketID, "error", err)
		notes = append(notes, "Child search failed: "+err.Error())
	}
	members = append(members, children...)

	if ref.ViaID != nil {
		siblings, err := s.searchMembers(ctx,
			fmt.Sprintf("via_id:%d -id:%d", *ref.ViaID, ticketID), RoleSibling, seen)
		if err != nil {
			s.logger.Warn("sibling search failed", "ticket_id", ticketID, "error", err)
			notes = append(notes, "Sibling search failed: "+err.Error())
		}
		members = append(members, siblings...)
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})

	structure := "Single ticket"
	if len(members) > 1 {
		if root != nil {
			structure = fmt.Sprintf("Thread with %d tickets (parent + children)", len(members))
		} else {
			structure = fmt.Sprintf("Thread with %d tickets (children only)", len(members))
		}
	}

	return &Thread{
		Members:           members,
		Count:             len(members),
		Root:              root,
		Structure:         structure,
		ReferenceTicketID: ticketID,
		Notes:             notes,
	}, nil
}

// Relationships reports the one-hop family of a ticket: its parent,
// its children, and siblings sharing the same parent.
func (s *Service) Relationships(ctx context.Context, ticketID int64) (*Relationships, error) {
	ref, err := s.source.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var (
		parent *Member
		notes  []string
	)
	seen := map[int64]struct{}{ticketID: {}}

	if ref.ViaID != nil {
		parentTicket, err := s.source.GetTicket(ctx, *ref.ViaID)
		if err != nil {
			s.logger.Warn("parent fetch failed", "ticket_id", ticketID, "parent_id", *ref.ViaID, "error", err)
			notes = append(notes, fmt.Sprintf("Parent ticket %d not accessible: %v", *ref.ViaID, err))
		} else {
			m := member(parentTicket, RoleParent)
			parent = &m
			seen[parentTicket.ID] = struct{}{}
		}
	}

	children, err := s.searchMembers(ctx, fmt.Sprintf("via_id:%d", ticketID), RoleChild, seen)
	if err != nil {
		s.logger.Warn("child search failed", "ticket_id", ticketID, "error", err)
		notes = append(notes, "Child search failed: "+err.Error())
	}

	var siblings []Member
	if ref.ViaID != nil {
		siblings, err = s.searchMembers(ctx,
			fmt.Sprintf("via_id:%d -id:%d", *ref.ViaID, ticketID), RoleSibling, seen)
		if err != nil {
			s.logger.Warn("sibling search failed", "ticket_id", ticketID, "error", err)
			notes = append(notes, "Sibling search failed: "+err.Error())
		}
	}

	kind := "Standalone ticket"
	switch {
	case parent != nil && len(children) > 0:
		kind = "Middle ticket in chain (has parent and children)"
	case parent != nil:
		kind = "Child ticket (has parent)"
	case len(children) > 0:
		kind = "Parent ticket (has children)"
	case len(siblings) > 0:
		kind = "Sibling ticket (shares parent with other tickets)"
	}

	total := len(children) + len(siblings)
	if parent != nil {
		total++
	}

	return &Relationships{
		Parent:            parent,
		Children:          children,
		Siblings:          siblings,
		Kind:              kind,
		ReferenceTicketID: ticketID,
		TotalRelated:      total,
		Notes:             notes,
	}, nil
}

// walkAncestors follows via_id upward from the reference, nearest
// parent first. The walk stops at a missing parent, a cycle, or the
// hop bound; each early stop is recorded as a note.
func (s *Service) walkAncestors(ctx context.Context, ref *ticket.Ticket) ([]ticket.Ticket, []string) {
	var (
		ancestors []ticket.Ticket
		notes     []string
	)
	visited := map[int64]struct{}{ref.ID: {}}
	current := ref

	for hops := 0; current.ViaID != nil; hops++ {
		if hops == maxThreadHops {
			notes = append(notes, fmt.Sprintf("Ancestor walk stopped after %d hops", maxThreadHops))
			break
		}
		parentID := *current.ViaID
		if _, cycle := visited[parentID]; cycle {
			notes = append(notes, fmt.Sprintf("Link cycle detected at ticket %d", parentID))
			break
		}
		parent, err := s.source.GetTicket(ctx, parentID)
		if err != nil {
			notes = append(notes, fmt.Sprintf("Parent ticket %d not accessible: %v", parentID, err))
			break
		}
		visited[parentID] = struct{}{}
		ancestors = append(ancestors, *parent)
		current = parent
	}
	return ancestors, notes
}

func (s *Service) searchMembers(ctx context.Context, query string, role Role, seen map[int64]struct{}) ([]Member, error) {
	set, err := s.source.SearchExport(ctx, query, search.ExportOptions{})
	if err != nil {
		return nil, err
	}
	var members []Member
	for i := range set.Tickets {
		tk := &set.Tickets[i]
		if _, dup := seen[tk.ID]; dup {
			continue
		}
		seen[tk.ID] = struct{}{}
		members = append(members, member(tk, role))
	}
	return members, nil
}

func member(t *ticket.Ticket, role Role) Member {
	return Member{
		ID:          t.ID,
		Subject:     t.Subject,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		RequesterID: t.RequesterID,
		AssigneeID:  t.AssigneeID,
		Role:        role,
	}
}
