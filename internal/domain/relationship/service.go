package relationship

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
)

const (
	// DuplicateThreshold is the inclusive similarity floor for duplicate
	// candidacy.
	DuplicateThreshold = 0.70

	// Fixed relevance scores for the non-similarity strategies.
	sameRequesterScore    = 0.8
	sameOrganizationScore = 0.6

	// maxThreadHops bounds the upward via_id walk. Follow-up chains
	// deeper than this are malformed data.
	maxThreadHops = 10
)

// Service handles relationship discovery business logic.
type Service struct {
	source TicketSource
	logger *slog.Logger
}

// NewService creates a new relationship service.
func NewService(source TicketSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// FindRelated discovers tickets related to the reference by subject
// similarity, shared requester, or shared organization. Failure to
// fetch the reference is terminal; failure of an individual search
// strategy degrades to a partial result with the failure recorded in
// the strategy notes.
func (s *Service) FindRelated(ctx context.Context, ticketID int64, limit int) (*RelatedReport, error) {
	if limit <= 0 {
		limit = 100
	}
	ref, err := s.source.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var (
		related    []RelatedTicket
		strategies []string
	)
	seen := map[int64]struct{}{ticketID: {}}

	if terms := search.ExtractSearchTerms(ref.Subject); terms != "" {
		set, err := s.source.SearchExport(ctx, fmt.Sprintf("subject:%q", terms),
			search.ExportOptions{MaxResults: limit})
		if err != nil {
			s.logger.Warn("subject strategy failed", "ticket_id", ticketID, "error", err)
			strategies = append(strategies, "Subject search failed: "+err.Error())
		} else {
			for _, tk := range set.Tickets {
				if _, dup := seen[tk.ID]; dup {
					continue
				}
				seen[tk.ID] = struct{}{}
				related = append(related, RelatedTicket{
					Ticket: tk,
					Reason: "similar_subject",
					Score:  search.Similarity(ref.Subject, tk.Subject),
				})
			}
			if len(set.Tickets) > 0 {
				strategies = append(strategies,
					fmt.Sprintf("Found %d tickets with similar subjects", len(set.Tickets)))
			}
		}
	}

	if ref.RequesterID != 0 {
		set, err := s.source.SearchExport(ctx, fmt.Sprintf("requester_id:%d", ref.RequesterID),
			search.ExportOptions{MaxResults: limit})
		if err != nil {
			s.logger.Warn("requester strategy failed", "ticket_id", ticketID, "error", err)
			strategies = append(strategies, "Requester search failed: "+err.Error())
		} else {
			for _, tk := range set.Tickets {
				if _, dup := seen[tk.ID]; dup {
					continue
				}
				seen[tk.ID] = struct{}{}
				related = append(related, RelatedTicket{
					Ticket: tk,
					Reason: "same_requester",
					Score:  sameRequesterScore,
				})
			}
			if len(set.Tickets) > 0 {
				strategies = append(strategies,
					fmt.Sprintf("Found %d tickets from same requester", len(set.Tickets)))
			}
		}
	}

	if ref.OrganizationID != nil {
		set, err := s.source.SearchExport(ctx, fmt.Sprintf("organization_id:%d", *ref.OrganizationID),
			search.ExportOptions{MaxResults: limit})
		if err != nil {
			s.logger.Warn("organization strategy failed", "ticket_id", ticketID, "error", err)
			strategies = append(strategies, "Organization search failed: "+err.Error())
		} else {
			for _, tk := range set.Tickets {
				if _, dup := seen[tk.ID]; dup {
					continue
				}
				seen[tk.ID] = struct{}{}
				related = append(related, RelatedTicket{
					Ticket: tk,
					Reason: "same_organization",
					Score:  sameOrganizationScore,
				})
			}
			if len(set.Tickets) > 0 {
				strategies = append(strategies,
					fmt.Sprintf("Found %d tickets from same organization", len(set.Tickets)))
			}
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		if related[i].Score != related[j].Score {
			return related[i].Score > related[j].Score
		}
		return related[i].UpdatedAt.After(related[j].UpdatedAt)
	})
	if len(related) > limit {
		related = related[:limit]
	}

	strategy := "No search strategies executed"
	if len(strategies) > 0 {
		strategy = strings.Join(strategies, "; ")
	}

	return &RelatedReport{
		Related:   related,
		Count:     len(related),
		Reference: reference(ref),
		Strategy:  strategy,
	}, nil
}

// FindDuplicates identifies probable duplicates of the reference:
// subject similarity at or above the threshold, or an exact subject
// match which scores 1.0. Either way the candidate must share the
// reference's requester or organization. Candidates sort by score
// descending, then creation date ascending so the oldest duplicate
// surfaces first.
func (s *Service) FindDuplicates(ctx context.Context, ticketID int64, limit int) (*DuplicateReport, error) {
	if limit <= 0 {
		limit = 100
	}
	ref, err := s.source.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var candidates []DuplicateCandidate
	seen := map[int64]struct{}{ticketID: {}}

	if terms := search.ExtractSearchTerms(ref.Subject); terms != "" {
		set, err := s.source.SearchExport(ctx, fmt.Sprintf("subject:%q", terms),
			search.ExportOptions{MaxResults: limit * 2})
		if err != nil {
			s.logger.Warn("duplicate similarity search failed", "ticket_id", ticketID, "error", err)
		} else {
			for _, tk := range set.Tickets {
				if _, dup := seen[tk.ID]; dup {
					continue
				}
				score := search.Similarity(ref.Subject, tk.Subject)
				if score < DuplicateThreshold {
					continue
				}
				sameRequester, sameOrg := sharedParty(ref, &tk)
				if !sameRequester && !sameOrg {
					continue
				}

				reason := "similar_subject"
				if sameRequester {
					reason += "_same_requester"
				}
				if sameOrg {
					reason += "_same_organization"
				}
				seen[tk.ID] = struct{}{}
				candidates = append(candidates, DuplicateCandidate{
					Ticket: tk,
					Score:  score,
					Reason: reason,
				})
			}
		}
	}

	if ref.Subject != "" {
		set, err := s.source.SearchExport(ctx, fmt.Sprintf("subject:%q", ref.Subject),
			search.ExportOptions{MaxResults: limit})
		if err != nil {
			s.logger.Warn("duplicate exact-subject search failed", "ticket_id", ticketID, "error", err)
		} else {
			for _, tk := range set.Tickets {
				if _, dup := seen[tk.ID]; dup {
					continue
				}
				if sameRequester, sameOrg := sharedParty(ref, &tk); !sameRequester && !sameOrg {
					continue
				}
				seen[tk.ID] = struct{}{}
				candidates = append(candidates, DuplicateCandidate{
					Ticket: tk,
					Score:  1.0,
					Reason: "exact_subject_match",
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return &DuplicateReport{
		Candidates: candidates,
		Count:      len(candidates),
		Reference:  reference(ref),
		Threshold:  DuplicateThreshold,
	}, nil
}

// sharedParty reports whether a candidate shares the reference's
// requester or organization. Organization matches require both sides to
// carry one.
func sharedParty(ref, tk *ticket.Ticket) (sameRequester, sameOrg bool) {
	sameRequester = tk.RequesterID != 0 && tk.RequesterID == ref.RequesterID
	sameOrg = tk.OrganizationID != nil && ref.OrganizationID != nil &&
		*tk.OrganizationID == *ref.OrganizationID
	return sameRequester, sameOrg
}

func reference(ref *ticket.Ticket) Reference {
	return Reference{
		ID:             ref.ID,
		Subject:        ref.Subject,
		RequesterID:    ref.RequesterID,
		OrganizationID: ref.OrganizationID,
	}
}
