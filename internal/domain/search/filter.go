package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// DefaultFuzzyThreshold is the inclusive similarity floor applied when
// the caller does not supply one.
const DefaultFuzzyThreshold = 0.7

// DefaultProximityDistance is the maximum word distance applied when
// the caller does not supply one.
const DefaultProximityDistance = 5

// defaultFilterFields are the text fields inspected when the caller
// does not restrict the filter to specific fields.
var defaultFilterFields = []string{"subject", "description"}

// FilterOptions configures the client-side ranking and filter engine.
// All filters are optional and independent; when several are supplied
// they compose as a logical AND on pass/fail.
type FilterOptions struct {
	RegexPattern      string
	FuzzyTerm         string
	FuzzyThreshold    float64
	ProximityTerms    []string
	ProximityDistance int
	Fields            []string
}

// Annotate applies the configured filters to a retrieved ticket set and
// attaches match annotations. Validation failures (malformed regex,
// out-of-range threshold) are reported before any matching runs.
func Annotate(tickets []ticket.Ticket, opts FilterOptions) ([]Match, error) {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = defaultFilterFields
	}

	var pattern *regexp.Regexp
	if opts.RegexPattern != "" {
		compiled, err := regexp.Compile("(?i)" + opts.RegexPattern)
		if err != nil {
			return nil, errs.Validation("regex_pattern", "invalid regex pattern: %v", err)
		}
		pattern = compiled
	}

	threshold := opts.FuzzyThreshold
	if opts.FuzzyTerm != "" {
		if threshold == 0 {
			threshold = DefaultFuzzyThreshold
		}
		if threshold < 0 || threshold > 1 {
			return nil, errs.Validation("fuzzy_threshold", "must be between 0.0 and 1.0, got %v", threshold)
		}
	}

	distance := opts.ProximityDistance
	if len(opts.ProximityTerms) > 0 {
		if len(opts.ProximityTerms) < 2 {
			return nil, errs.Validation("proximity_terms", "at least two terms required")
		}
		if distance == 0 {
			distance = DefaultProximityDistance
		}
		if distance < 1 {
			return nil, errs.Validation("proximity_distance", "must be at least 1, got %d", distance)
		}
	}

	matches := make([]Match, 0, len(tickets))
	for _, tk := range tickets {
		match := Match{Ticket: tk, Score: 1.0}
		var reasons []string

		if pattern != nil {
			field, ok := regexMatch(&tk, pattern, fields)
			if !ok {
				continue
			}
			match.Field = field
			reasons = append(reasons, "regex:"+opts.RegexPattern)
		}

		if opts.FuzzyTerm != "" {
			score, field := fuzzyScore(&tk, opts.FuzzyTerm, fields)
			if score < threshold {
				continue
			}
			if score < match.Score {
				match.Score = score
			}
			match.Field = field
			reasons = append(reasons, fmt.Sprintf("fuzzy:%s", opts.FuzzyTerm))
		}

		if len(opts.ProximityTerms) >= 2 {
			span, field, ok := proximityMatch(&tk, opts.ProximityTerms, distance, fields)
			if !ok {
				continue
			}
			match.Span = span
			match.Field = field
			reasons = append(reasons, fmt.Sprintf("proximity:%s", strings.Join(opts.ProximityTerms, ",")))
		}

		match.Reason = strings.Join(reasons, "; ")
		matches = append(matches, match)
	}

	switch {
	case opts.FuzzyTerm != "":
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	case len(opts.ProximityTerms) >= 2:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Span < matches[j].Span })
	}

	return matches, nil
}

// fieldText resolves a filterable text field by name.
func fieldText(tk *ticket.Ticket, field string) string {
	switch field {
	case "subject":
		return tk.Subject
	case "description":
		return tk.Description
	default:
		return ""
	}
}

func regexMatch(tk *ticket.Ticket, pattern *regexp.Regexp, fields []string) (string, bool) {
	for _, field := range fields {
		if text := fieldText(tk, field); text != "" && pattern.MatchString(text) {
			return field, true
		}
	}
	return "", false
}

func fuzzyScore(tk *ticket.Ticket, term string, fields []string) (float64, string) {
	best := 0.0
	bestField := ""
	for _, field := range fields {
		text := fieldText(tk, field)
		if text == "" {
			continue
		}
		if score := Similarity(term, text); score > best {
			best = score
			bestField = field
		}
	}
	return best, bestField
}

// proximityMatch reports whether a single field contains one occurrence
// of every term with the whole set mutually within the distance bound,
// that is, the maximum pairwise word distance over the chosen
// occurrences does not exceed it. The reported span is the width of the
// tightest such window.
func proximityMatch(tk *ticket.Ticket, terms []string, maxDistance int, fields []string) (int, string, bool) {
	type occurrence struct {
		pos  int
		term int
	}

	for _, field := range fields {
		text := fieldText(tk, field)
		if text == "" {
			continue
		}
		words := strings.Fields(strings.ToLower(text))

		var occurrences []occurrence
		found := make([]bool, len(terms))
		for i, term := range terms {
			lower := strings.ToLower(term)
			for idx, word := range words {
				// Substring containment in either direction allows
				// partial matches like "time-outs" vs "timeout".
				if strings.Contains(word, lower) || strings.Contains(lower, word) {
					occurrences = append(occurrences, occurrence{pos: idx, term: i})
					found[i] = true
				}
			}
		}
		allFound := true
		for _, ok := range found {
			if !ok {
				allFound = false
				break
			}
		}
		if !allFound {
			continue
		}
		sort.Slice(occurrences, func(i, j int) bool { return occurrences[i].pos < occurrences[j].pos })

		// Slide a window across the merged occurrences. A window that
		// covers every term has its maximum pairwise distance equal to
		// the window span, so the tightest covering window decides.
		minSpan := -1
		counts := make([]int, len(terms))
		covered := 0
		left := 0
		for right := range occurrences {
			if counts[occurrences[right].term] == 0 {
				covered++
			}
			counts[occurrences[right].term]++
			for covered == len(terms) {
				span := occurrences[right].pos - occurrences[left].pos
				if minSpan == -1 || span < minSpan {
					minSpan = span
				}
				counts[occurrences[left].term]--
				if counts[occurrences[left].term] == 0 {
					covered--
				}
				left++
			}
		}
		if minSpan >= 0 && minSpan <= maxDistance {
			return minSpan, field, true
		}
	}
	return 0, "", false
}

// SortTickets applies a stable client-side sort to a retrieved ticket
// set. Ties preserve the original retrieval order. Order defaults to
// descending when unspecified, matching the upstream's native sort
// behavior.
func SortTickets(tickets []ticket.Ticket, sortBy, sortOrder string) {
	if sortBy == "" || len(tickets) < 2 {
		return
	}
	descending := sortOrder != "asc"

	less := func(a, b *ticket.Ticket) bool {
		switch sortBy {
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "priority":
			return a.Priority.Rank() < b.Priority.Rank()
		case "status":
			return a.Status.Rank() < b.Status.Rank()
		case "id":
			return a.ID < b.ID
		default:
			return a.Subject < b.Subject
		}
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		if descending {
			return less(&tickets[j], &tickets[i])
		}
		return less(&tickets[i], &tickets[j])
	})
}
