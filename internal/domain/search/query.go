package search

import (
	"fmt"
	"sort"
	"strings"
)

// TagLogic selects how included tags combine.
type TagLogic string

const (
	// TagLogicOR matches tickets carrying any of the included tags.
	TagLogicOR TagLogic = "OR"
	// TagLogicAND matches tickets carrying every included tag.
	TagLogicAND TagLogic = "AND"
)

// QuerySpec is a structured filter specification translated into the
// upstream's native query grammar. All predicates are optional; absent
// fields are simply omitted from the generated query.
type QuerySpec struct {
	Status       string         `json:"status,omitempty"`
	Priority     string         `json:"priority,omitempty"`
	Assignee     string         `json:"assignee,omitempty"`
	Requester    string         `json:"requester,omitempty"`
	Organization string         `json:"organization,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	TagLogic     TagLogic       `json:"tags_logic,omitempty"`
	ExcludeTags  []string       `json:"exclude_tags,omitempty"`
	CreatedAfter string         `json:"created_after,omitempty"`
	CreatedBefore string        `json:"created_before,omitempty"`
	UpdatedAfter string         `json:"updated_after,omitempty"`
	UpdatedBefore string        `json:"updated_before,omitempty"`
	SolvedAfter  string         `json:"solved_after,omitempty"`
	SolvedBefore string         `json:"solved_before,omitempty"`
	DueAfter     string         `json:"due_after,omitempty"`
	DueBefore    string         `json:"due_before,omitempty"`
	CustomFields map[int64]any  `json:"custom_fields,omitempty"`
	SubjectContains     string  `json:"subject_contains,omitempty"`
	DescriptionContains string  `json:"description_contains,omitempty"`
	CommentContains     string  `json:"comment_contains,omitempty"`
}

// BuildQuery translates a structured spec into a native query string.
// It is a pure function: equal specs always yield identical strings.
// Custom fields are emitted in ascending field-ID order to keep the
// output deterministic.
func BuildQuery(spec QuerySpec) string {
	var parts []string

	if spec.Status != "" {
		parts = append(parts, "status:"+spec.Status)
	}
	if spec.Priority != "" {
		parts = append(parts, "priority:"+spec.Priority)
	}
	if spec.Assignee != "" {
		if strings.EqualFold(spec.Assignee, "none") {
			parts = append(parts, "assignee:none")
		} else {
			parts = append(parts, "assignee:"+spec.Assignee)
		}
	}
	if spec.Requester != "" {
		parts = append(parts, "requester:"+spec.Requester)
	}
	if spec.Organization != "" {
		parts = append(parts, fmt.Sprintf("organization:%q", spec.Organization))
	}

	if len(spec.Tags) > 0 {
		if spec.TagLogic == TagLogicAND {
			for _, tag := range spec.Tags {
				parts = append(parts, "tags:"+tag)
			}
		} else {
			terms := make([]string, 0, len(spec.Tags))
			for _, tag := range spec.Tags {
				terms = append(terms, "tags:"+tag)
			}
			parts = append(parts, strings.Join(terms, " "))
		}
	}
	// Exclusions are negated regardless of the include logic's mode.
	for _, tag := range spec.ExcludeTags {
		parts = append(parts, "-tags:"+tag)
	}

	parts = appendRange(parts, "created", spec.CreatedAfter, spec.CreatedBefore)
	parts = appendRange(parts, "updated", spec.UpdatedAfter, spec.UpdatedBefore)
	parts = appendRange(parts, "solved", spec.SolvedAfter, spec.SolvedBefore)
	parts = appendRange(parts, "due", spec.DueAfter, spec.DueBefore)

	if len(spec.CustomFields) > 0 {
		ids := make([]int64, 0, len(spec.CustomFields))
		for id := range spec.CustomFields {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			value := fmt.Sprintf("%v", spec.CustomFields[id])
			if strings.ContainsAny(value, " \t") {
				parts = append(parts, fmt.Sprintf("custom_field_%d:%q", id, value))
			} else {
				parts = append(parts, fmt.Sprintf("custom_field_%d:%s", id, value))
			}
		}
	}

	if spec.SubjectContains != "" {
		parts = append(parts, fmt.Sprintf("subject:%q", spec.SubjectContains))
	}
	if spec.DescriptionContains != "" {
		parts = append(parts, fmt.Sprintf("description:%q", spec.DescriptionContains))
	}
	if spec.CommentContains != "" {
		parts = append(parts, fmt.Sprintf("comment:%q", spec.CommentContains))
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func appendRange(parts []string, field, after, before string) []string {
	if after != "" {
		parts = append(parts, fmt.Sprintf("%s>=%s", field, after))
	}
	if before != "" {
		parts = append(parts, fmt.Sprintf("%s<=%s", field, before))
	}
	return parts
}

// BuiltQuery is the payload returned to callers of the query builder
// tool: the generated query plus usage examples.
type BuiltQuery struct {
	Query    string    `json:"query"`
	Examples []string  `json:"examples"`
	Spec     QuerySpec `json:"parameters_used"`
}

// Build wraps BuildQuery with the example catalog the tool surface
// exposes.
func Build(spec QuerySpec) BuiltQuery {
	query := BuildQuery(spec)
	examples := []string{}
	if query != "*" {
		examples = append(examples, "Generated query: "+query)
	}
	examples = append(examples,
		"status:open priority:high",
		"tags:bug tags:urgent",
		"assignee:none created>=2024-01-01",
		`organization:"Acme Corp" -tags:spam`,
		`subject:"login" description:"password"`,
	)
	return BuiltQuery{Query: query, Examples: examples, Spec: spec}
}
