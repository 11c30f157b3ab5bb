package mcp

type GetTicketParams struct {
	TicketID int64 `json:"ticket_id"`
}

type GetTicketsParams struct {
	TicketIDs []int64 `json:"ticket_ids"`
}

type GetTicketCommentsParams struct {
	TicketID int64 `json:"ticket_id"`
}

type SearchTicketsParams struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}

type SearchTicketsExportParams struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	SortBy     string `json:"sort_by,omitempty"`
	SortOrder  string `json:"sort_order,omitempty"`
}

type SearchTicketsEnhancedParams struct {
	Query             string   `json:"query"`
	RegexPattern      string   `json:"regex_pattern,omitempty"`
	FuzzyTerm         string   `json:"fuzzy_term,omitempty"`
	FuzzyThreshold    float64  `json:"fuzzy_threshold,omitempty"`
	ProximityTerms    []string `json:"proximity_terms,omitempty"`
	ProximityDistance int      `json:"proximity_distance,omitempty"`
	Fields            []string `json:"search_fields,omitempty"`
	SortBy            string   `json:"sort_by,omitempty"`
	SortOrder         string   `json:"sort_order,omitempty"`
	Limit             int      `json:"limit,omitempty"`
}

type BuildSearchQueryParams struct {
	Status              string         `json:"status,omitempty"`
	Priority            string         `json:"priority,omitempty"`
	Assignee            string         `json:"assignee,omitempty"`
	Requester           string         `json:"requester,omitempty"`
	Organization        string         `json:"organization,omitempty"`
	Tags                []string       `json:"tags,omitempty"`
	TagsLogic           string         `json:"tags_logic,omitempty"`
	ExcludeTags         []string       `json:"exclude_tags,omitempty"`
	CreatedAfter        string         `json:"created_after,omitempty"`
	CreatedBefore       string         `json:"created_before,omitempty"`
	UpdatedAfter        string         `json:"updated_after,omitempty"`
	UpdatedBefore       string         `json:"updated_before,omitempty"`
	SolvedAfter         string         `json:"solved_after,omitempty"`
	SolvedBefore        string         `json:"solved_before,omitempty"`
	DueAfter            string         `json:"due_after,omitempty"`
	DueBefore           string         `json:"due_before,omitempty"`
	CustomFields        map[string]any `json:"custom_fields,omitempty"`
	SubjectContains     string         `json:"subject_contains,omitempty"`
	DescriptionContains string         `json:"description_contains,omitempty"`
	CommentContains     string         `json:"comment_contains,omitempty"`
}

type BatchSearchTicketsParams struct {
	Queries       []string `json:"queries"`
	Deduplicate   bool     `json:"deduplicate"`
	SortBy        string   `json:"sort_by,omitempty"`
	SortOrder     string   `json:"sort_order,omitempty"`
	LimitPerQuery int      `json:"limit_per_query,omitempty"`
}

type SearchByDateRangeParams struct {
	DateField      string `json:"date_field,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	RelativePeriod string `json:"relative_period,omitempty"`
	SortBy         string `json:"sort_by,omitempty"`
	SortOrder      string `json:"sort_order,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

type SearchByTagsParams struct {
	Tags        []string `json:"tags"`
	Logic       string   `json:"logic,omitempty"`
	ExcludeTags []string `json:"exclude_tags,omitempty"`
	SortBy      string   `json:"sort_by,omitempty"`
	SortOrder   string   `json:"sort_order,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

type SearchBySourceParams struct {
	Channel   string `json:"channel"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type SearchStatisticsParams struct {
	Query     string `json:"query"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type CaseVolumeParams struct {
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	TimeBucket     string   `json:"time_bucket,omitempty"`
	FilterStatus   []string `json:"filter_status,omitempty"`
	FilterPriority []string `json:"filter_priority,omitempty"`
	FilterTags     []string `json:"filter_tags,omitempty"`
}

type FindRelatedTicketsParams struct {
	TicketID int64 `json:"ticket_id"`
	Limit    int   `json:"limit,omitempty"`
}

type FindDuplicateTicketsParams struct {
	TicketID int64 `json:"ticket_id"`
	Limit    int   `json:"limit,omitempty"`
}

type TicketThreadParams struct {
	TicketID int64 `json:"ticket_id"`
}

type TicketRelationshipsParams struct {
	TicketID int64 `json:"ticket_id"`
}

type SLAPolicyParams struct {
	PolicyID int64 `json:"policy_id"`
}

type TicketSLAStatusParams struct {
	TicketID int64 `json:"ticket_id"`
}

type SLABreachSearchParams struct {
	BreachType string `json:"breach_type,omitempty"`
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type SLAAtRiskParams struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type SearchKBArticlesParams struct {
	Query     string   `json:"query"`
	Labels    []string `json:"labels,omitempty"`
	SectionID *int64   `json:"section_id,omitempty"`
	Locale    string   `json:"locale,omitempty"`
	PerPage   int      `json:"per_page,omitempty"`
	SortBy    string   `json:"sort_by,omitempty"`
}

type GetKBArticleParams struct {
	ArticleID int64  `json:"article_id"`
	Locale    string `json:"locale,omitempty"`
}

type ListKBSectionsParams struct {
	Locale string `json:"locale,omitempty"`
}

type IncrementalParams struct {
	StartTime  int64 `json:"start_time"`
	MaxResults int   `json:"max_results,omitempty"`
}
