// Package analytics aggregates retrieved ticket sets into volume and
// distribution reports. All aggregation is client-side: the upstream
// only contributes the raw ticket retrieval.
package analytics

// Truncation caps keep responses bounded on large accounts. They are
// documented in the report metadata so consumers know when a breakdown
// is partial.
const (
	TopTagSeries          = 50
	TopValuesPerField     = 20
	TopCustomFieldSeries  = 100
	topEntityCount        = 10
	defaultStatsLimit     = 1000
)

// VolumeOptions configures a case volume run. Dates are inclusive ISO
// days (YYYY-MM-DD); an empty range defaults to the span covering the
// last 13 ISO weeks and 12 months. Filters apply after retrieval.
type VolumeOptions struct {
	StartDate      string
	EndDate        string
	MaxResults     int
	TimeBucket     string // daily, weekly, monthly
	FilterStatus   []string
	FilterPriority []string
	FilterTags     []string
}

// BucketCount is one zero-filled time bucket.
type BucketCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// AssigneeSeries is one technician's weekly volume. A nil AssigneeID
// is the unassigned bucket.
type AssigneeSeries struct {
	AssigneeID *int64        `json:"assignee_id"`
	DisplayKey string        `json:"display_key"`
	Weeks      []BucketCount `json:"weeks"`
	Total      int           `json:"total"`
}

// TagSeries is one tag's weekly volume.
type TagSeries struct {
	Tag   string        `json:"tag"`
	Total int           `json:"total"`
	Weeks []BucketCount `json:"weeks"`
}

// EntitySeries is a requester's or organization's weekly volume.
type EntitySeries struct {
	ID    int64         `json:"id"`
	Total int           `json:"total"`
	Weeks []BucketCount `json:"weeks"`
}

// CustomFieldSeries is one field:value combination's weekly volume.
type CustomFieldSeries struct {
	FieldID string        `json:"field_id"`
	Value   string        `json:"value"`
	Total   int           `json:"total"`
	Weeks   []BucketCount `json:"weeks"`
}

// Stats summarizes a list of duration samples, in the unit of the
// samples.
type Stats struct {
	Count  int     `json:"count"`
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// RangeInfo describes the resolved reporting window.
type RangeInfo struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Weeks      int    `json:"weeks"`
	Months     int    `json:"months"`
	Days       int    `json:"days"`
	TimeBucket string `json:"time_bucket"`
}

// Totals carries overall counts and categorical breakdowns.
type Totals struct {
	Tickets           int            `json:"tickets"`
	Assigned          int            `json:"assigned_tickets"`
	Unassigned        int            `json:"unassigned_tickets"`
	StatusBreakdown   map[string]int `json:"status_breakdown"`
	PriorityBreakdown map[string]int `json:"priority_breakdown"`
	TypeBreakdown     map[string]int `json:"type_breakdown"`
}

// SatisfactionMetrics summarizes CSAT ratings over the window. Scores
// are the upstream's categorical values.
type SatisfactionMetrics struct {
	TotalRatings      int            `json:"total_ratings"`
	ScoreDistribution map[string]int `json:"score_distribution"`
}

// TruncationInfo documents the caps applied to open-ended breakdowns.
type TruncationInfo struct {
	TopTagSeries         int    `json:"top_tag_series"`
	ValuesPerCustomField int    `json:"values_per_custom_field"`
	CustomFieldSeries    int    `json:"custom_field_series"`
	Note                 string `json:"note"`
}

// FilterInfo echoes the post-retrieval filters applied to the set.
type FilterInfo struct {
	Status   []string `json:"status,omitempty"`
	Priority []string `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Note     string   `json:"note"`
}

// VolumeReport is the case volume analytics response.
type VolumeReport struct {
	Query  string    `json:"query"`
	Range  RangeInfo `json:"range"`
	Totals Totals    `json:"totals"`

	TimeSeries    []BucketCount `json:"time_series"`
	WeeklyCounts  []BucketCount `json:"weekly_counts"`
	MonthlyCounts []BucketCount `json:"monthly_counts"`
	DailyCounts   []BucketCount `json:"daily_counts"`

	TechnicianWeekly []AssigneeSeries `json:"technician_weekly_counts"`

	ResponseTimes   map[string]Stats `json:"response_time_metrics"`
	ResolutionTimes map[string]Stats `json:"resolution_time_metrics"`

	ChannelBreakdown map[string]int `json:"channel_breakdown,omitempty"`
	FormBreakdown    map[string]int `json:"form_breakdown,omitempty"`
	GroupBreakdown   map[string]int `json:"group_breakdown,omitempty"`

	Satisfaction *SatisfactionMetrics `json:"satisfaction_metrics,omitempty"`

	TagBreakdown map[string]int `json:"tag_breakdown,omitempty"`
	TagWeekly    []TagSeries    `json:"tag_weekly_counts,omitempty"`

	RequesterBreakdown    map[string]int `json:"requester_breakdown,omitempty"`
	RequesterWeekly       []EntitySeries `json:"requester_weekly_counts,omitempty"`
	OrganizationBreakdown map[string]int `json:"organization_breakdown,omitempty"`
	OrganizationWeekly    []EntitySeries `json:"organization_weekly_counts,omitempty"`

	CustomFieldBreakdown map[string]map[string]int `json:"custom_field_breakdown,omitempty"`
	CustomFieldWeekly    []CustomFieldSeries       `json:"custom_field_weekly_counts,omitempty"`

	Truncation TruncationInfo `json:"truncation"`
	Filters    *FilterInfo    `json:"filters,omitempty"`
	Truncated  bool           `json:"retrieval_truncated,omitempty"`
}

// StatisticsOptions configures a per-query statistics rollup.
type StatisticsOptions struct {
	SortBy    string
	SortOrder string
	Limit     int
}

// ResolutionStats summarizes time-to-solve in hours, approximated from
// created-to-last-update for solved tickets.
type ResolutionStats struct {
	AverageHours float64 `json:"average_hours"`
	TotalSolved  int     `json:"total_solved"`
	MinHours     float64 `json:"min_hours"`
	MaxHours     float64 `json:"max_hours"`
}

// Statistics carries the per-query distribution counts.
type Statistics struct {
	ByStatus       map[string]int  `json:"by_status"`
	ByPriority     map[string]int  `json:"by_priority"`
	ByAssignee     map[string]int  `json:"by_assignee"`
	ByRequester    map[string]int  `json:"by_requester"`
	ByOrganization map[string]int  `json:"by_organization"`
	ByTags         map[string]int  `json:"by_tags"`
	ByMonth        map[string]int  `json:"by_month"`
	ResolutionTime ResolutionStats `json:"resolution_time"`
}

// KeyCount is a labeled count used in summary highlights.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summary highlights the dominant values of a statistics run.
type Summary struct {
	MostCommonStatus       string    `json:"most_common_status,omitempty"`
	MostCommonPriority     string    `json:"most_common_priority,omitempty"`
	MostActiveRequester    *KeyCount `json:"most_active_requester,omitempty"`
	MostActiveOrganization *KeyCount `json:"most_active_organization,omitempty"`
	MostCommonTag          *KeyCount `json:"most_common_tag,omitempty"`
	UnassignedTickets      int       `json:"unassigned_tickets"`
	AvgResolutionHours     float64   `json:"avg_resolution_time_hours"`
}

// StatisticsReport is the search statistics response.
type StatisticsReport struct {
	Query        string      `json:"query"`
	TotalTickets int         `json:"total_tickets"`
	Statistics   *Statistics `json:"statistics,omitempty"`
	Summary      *Summary    `json:"summary,omitempty"`
	Message      string      `json:"message,omitempty"`
}
