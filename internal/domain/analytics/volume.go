package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// Service handles analytics business logic.
type Service struct {
	searcher Searcher
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new analytics service.
func NewService(searcher Searcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		searcher: searcher,
		logger:   logger,
		now:      time.Now,
	}
}

// CaseVolume aggregates ticket volume over a date window into
// zero-filled daily, weekly, and monthly sequences with categorical
// breakdowns. Status, priority, and tag filters run after retrieval:
// the window query alone decides what is fetched.
func (s *Service) CaseVolume(ctx context.Context, opts VolumeOptions) (*VolumeReport, error) {
	bucket := opts.TimeBucket
	if bucket == "" {
		bucket = "weekly"
	}
	switch bucket {
	case "daily", "weekly", "monthly":
	default:
		return nil, errs.Validation("time_bucket", "must be daily, weekly, or monthly, got %q", bucket)
	}

	start, end, err := s.resolveRange(opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("created>=%s created<=%s", start.Format(isoDay), end.Format(isoDay))
	set, err := s.searcher.SearchExport(ctx, query, search.ExportOptions{
		SortBy:     "created_at",
		SortOrder:  "asc",
		MaxResults: opts.MaxResults,
	})
	if err != nil {
		return nil, err
	}

	tickets := applyFilters(set.Tickets, opts)

	weeks := weekSequence(start, end)
	months := monthSequence(start, end)
	days := daySequence(start, end)

	agg := newVolumeAggregator()
	for i := range tickets {
		agg.add(&tickets[i], start, end)
	}

	report := &VolumeReport{
		Query: query,
		Range: RangeInfo{
			StartDate:  start.Format(isoDay),
			EndDate:    end.Format(isoDay),
			Weeks:      len(weeks),
			Months:     len(months),
			Days:       len(days),
			TimeBucket: bucket,
		},
		Totals: Totals{
			Tickets:           agg.total,
			Assigned:          agg.assigned,
			Unassigned:        agg.total - agg.assigned,
			StatusBreakdown:   agg.statusCounts,
			PriorityBreakdown: agg.priorityCounts,
			TypeBreakdown:     agg.typeCounts,
		},
		WeeklyCounts:  zeroFilled(weeks, agg.weeklyCounts),
		MonthlyCounts: zeroFilled(months, agg.monthlyCounts),
		DailyCounts:   zeroFilled(days, agg.dailyCounts),
		ResponseTimes: map[string]Stats{
			"reply_time":          calcStats(agg.replyTimes),
			"agent_wait_time":     calcStats(agg.agentWaitTimes),
			"requester_wait_time": calcStats(agg.requesterWaitTimes),
		},
		ResolutionTimes: map[string]Stats{
			"first_resolution_time": calcStats(agg.firstResolutionTimes),
			"full_resolution_time":  calcStats(agg.fullResolutionTimes),
			"on_hold_time":          calcStats(agg.onHoldTimes),
		},
		ChannelBreakdown: agg.channelCounts,
		FormBreakdown:    agg.formCounts,
		GroupBreakdown:   agg.groupCounts,
		TagBreakdown:     agg.tagCounts,
		Truncation: TruncationInfo{
			TopTagSeries:         TopTagSeries,
			ValuesPerCustomField: TopValuesPerField,
			CustomFieldSeries:    TopCustomFieldSeries,
			Note: fmt.Sprintf(
				"tag series limited to top %d tags, custom field breakdowns to top %d values per field and top %d field:value series",
				TopTagSeries, TopValuesPerField, TopCustomFieldSeries),
		},
		Truncated: set.Truncated,
	}

	switch bucket {
	case "daily":
		report.TimeSeries = report.DailyCounts
	case "monthly":
		report.TimeSeries = report.MonthlyCounts
	default:
		report.TimeSeries = report.WeeklyCounts
	}

	report.TechnicianWeekly = agg.technicianSeries(weeks)
	report.TagWeekly = agg.tagSeries(weeks)
	report.RequesterBreakdown, report.RequesterWeekly = agg.entityBreakdown(agg.requesterCounts, agg.requesterWeekly, weeks)
	report.OrganizationBreakdown, report.OrganizationWeekly = agg.entityBreakdown(agg.organizationCounts, agg.organizationWeekly, weeks)
	report.CustomFieldBreakdown, report.CustomFieldWeekly = agg.customFieldSeries(weeks)

	if agg.satisfactionTotal > 0 {
		report.Satisfaction = &SatisfactionMetrics{
			TotalRatings:      agg.satisfactionTotal,
			ScoreDistribution: agg.satisfactionCounts,
		}
	}

	if len(opts.FilterStatus) > 0 || len(opts.FilterPriority) > 0 || len(opts.FilterTags) > 0 {
		report.Filters = &FilterInfo{
			Status:   opts.FilterStatus,
			Priority: opts.FilterPriority,
			Tags:     opts.FilterTags,
			Note:     "filters applied after retrieval; the window query alone decides what is fetched",
		}
	}

	return report, nil
}

// resolveRange resolves the inclusive reporting window. An omitted end
// defaults to today (UTC); an omitted start defaults to the earlier of
// 13 ISO weeks and 12 calendar months back from the end.
func (s *Service) resolveRange(startDate, endDate string) (time.Time, time.Time, error) {
	now := s.now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if endDate != "" {
		parsed, err := parseISODate("end_date", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	var start time.Time
	if startDate != "" {
		parsed, err := parseISODate("start_date", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	} else {
		weeklyStart := weekStart(end).AddDate(0, 0, -12*7)
		monthlyStart := monthStart(end).AddDate(0, -11, 0)
		start = weeklyStart
		if monthlyStart.Before(weeklyStart) {
			start = monthlyStart
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, errs.Validation("start_date", "must be on or before end_date")
	}
	return start, end, nil
}

func applyFilters(tickets []ticket.Ticket, opts VolumeOptions) []ticket.Ticket {
	if len(opts.FilterStatus) == 0 && len(opts.FilterPriority) == 0 && len(opts.FilterTags) == 0 {
		return tickets
	}
	statuses := toSet(opts.FilterStatus)
	priorities := toSet(opts.FilterPriority)

	var kept []ticket.Ticket
	for _, tk := range tickets {
		if len(statuses) > 0 {
			if _, ok := statuses[string(tk.Status)]; !ok {
				continue
			}
		}
		if len(priorities) > 0 {
			if _, ok := priorities[string(tk.Priority)]; !ok {
				continue
			}
		}
		if len(opts.FilterTags) > 0 && !hasAnyTag(&tk, opts.FilterTags) {
			continue
		}
		kept = append(kept, tk)
	}
	return kept
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func hasAnyTag(tk *ticket.Ticket, tags []string) bool {
	for _, tag := range tags {
		if tk.HasTag(tag) {
			return true
		}
	}
	return false
}

// volumeAggregator accumulates per-ticket observations; series
// assembly happens once after the pass.
type volumeAggregator struct {
	total    int
	assigned int

	dailyCounts   map[string]int
	weeklyCounts  map[string]int
	monthlyCounts map[string]int

	statusCounts   map[string]int
	priorityCounts map[string]int
	typeCounts     map[string]int

	technicianWeekly map[string]map[string]int

	channelCounts map[string]int
	formCounts    map[string]int
	groupCounts   map[string]int

	replyTimes           []float64
	agentWaitTimes       []float64
	requesterWaitTimes   []float64
	firstResolutionTimes []float64
	fullResolutionTimes  []float64
	onHoldTimes          []float64

	satisfactionTotal  int
	satisfactionCounts map[string]int

	tagCounts map[string]int
	tagWeekly map[string]map[string]int

	requesterCounts    map[string]int
	requesterWeekly    map[string]map[string]int
	organizationCounts map[string]int
	organizationWeekly map[string]map[string]int

	customFieldCounts map[string]map[string]int
	customFieldWeekly map[string]map[string]map[string]int
}

func newVolumeAggregator() *volumeAggregator {
	return &volumeAggregator{
		dailyCounts:        make(map[string]int),
		weeklyCounts:       make(map[string]int),
		monthlyCounts:      make(map[string]int),
		statusCounts:       make(map[string]int),
		priorityCounts:     make(map[string]int),
		typeCounts:         make(map[string]int),
		technicianWeekly:   make(map[string]map[string]int),
		channelCounts:      make(map[string]int),
		formCounts:         make(map[string]int),
		groupCounts:        make(map[string]int),
		satisfactionCounts: make(map[string]int),
		tagCounts:          make(map[string]int),
		tagWeekly:          make(map[string]map[string]int),
		requesterCounts:    make(map[string]int),
		requesterWeekly:    make(map[string]map[string]int),
		organizationCounts: make(map[string]int),
		organizationWeekly: make(map[string]map[string]int),
		customFieldCounts:  make(map[string]map[string]int),
		customFieldWeekly:  make(map[string]map[string]map[string]int),
	}
}

func (a *volumeAggregator) add(tk *ticket.Ticket, start, end time.Time) {
	if tk.CreatedAt.IsZero() {
		return
	}
	created := tk.CreatedAt.UTC()
	day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(start) || day.After(end) {
		return
	}

	wk := weekKey(day)
	a.dailyCounts[day.Format(isoDay)]++
	a.weeklyCounts[wk]++
	a.monthlyCounts[monthKey(day)]++

	a.statusCounts[orUnknown(string(tk.Status))]++
	a.priorityCounts[orUnknown(string(tk.Priority))]++
	a.typeCounts[orUnknown(tk.Type)]++

	assigneeKey := "unassigned"
	if tk.AssigneeID != nil {
		assigneeKey = strconv.FormatInt(*tk.AssigneeID, 10)
		a.assigned++
	}
	bump(a.technicianWeekly, assigneeKey, wk)
	a.total++

	if channel := tk.Channel(); channel != "" {
		a.channelCounts[channel]++
	}
	if tk.FormID != nil {
		a.formCounts[strconv.FormatInt(*tk.FormID, 10)]++
	}
	if tk.GroupID != nil {
		a.groupCounts[strconv.FormatInt(*tk.GroupID, 10)]++
	}

	if m := tk.Metrics; m != nil {
		appendSample(&a.replyTimes, m.ReplyTime)
		appendSample(&a.agentWaitTimes, m.AgentWaitTime)
		appendSample(&a.requesterWaitTimes, m.RequesterWaitTime)
		appendSample(&a.firstResolutionTimes, m.FirstResolutionTime)
		appendSample(&a.fullResolutionTimes, m.FullResolutionTime)
		appendSample(&a.onHoldTimes, m.OnHoldTime)
	}

	if tk.Satisfaction != nil && tk.Satisfaction.Score != "" {
		a.satisfactionTotal++
		a.satisfactionCounts[tk.Satisfaction.Score]++
	}

	for _, tag := range tk.Tags {
		a.tagCounts[tag]++
		bump(a.tagWeekly, tag, wk)
	}

	requesterKey := strconv.FormatInt(tk.RequesterID, 10)
	a.requesterCounts[requesterKey]++
	bump(a.requesterWeekly, requesterKey, wk)

	if tk.OrganizationID != nil {
		orgKey := strconv.FormatInt(*tk.OrganizationID, 10)
		a.organizationCounts[orgKey]++
		bump(a.organizationWeekly, orgKey, wk)
	}

	for _, cf := range tk.CustomFields {
		if cf.Value == nil {
			continue
		}
		fieldKey := strconv.FormatInt(cf.ID, 10)
		valueKey := fmt.Sprint(cf.Value)
		if a.customFieldCounts[fieldKey] == nil {
			a.customFieldCounts[fieldKey] = make(map[string]int)
			a.customFieldWeekly[fieldKey] = make(map[string]map[string]int)
		}
		a.customFieldCounts[fieldKey][valueKey]++
		bump(a.customFieldWeekly[fieldKey], valueKey, wk)
	}
}

func (a *volumeAggregator) technicianSeries(weeks []string) []AssigneeSeries {
	keys := make([]string, 0, len(a.technicianWeekly))
	for key := range a.technicianWeekly {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]AssigneeSeries, 0, len(keys))
	for _, key := range keys {
		counts := a.technicianWeekly[key]
		entry := AssigneeSeries{
			DisplayKey: key,
			Weeks:      zeroFilled(weeks, counts),
		}
		if key != "unassigned" {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil {
				entry.AssigneeID = &id
			}
		}
		for _, count := range counts {
			entry.Total += count
		}
		series = append(series, entry)
	}
	return series
}

func (a *volumeAggregator) tagSeries(weeks []string) []TagSeries {
	top := topCounts(a.tagCounts, TopTagSeries)
	series := make([]TagSeries, 0, len(top))
	for _, entry := range top {
		series = append(series, TagSeries{
			Tag:   entry.Key,
			Total: entry.Count,
			Weeks: zeroFilled(weeks, a.tagWeekly[entry.Key]),
		})
	}
	return series
}

func (a *volumeAggregator) entityBreakdown(counts map[string]int, weekly map[string]map[string]int, weeks []string) (map[string]int, []EntitySeries) {
	if len(counts) == 0 {
		return nil, nil
	}
	ordered := topCounts(counts, 0)
	series := make([]EntitySeries, 0, len(ordered))
	for _, entry := range ordered {
		id, err := strconv.ParseInt(entry.Key, 10, 64)
		if err != nil {
			continue
		}
		series = append(series, EntitySeries{
			ID:    id,
			Total: entry.Count,
			Weeks: zeroFilled(weeks, weekly[entry.Key]),
		})
	}
	return counts, series
}

func (a *volumeAggregator) customFieldSeries(weeks []string) (map[string]map[string]int, []CustomFieldSeries) {
	if len(a.customFieldCounts) == 0 {
		return nil, nil
	}

	fieldTotals := make(map[string]int, len(a.customFieldCounts))
	for fieldKey, values := range a.customFieldCounts {
		for _, count := range values {
			fieldTotals[fieldKey] += count
		}
	}

	breakdown := make(map[string]map[string]int, len(a.customFieldCounts))
	var series []CustomFieldSeries
	for _, field := range topCounts(fieldTotals, 0) {
		topValues := topCounts(a.customFieldCounts[field.Key], TopValuesPerField)
		breakdown[field.Key] = toMap(topValues)
		for _, value := range topValues {
			series = append(series, CustomFieldSeries{
				FieldID: field.Key,
				Value:   value.Key,
				Total:   value.Count,
				Weeks:   zeroFilled(weeks, a.customFieldWeekly[field.Key][value.Key]),
			})
		}
	}
	if len(series) > TopCustomFieldSeries {
		series = series[:TopCustomFieldSeries]
	}
	return breakdown, series
}

func bump(m map[string]map[string]int, key, week string) {
	if m[key] == nil {
		m[key] = make(map[string]int)
	}
	m[key][week]++
}

func appendSample(samples *[]float64, value *int64) {
	if value != nil {
		*samples = append(*samples, float64(*value))
	}
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
