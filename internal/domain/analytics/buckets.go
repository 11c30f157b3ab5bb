package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ganot/helpdesk-mcp/internal/errs"
)

const isoDay = "2006-01-02"

func parseISODate(field, value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(isoDay, value, time.UTC)
	if err != nil {
		return time.Time{}, errs.Validation(field, "invalid date format %q, expected YYYY-MM-DD", value)
	}
	return parsed, nil
}

// weekStart returns the Monday of the ISO week containing d.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func monthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func weekKey(d time.Time) string {
	year, week := d.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func monthKey(d time.Time) string {
	return fmt.Sprintf("%d-%02d", d.Year(), int(d.Month()))
}

// weekSequence generates the ISO week keys from the week containing
// start through the week containing end.
func weekSequence(start, end time.Time) []string {
	var weeks []string
	for current := weekStart(start); !current.After(weekStart(end)); current = current.AddDate(0, 0, 7) {
		weeks = append(weeks, weekKey(current))
	}
	return weeks
}

func monthSequence(start, end time.Time) []string {
	var months []string
	for current := monthStart(start); !current.After(monthStart(end)); current = current.AddDate(0, 1, 0) {
		months = append(months, monthKey(current))
	}
	return months
}

func daySequence(start, end time.Time) []string {
	var days []string
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		days = append(days, current.Format(isoDay))
	}
	return days
}

// zeroFilled projects observed counts onto a canonical key sequence so
// empty buckets appear explicitly.
func zeroFilled(sequence []string, counts map[string]int) []BucketCount {
	series := make([]BucketCount, len(sequence))
	for i, key := range sequence {
		series[i] = BucketCount{Period: key, Count: counts[key]}
	}
	return series
}

// calcStats summarizes a sample list; an empty list yields all zeros.
func calcStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return Stats{
		Count:  n,
		Avg:    round2(sum / float64(n)),
		Min:    round2(sorted[0]),
		Max:    round2(sorted[n-1]),
		Median: round2(median),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// topCounts returns up to n map entries ordered by descending count,
// ties broken by key for determinism.
func topCounts(counts map[string]int, n int) []KeyCount {
	entries := make([]KeyCount, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, KeyCount{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func toMap(entries []KeyCount) map[string]int {
	m := make(map[string]int, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Count
	}
	return m
}
