// Package report aggregates log entries for the analysis views: totals per
// category and per day/week/month buckets, rendered as text tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
)

const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// Total is the summed duration for one category.
type Total struct {
	Category string
	Minutes  float64
}

// Bucket is the per-category breakdown of one time bucket (a day, an ISO
// week or a month).
type Bucket struct {
	Key        string
	ByCategory map[string]float64
	Minutes    float64
}

// Filter returns entries whose timestamp falls in [start, end).
func Filter(entries []model.LogEntry, start, end time.Time) []model.LogEntry {
	var out []model.LogEntry
	for _, e := range entries {
		if !e.Timestamp.Before(start) && e.Timestamp.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

// CategoryTotals sums durations per category. ordered lists the registry's
// category order; categories seen in entries but absent from ordered (for
// example after a registry reset) are appended alphabetically.
func CategoryTotals(entries []model.LogEntry, ordered []string) []Total {
	sums := map[string]float64{}
	for _, e := range entries {
		sums[e.Category] += e.DurationMinutes
	}

	seen := map[string]bool{}
	var totals []Total
	for _, name := range ordered {
		seen[name] = true
		if minutes, ok := sums[name]; ok {
			totals = append(totals, Total{Category: name, Minutes: minutes})
		}
	}

	var rest []string
	for name := range sums {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		totals = append(totals, Total{Category: name, Minutes: sums[name]})
	}
	return totals
}

// GroupKey buckets a timestamp for the given grouping.
func GroupKey(t time.Time, groupBy string) string {
	switch groupBy {
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// Buckets groups entries by GroupKey and sums durations per category
// inside each bucket. Buckets are returned in ascending key order.
func Buckets(entries []model.LogEntry, groupBy string) []Bucket {
	byKey := map[string]*Bucket{}
	for _, e := range entries {
		key := GroupKey(e.Timestamp, groupBy)
		b, ok := byKey[key]
		if !ok {
			b = &Bucket{Key: key, ByCategory: map[string]float64{}}
			byKey[key] = b
		}
		b.ByCategory[e.Category] += e.DurationMinutes
		b.Minutes += e.DurationMinutes
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, *byKey[key])
	}
	return buckets
}

// HumanDuration renders minutes the way the reports display them.
func HumanDuration(minutes float64) string {
	total := int(minutes + 0.5)
	h := total / 60
	m := total % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d hr %d mins", h, m)
	case h == 1:
		return "1 hr"
	case h > 0:
		return fmt.Sprintf("%d hrs", h)
	case m == 1:
		return "1 min"
	default:
		return fmt.Sprintf("%d mins", m)
	}
}

// WriteSummary renders the category totals table followed by the bucket
// breakdown.
func WriteSummary(w io.Writer, title string, entries []model.LogEntry, ordered []string, groupBy string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "%-24s | %s\n", "Category", "Working Time")
	fmt.Fprintln(w, strings.Repeat("-", 50))

	var total float64
	for _, t := range CategoryTotals(entries, ordered) {
		total += t.Minutes
		fmt.Fprintf(w, "%-24s | %s\n", t.Category, HumanDuration(t.Minutes))
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Total : %s\n", HumanDuration(total))

	buckets := Buckets(entries, groupBy)
	if len(buckets) < 2 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-15s | %s\n", "Bucket", "Working Time")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, b := range buckets {
		fmt.Fprintf(w, "%-15s | %s\n", b.Key, HumanDuration(b.Minutes))
	}
}

// WriteRecent renders the most recent entries, newest first, capped at n.
func WriteRecent(w io.Writer, entries []model.LogEntry, n int) {
	fmt.Fprintf(w, "%-4s | %-16s | %-24s | %-12s | %-8s | %s\n",
		"ID", "Date", "Category", "Sub", "Minutes", "Memo")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, e := range entries {
		if n > 0 && i >= n {
			break
		}
		fmt.Fprintf(w, "%-4d | %-16s | %-24s | %-12s | %8.2f | %s\n",
			e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Category, e.SubCategory, e.DurationMinutes, e.Memo)
	}
}
