package report

import (
	"strings"
	"time"

	"go-analytics-report/internal/model"
)

// ------------------- Cross-Section Synthesis -------------------

// The conclusion of the narrative document ranks across series produced by
// independent sections. Every helper here pre-checks its input and reports
// ok=false instead of faulting, so degenerate result sets (empty sections,
// single candidates) degrade to "insufficient data" prose.

// argMax returns the index of the largest value, false on empty input.
// Ties resolve to the earliest index.
func argMax(values []int) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best, true
}

// BusiestDay maps the argmax of the daily session series back to a
// day-of-month and weekday name within the report period.
func BusiestDay(daily []int, rng model.DateRange) (day int, weekday string, sessions int, ok bool) {
	idx, ok := argMax(daily)
	if !ok {
		return 0, "", 0, false
	}
	date := rng.Start.AddDate(0, 0, idx)
	return date.Day(), date.Weekday().String(), daily[idx], true
}

// BusiestHours finds the busiest and second-busiest hours. The global
// maximum is removed before the second pass. secondOK is false when fewer
// than two distinct buckets exist.
func BusiestHours(hours []string, sessions []int) (first, second string, firstOK, secondOK bool) {
	idx, ok := argMax(sessions)
	if !ok {
		return "", "", false, false
	}
	first = hours[idx]

	restHours := make([]string, 0, len(hours)-1)
	restSessions := make([]int, 0, len(sessions)-1)
	for i := range sessions {
		if i == idx {
			continue
		}
		restHours = append(restHours, hours[i])
		restSessions = append(restSessions, sessions[i])
	}
	if j, ok := argMax(restSessions); ok {
		return first, restHours[j], true, true
	}
	return first, "", true, false
}

// LeadingNonDirect picks the first traffic source whose label is not the
// direct-traffic sentinel. When every candidate is direct the top source is
// returned anyway; ok is false only for an empty list.
func LeadingNonDirect(labels []string) (string, bool) {
	if len(labels) == 0 {
		return "", false
	}
	for _, l := range labels {
		if !strings.Contains(l, model.DirectSentinel) {
			return l, true
		}
	}
	return labels[0], true
}

// LeadingPage picks the top-ranked page, skipping the "(not set)" sentinel
// when more than one page is present.
func LeadingPage(titles []string) (string, bool) {
	if len(titles) == 0 {
		return "", false
	}
	if len(titles) > 1 && strings.Contains(titles[0], model.NotSetSentinel) {
		return titles[1], true
	}
	return titles[0], true
}

// TopEntry returns the label with the most sessions, false on empty input.
func TopEntry(labels []string, sessions []int) (string, bool) {
	idx, ok := argMax(sessions)
	if !ok || idx >= len(labels) {
		return "", false
	}
	return labels[idx], true
}

// monthYear renders the report month for covers and chart titles.
func monthYear(t time.Time) (string, string) {
	return t.Month().String(), t.Format("2006")
}
