package model

import (
	"fmt"
	"strings"
	"time"
)

// NotSetSentinel is the placeholder dimension value the query source emits
// for unattributed rows. It stays in full tables but never enters top-N lists.
const NotSetSentinel = "(not set)"

// DirectSentinel marks direct traffic in the Traffic Sources section.
const DirectSentinel = "(direct)"

// SectionKind identifies one of the nine report sections. The numeric order
// is the processing order and must not change: the narrative accumulator and
// the document assembler both rely on it.
type SectionKind int

const (
	SectionOverview SectionKind = iota
	SectionTrafficSources
	SectionSearchKeywords
	SectionCountries
	SectionCities
	SectionPages
	SectionHourly
	SectionTracking
	SectionYearly

	SectionCount = 9
)

// ID returns the stable identifier used in source paths and query params.
func (k SectionKind) ID() string {
	switch k {
	case SectionOverview:
		return "session"
	case SectionTrafficSources:
		return "access"
	case SectionSearchKeywords:
		return "search"
	case SectionCountries:
		return "country"
	case SectionCities:
		return "city"
	case SectionPages:
		return "page"
	case SectionHourly:
		return "daily"
	case SectionTracking:
		return "tracking"
	case SectionYearly:
		return "yearly"
	}
	return fmt.Sprintf("section-%d", int(k))
}

// Title returns the sheet / document title for the section.
func (k SectionKind) Title() string {
	switch k {
	case SectionOverview:
		return "Sessions (Overview)"
	case SectionTrafficSources:
		return "Traffic Sources"
	case SectionSearchKeywords:
		return "Search Keywords"
	case SectionCountries:
		return "Sessions (Countries)"
	case SectionCities:
		return "Sessions (Cities)"
	case SectionPages:
		return "Pages"
	case SectionHourly:
		return "Sessions (Hourly)"
	case SectionTracking:
		return "Page Tracking"
	case SectionYearly:
		return "Sessions (Yearly)"
	}
	return k.ID()
}

// AllSections returns the nine kinds in processing order.
func AllSections() []SectionKind {
	kinds := make([]SectionKind, 0, SectionCount)
	for k := SectionOverview; k <= SectionYearly; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// QueryTemplate describes the dimension/metric columns a section's query
// produces, mirroring the fixed query table the orchestrator runs.
type QueryTemplate struct {
	Dimensions []string `json:"dimensions"`
	Metrics    []string `json:"metrics"`
	Sort       string   `json:"sort,omitempty"` // e.g. "-sessions", empty for source order
}

// Headers returns the column names a result set for this template carries:
// dimensions first, then metrics.
func (t QueryTemplate) Headers() []string {
	out := make([]string, 0, len(t.Dimensions)+len(t.Metrics))
	out = append(out, t.Dimensions...)
	out = append(out, t.Metrics...)
	return out
}

// QueryTemplates maps each section to its query shape. Used by the HTTP
// source to build request params and by ingestion to sanity-check headers.
var QueryTemplates = map[SectionKind]QueryTemplate{
	SectionOverview:       {Dimensions: []string{"date"}, Metrics: []string{"sessions", "users", "pageviews", "uniquePageviews", "avgSessionDuration", "avgTimeOnPage", "bounceRate"}},
	SectionTrafficSources: {Dimensions: []string{"source"}, Metrics: []string{"sessions"}, Sort: "-sessions"},
	SectionSearchKeywords: {Dimensions: []string{"keyword"}, Metrics: []string{"sessions"}, Sort: "-sessions"},
	SectionCountries:      {Dimensions: []string{"country"}, Metrics: []string{"sessions", "pageviews", "bounceRate"}, Sort: "-sessions"},
	SectionCities:         {Dimensions: []string{"city"}, Metrics: []string{"sessions", "pageviews", "bounceRate"}, Sort: "-sessions"},
	SectionPages:          {Dimensions: []string{"pageTitle"}, Metrics: []string{"pageviews", "avgTimeOnPage"}, Sort: "-pageviews"},
	SectionHourly:         {Dimensions: []string{"dateHour"}, Metrics: []string{"users"}},
	SectionTracking:       {Dimensions: []string{"landingPagePath", "secondPagePath"}, Metrics: []string{"entrances"}, Sort: "-entrances"},
	SectionYearly:         {Dimensions: []string{"month"}, Metrics: []string{"sessions"}},
}

// QueryResultSet is one section's materialized query result. Every row is an
// ordered list of string cells; the first cell is the dimension value.
type QueryResultSet struct {
	Section SectionKind `json:"section"`
	Headers []string    `json:"columnHeaders"`
	Rows    [][]string  `json:"rows"`
}

// Empty reports whether the result carries no data rows.
func (rs *QueryResultSet) Empty() bool {
	return rs == nil || len(rs.Rows) == 0
}

// Profile identifies the tracked website a report is generated for.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebsiteURL string `json:"websiteUrl"`
}

// NormalizeWebsiteURL forces an http scheme and a trailing slash, matching
// how profile URLs are displayed on the report cover.
func (p *Profile) NormalizeWebsiteURL() {
	if p.WebsiteURL == "" {
		return
	}
	if !strings.HasPrefix(p.WebsiteURL, "http") {
		p.WebsiteURL = "http://" + p.WebsiteURL
	}
	if !strings.HasSuffix(p.WebsiteURL, "/") {
		p.WebsiteURL += "/"
	}
}

// DateRange is the reporting period, inclusive calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// ReportContext carries the per-profile, per-run identity and dates. It is
// created once per profile and never mutated during the run.
type ReportContext struct {
	Profile   Profile   `json:"profile"`
	Range     DateRange `json:"range"`
	AnchorDay time.Time `json:"anchorDay"` // start of the 12-month comparison window
}

// NewReportContext builds the context for one profile run. The yearly
// comparison window trails twelve months and ends at the report's end month,
// so its anchor starts the month after the end month, one year earlier.
func NewReportContext(p Profile, rng DateRange) ReportContext {
	p.NormalizeWebsiteURL()
	anchor := time.Date(rng.End.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	if rng.End.Month() != time.December {
		anchor = time.Date(rng.End.Year()-1, rng.End.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return ReportContext{Profile: p, Range: rng, AnchorDay: anchor}
}

// BaseFileName is the shared stem of the two artifacts:
// "<profile name> <start> <end>".
func (c ReportContext) BaseFileName() string {
	return fmt.Sprintf("%s %s %s",
		c.Profile.Name,
		c.Range.Start.Format("2006-01-02"),
		c.Range.End.Format("2006-01-02"))
}
