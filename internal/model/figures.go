package model

import "fmt"

// Figures is the narrative payload one section contributes to the document.
// Each section kind has exactly one concrete shape; there are no optional
// fields, the arity is fixed per kind.
type Figures interface {
	Kind() SectionKind
}

// OverviewFigures carries the Overview section's scalars and the full daily
// session series used by the document's first chart and conclusion.
type OverviewFigures struct {
	DailySessions      []int   `json:"dailySessions"`
	TotalSessions      int     `json:"totalSessions"`
	TotalUsers         int     `json:"totalUsers"`
	AvgSessionsPerDay  int     `json:"avgSessionsPerDay"`
	TotalPageviews     int     `json:"totalPageviews"`
	AvgPagesPerSession float64 `json:"avgPagesPerSession"`
	AvgSessionDuration string  `json:"avgSessionDuration"` // HH:MM:SS
	BounceRatePct      string  `json:"bounceRatePct"`      // whole-percent string, e.g. "43%"
}

func (OverviewFigures) Kind() SectionKind { return SectionOverview }

// RankedFigures is the shared top-10 shape for Traffic Sources and Search
// Keywords: ranked labels, their session counts, and whole-percent shares
// computed against the top-10 subtotal.
type RankedFigures struct {
	Section  SectionKind `json:"section"`
	Labels   []string    `json:"labels"`
	Sessions []int       `json:"sessions"`
	SharePct []string    `json:"sharePct"`
}

func (f RankedFigures) Kind() SectionKind { return f.Section }

// GeoFigures is the shared top-10 shape for Countries and Cities.
type GeoFigures struct {
	Section         SectionKind `json:"section"`
	Labels          []string    `json:"labels"`
	Sessions        []int       `json:"sessions"`
	PagesPerSession []float64   `json:"pagesPerSession"`
	BounceRatePct   []string    `json:"bounceRatePct"`
}

func (f GeoFigures) Kind() SectionKind { return f.Section }

// PageFigures is the Pages section shape, ranked by pageviews.
type PageFigures struct {
	Titles        []string `json:"titles"`
	Pageviews     []int    `json:"pageviews"`
	SharePct      []string `json:"sharePct"`
	AvgTimeOnPage []string `json:"avgTimeOnPage"` // HH:MM:SS per page
}

func (PageFigures) Kind() SectionKind { return SectionPages }

// HourlyFigures holds the observed hour buckets in first-seen order.
type HourlyFigures struct {
	Hours    []string `json:"hours"`
	Sessions []int    `json:"sessions"`
}

func (HourlyFigures) Kind() SectionKind { return SectionHourly }

// TrackingFigures holds up to six [from, to] page transitions.
type TrackingFigures struct {
	Paths [][2]string `json:"paths"`
}

func (TrackingFigures) Kind() SectionKind { return SectionTracking }

// YearlyFigures holds the rotated 12-month session series.
type YearlyFigures struct {
	Sessions    []int    `json:"sessions"`
	AvgPerMonth int      `json:"avgPerMonth"`
	MonthLabels []string `json:"monthLabels"` // abbreviated, chart categories
}

func (YearlyFigures) Kind() SectionKind { return SectionYearly }

// Accumulator collects one Figures entry per section, append-only and
// strictly in SectionKind order. The document assembler may consume it only
// once all nine entries are present; positional access is then safe.
type Accumulator struct {
	entries []Figures
}

// NewAccumulator returns an empty accumulator for one profile run.
func NewAccumulator() *Accumulator {
	return &Accumulator{entries: make([]Figures, 0, SectionCount)}
}

// Append adds the next section's figures. The entry's kind must be exactly
// the next kind in enumeration order; anything else is a programming error
// in the pipeline and is rejected.
func (a *Accumulator) Append(f Figures) error {
	next := SectionKind(len(a.entries))
	if next >= SectionCount {
		return fmt.Errorf("accumulator already holds all %d sections", SectionCount)
	}
	if f.Kind() != next {
		return fmt.Errorf("out-of-order figures: got %s, want %s", f.Kind().ID(), next.ID())
	}
	a.entries = append(a.entries, f)
	return nil
}

// Complete reports whether every section has contributed.
func (a *Accumulator) Complete() bool {
	return len(a.entries) == SectionCount
}

// Len returns how many sections have contributed so far.
func (a *Accumulator) Len() int { return len(a.entries) }

// The typed getters below index by position; callers must check Complete
// first (the document assembler does).

func (a *Accumulator) Overview() OverviewFigures {
	return a.entries[SectionOverview].(OverviewFigures)
}

func (a *Accumulator) TrafficSources() RankedFigures {
	return a.entries[SectionTrafficSources].(RankedFigures)
}

func (a *Accumulator) SearchKeywords() RankedFigures {
	return a.entries[SectionSearchKeywords].(RankedFigures)
}

func (a *Accumulator) Countries() GeoFigures {
	return a.entries[SectionCountries].(GeoFigures)
}

func (a *Accumulator) Cities() GeoFigures {
	return a.entries[SectionCities].(GeoFigures)
}

func (a *Accumulator) Pages() PageFigures {
	return a.entries[SectionPages].(PageFigures)
}

func (a *Accumulator) Hourly() HourlyFigures {
	return a.entries[SectionHourly].(HourlyFigures)
}

func (a *Accumulator) Tracking() TrackingFigures {
	return a.entries[SectionTracking].(TrackingFigures)
}

func (a *Accumulator) Yearly() YearlyFigures {
	return a.entries[SectionYearly].(YearlyFigures)
}
