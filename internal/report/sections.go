package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-analytics-report/internal/model"
)

// ------------------- Section Aggregation Rules -------------------

// aggregateFunc turns one section's raw result set into a SectionResult.
// Every rule tolerates an empty result set by producing a placeholder result
// with zeroed figures; emptiness is never an error.
type aggregateFunc func(ctx model.ReportContext, rs *model.QueryResultSet) *model.SectionResult

// sectionRules dispatches each kind to its rule. Countries/Cities and
// Traffic Sources/Search Keywords share parameterized rules.
var sectionRules = map[model.SectionKind]aggregateFunc{
	model.SectionOverview:       aggregateOverview,
	model.SectionTrafficSources: rankedRule(model.SectionTrafficSources),
	model.SectionSearchKeywords: rankedRule(model.SectionSearchKeywords),
	model.SectionCountries:      geoRule(model.SectionCountries),
	model.SectionCities:         geoRule(model.SectionCities),
	model.SectionPages:          aggregatePages,
	model.SectionHourly:         aggregateHourly,
	model.SectionTracking:       aggregateTracking,
	model.SectionYearly:         aggregateYearly,
}

// AggregateSection runs the rule for kind. Unknown kinds cannot happen with
// the fixed enumeration; the map lookup keeps the dispatch explicit.
func AggregateSection(ctx model.ReportContext, kind model.SectionKind, rs *model.QueryResultSet) *model.SectionResult {
	return sectionRules[kind](ctx, rs)
}

// displayHeader maps a query column name to its sheet header.
func displayHeader(name string) string {
	switch name {
	case "date":
		return "Date"
	case "sessions":
		return "Sessions"
	case "users":
		return "Users"
	case "pageviews":
		return "Pageviews"
	case "uniquePageviews":
		return "Unique Pageviews"
	case "avgSessionDuration":
		return "Avg. Session Duration"
	case "avgTimeOnPage":
		return "Avg. Time on Page"
	case "bounceRate":
		return "Bounce Rate"
	case "source":
		return "Source"
	case "keyword":
		return "Keyword"
	case "country":
		return "Country"
	case "city":
		return "City"
	case "pageTitle":
		return "Page Title"
	case "month":
		return "Month"
	}
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func displayHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = displayHeader(h)
	}
	return out
}

// isoDate rewrites the source's compact YYYYMMDD date to YYYY-MM-DD.
func isoDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:8]
}

// ------------------- Overview -------------------

func aggregateOverview(ctx model.ReportContext, rs *model.QueryResultSet) *model.SectionResult {
	res := &model.SectionResult{
		Kind:       model.SectionOverview,
		Title:      model.SectionOverview.Title(),
		PercentCol: true,
	}
	if rs.Empty() {
		res.Headers = displayHeaders(model.QueryTemplates[model.SectionOverview].Headers())
		res.Figures = model.OverviewFigures{AvgSessionDuration: FormatDuration(0), BounceRatePct: "0%"}
		return res
	}

	res.Headers = append(displayHeaders(rs.Headers), "Pages/Session")

	var (
		daily       []int
		sessionSum  int
		userSum     int
		pageviewSum int
		uniquePvSum int
		durationSum float64 // seconds across all days
		timeOnPage  float64
		bounceSum   float64 // 0–100 scale contributions
	)

	for _, row := range rs.Rows {
		sessions := parseInt(row[1])
		sessionSum += sessions
		userSum += parseInt(row[2])
		pageviewSum += parseInt(row[3])
		uniquePvSum += parseInt(row[4])
		durationSum += parseFloat(row[5])
		timeOnPage += parseFloat(row[6])
		bounceSum += parseFloat(row[7])
		daily = append(daily, sessions)

		cells := []interface{}{
			isoDate(row[0]),
			row[1], row[2], row[3], row[4],
			FormatDuration(parseFloat(row[5])),
			FormatDuration(parseFloat(row[6])),
			parseFloat(row[7]) / 100,
		}
		res.Rows = append(res.Rows, model.TableRow{Cells: CoerceNumericCells(cells, true)})
	}

	days := len(rs.Rows)
	meanDuration := FormatDuration(0)
	meanTimeOnPage := FormatDuration(0)
	total := []interface{}{"Total", 0, 0, 0, 0}
	avg := []interface{}{"Average", 0, 0, 0, 0, meanDuration, meanTimeOnPage, 0.0, 0.0}
	avgSessions := 0
	pagesPerSession := 0.0
	bounceFraction := 0.0

	if days > 0 && sessionSum > 0 {
		meanDuration = FormatDuration(durationSum / float64(days))
		meanTimeOnPage = FormatDuration(timeOnPage / float64(days))
		avgSessions = int(math.Round(float64(sessionSum) / float64(days)))
		pagesPerSession = round1(float64(pageviewSum) / float64(sessionSum))
		bounceFraction = bounceSum / float64(days) / 100

		total = []interface{}{"Total", sessionSum, userSum, pageviewSum, uniquePvSum}
		avg = []interface{}{
			"Average",
			avgSessions,
			int(math.Round(float64(userSum) / float64(days))),
			int(math.Round(float64(pageviewSum) / float64(days))),
			int(math.Round(float64(uniquePvSum) / float64(days))),
			meanDuration,
			meanTimeOnPage,
			bounceFraction,
			pagesPerSession,
		}
	}
	res.Rows = append(res.Rows,
		model.TableRow{Cells: total, Bold: true},
		model.TableRow{Cells: avg, Bold: true},
	)

	res.Chart = &model.ChartSpec{
		Kind:        model.ChartBar,
		Title:       "Sessions of " + ctx.Range.End.Month().String(),
		Anchor:      "M10",
		DataCol:     1,
		CategoryCol: -1,
	}
	res.Figures = model.OverviewFigures{
		DailySessions:      daily,
		TotalSessions:      sessionSum,
		TotalUsers:         userSum,
		AvgSessionsPerDay:  avgSessions,
		TotalPageviews:     pageviewSum,
		AvgPagesPerSession: pagesPerSession,
		AvgSessionDuration: meanDuration,
		BounceRatePct:      wholePercent(bounceFraction),
	}
	return res
}

// ------------------- Countries / Cities -------------------

// geoRule builds the shared country/city rule: pages-per-session per row,
// bounce rate as a fraction, top-10 (minus the "(not set)" sentinel) for the
// narrative while the full set stays on the sheet.
func geoRule(kind model.SectionKind) aggregateFunc {
	return func(ctx model.ReportContext, rs *model.QueryResultSet) *model.SectionResult {
		res := &model.SectionResult{
			Kind:       kind,
			Title:      kind.Title(),
			PercentCol: true,
		}
		figures := model.GeoFigures{Section: kind}
		if rs.Empty() {
			res.Headers = displayHeaders(model.QueryTemplates[kind].Headers())
			res.Figures = figures
			return res
		}

		headers := displayHeaders(rs.Headers)
		headers[2] = "Pages/Session"
		res.Headers = headers

		top := make(map[int]bool)
		for _, i := range SelectTopN(rs.Rows, 10, map[string]bool{model.NotSetSentinel: true}) {
			top[i] = true
		}

		for i, row := range rs.Rows {
			sessions := parseInt(row[1])
			pageviews := parseInt(row[2])
			pagesPerSession := 0.0
			if sessions > 0 {
				pagesPerSession = round2(float64(pageviews) / float64(sessions))
			}
			bounce := parseFloat(row[3]) / 100

			if top[i] {
				figures.Labels = append(figures.Labels, row[0])
				figures.Sessions = append(figures.Sessions, sessions)
				figures.PagesPerSession = append(figures.PagesPerSession, pagesPerSession)
				figures.BounceRatePct = append(figures.BounceRatePct, wholePercent(bounce))
			}

			cells := []interface{}{row[0], row[1], pagesPerSession, bounce}
			res.Rows = append(res.Rows, model.TableRow{Cells: CoerceNumericCells(cells, true)})
		}

		charted := len(rs.Rows)
		if charted > 10 {
			charted = 10
		}
		res.Chart = &model.ChartSpec{
			Kind:        model.ChartPie,
			Title:       fmt.Sprintf("Top 10 %s by Sessions", geoNoun(kind)),
			Anchor:      "H4",
			DataCol:     1,
			DataRows:    charted,
			CategoryCol: 0,
		}
		res.Figures = figures
		return res
	}
}

func geoNoun(kind model.SectionKind) string {
	if kind == model.SectionCities {
		return "Cities"
	}
	return "Countries"
}

// ------------------- Traffic Sources / Search Keywords -------------------

// rankedRule builds the shared sources/keywords rule: per-row share of the
// section total on the sheet, top-10 narrative with percentages computed
// against the top-10 subtotal. Table-only in the workbook, no chart.
func rankedRule(kind model.SectionKind) aggregateFunc {
	return func(ctx model.ReportContext, rs *model.QueryResultSet) *model.SectionResult {
		res := &model.SectionResult{
			Kind:       kind,
			Title:      kind.Title(),
			PercentCol: true,
		}
		figures := model.RankedFigures{Section: kind}
		if rs.Empty() {
			res.Headers = displayHeaders(model.QueryTemplates[kind].Headers())
			res.Figures = figures
			return res
		}

		res.Headers = append(displayHeaders(rs.Headers), "Share")

		total := 0
		for _, row := range rs.Rows {
			total += parseInt(row[1])
		}

		topTotal := 0
		for i, row := range rs.Rows {
			sessions := parseInt(row[1])
			share := 0.0
			if total > 0 {
				share = float64(sessions) / float64(total)
			}
			if i < 10 {
				figures.Labels = append(figures.Labels, row[0])
				figures.Sessions = append(figures.Sessions, sessions)
				topTotal += sessions
			}
			cells := []interface{}{row[0], row[1], share}
			res.Rows = append(res.Rows, model.TableRow{Cells: CoerceNumericCells(cells, true)})
		}

		for _, sessions := range figures.Sessions {
			share := 0.0
			if topTotal > 0 {
				share = float64(sessions) / float64(topTotal)
			}
			figures.SharePct = append(figures.SharePct, wholePercent(share))
		}

		res.Figures = figures
		return res
	}
}

// ------------------- Pages -------------------

func aggregatePages(ctx model.ReportContext, rs *model.QueryResultSet) *model.SectionResult {
	res := &model.SectionResult{
		Kind:       model.SectionPages,
		Title:      model.SectionPages.Title(),
		PercentCol: true,
	}
	figures := model.PageFigures{}
	if rs.Empty() {
		res.Headers = displayHeaders(model.QueryTemplates[model.SectionPages].Headers())
		res.Figures = figures
		return res
	}

	res.Headers = append(displayHeaders(rs.Headers), "Share")

	total := 0
	for _, row := range rs.Rows {
		total += parseInt(row[1])
	}

	topTotal := 0
	for i, row := range rs.Rows {
		pageviews := parseInt(row[1])
		duration := FormatDuration(parseFloat(row[2]))
		share := 0.0
		if total > 0 {
			share = float64(pageviews) / float64(total)
		}
		if i < 10 {
			figures.Titles = append(figures.Titles, row[0])
			figures.Pageviews = append(figures.Pageviews, pageviews)
			figures.AvgTimeOnPage = append(figures.AvgTimeOnPage, duration)
			topTotal += pageviews
		}
		cells := []interface{}{row[0], row[1], duration, share}
		res.Rows = append(res.Rows, model.TableRow{Cells: CoerceNumericCells(cells, true)})
	}

	for _, pageviews := range figures.Pageviews {
		share := 0.0
		if topTotal > 0 {
			share = float64(pageviews) / float64(topTotal)
		}
		figures.SharePct = append(figures.SharePct, wholePercent(share))
	}

	res.Figures = figures
	return res
}

// ------------------- Hourly -------------------

func aggregateHourly(ctx model.ReportContext, rs *model.QueryResultSet) *model.SectionResult {
	res := &model.SectionResult{
		Kind:    model.SectionHourly,
		Title:   model.SectionHourly.Title(),
		Headers: []string{"Hours", "Sessions"},
	}
	figures := model.HourlyFigures{}
	if rs.Empty() {
		res.Figures = figures
		return res
	}

	// Re-bucket by hour of day, keeping first-seen hour order.
	sums := make(map[int]int)
	var order []int
	for _, row := range rs.Rows {
		stamp := row[0]
		if len(stamp) < 2 {
			continue
		}
		hour, err := strconv.Atoi(stamp[len(stamp)-2:])
		if err != nil {
			continue
		}
		if _, seen := sums[hour]; !seen {
			order = append(order, hour)
		}
		sums[hour] += parseInt(row[1])
	}

	for _, hour := range order {
		figures.Hours = append(figures.Hours, strconv.Itoa(hour))
		figures.Sessions = append(figures.Sessions, sums[hour])
		res.Rows = append(res.Rows, model.TableRow{Cells: []interface{}{hour, sums[hour]}})
	}

	res.Chart = &model.ChartSpec{
		Kind:        model.ChartLine,
		Title:       "Hourly Sessions",
		Anchor:      "F7",
		DataCol:     1,
		CategoryCol: 0,
	}
	res.Figures = figures
	return res
}

// ------------------- Page Tracking -------------------

// aggregateTracking is the narrative-only rule: it never lays out a sheet.
// Self-transitions and transitions landing on the sentinel are dropped, the
// first six survivors kept in order.
func aggregateTracking(ctx model.ReportContext, rs *model.QueryResultSet) *model.SectionResult {
	res := &model.SectionResult{
		Kind:      model.SectionTracking,
		Title:     model.SectionTracking.Title(),
		SheetLess: true,
	}
	figures := model.TrackingFigures{}
	for _, row := range rs.Rows {
		if len(figures.Paths) >= 6 {
			break
		}
		if len(row) < 2 || row[0] == row[1] || row[1] == model.NotSetSentinel {
			continue
		}
		figures.Paths = append(figures.Paths, [2]string{row[0], row[1]})
	}
	res.Figures = figures
	return res
}

// ------------------- Yearly -------------------

// aggregateYearly rotates the monthly rows into a 12-month trailing window
// ending at the report month: the sequence starts at the anchor month and
// labels run sequentially from it, wrapping 13 back to 1.
func aggregateYearly(ctx model.ReportContext, rs *model.QueryResultSet) *model.SectionResult {
	res := &model.SectionResult{
		Kind:    model.SectionYearly,
		Title:   model.SectionYearly.Title(),
		Headers: []string{"Month", "Sessions"},
	}
	figures := model.YearlyFigures{}
	if rs.Empty() {
		res.Figures = figures
		return res
	}

	total := 0
	for _, row := range rs.Rows {
		total += parseInt(row[1])
	}

	start := int(ctx.AnchorDay.Month())
	pivot := start - 1
	if pivot > len(rs.Rows) {
		pivot = len(rs.Rows)
	}
	rotated := append(append([][]string{}, rs.Rows[pivot:]...), rs.Rows[:pivot]...)

	month := start
	for _, row := range rotated {
		name := time.Month(month).String()
		figures.Sessions = append(figures.Sessions, parseInt(row[1]))
		figures.MonthLabels = append(figures.MonthLabels, name[:3]+".")
		res.Rows = append(res.Rows, model.TableRow{Cells: []interface{}{name, parseInt(row[1])}})
		month++
		if month > 12 {
			month = 1
		}
	}

	figures.AvgPerMonth = int(math.Round(float64(total) / 12))
	res.Rows = append(res.Rows, model.TableRow{
		Cells: []interface{}{"Average", figures.AvgPerMonth},
		Bold:  true,
	})

	res.Chart = &model.ChartSpec{
		Kind:        model.ChartLine,
		Title:       "Yearly Sessions",
		Anchor:      "F3",
		DataCol:     1,
		DataRows:    len(rotated),
		CategoryCol: 0,
	}
	res.Figures = figures
	return res
}
