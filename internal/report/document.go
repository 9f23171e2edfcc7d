package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"go-analytics-report/internal/model"
)

// ------------------- Narrative Document Assembler -------------------

// Page geometry (A4, mm).
const (
	pageWidth   = 210.0
	marginX     = 20.0
	contentW    = pageWidth - 2*marginX
	chartWidth  = 150.0
	chartHeight = 65.0
	lineHeight  = 6.0
)

// insufficientData is the prose fallback substituted whenever a synthesis
// step has too few candidates to rank.
const insufficientData = "insufficient data"

// DocumentAssembler turns a complete narrative accumulator into the
// paginated PDF report: cover, linked table of contents, nine prose/table/
// chart sections, and a synthesized conclusion.
type DocumentAssembler struct {
	ctx     model.ReportContext
	company model.CompanyInfo
	acc     *model.Accumulator
	pdf     *fpdf.Fpdf
	links   []int // section number (1-9) -> internal link id
}

// NewDocumentAssembler wires an assembler to a completed accumulator. The
// accumulator must hold all nine sections; partial consumption is a pipeline
// bug, not a recoverable state.
func NewDocumentAssembler(ctx model.ReportContext, company model.CompanyInfo, acc *model.Accumulator) (*DocumentAssembler, error) {
	if !acc.Complete() {
		return nil, fmt.Errorf("narrative accumulator incomplete: %d of %d sections", acc.Len(), model.SectionCount)
	}
	return &DocumentAssembler{ctx: ctx, company: company, acc: acc}, nil
}

// Build renders and persists the document.
func (d *DocumentAssembler) Build(path string) error {
	d.pdf = fpdf.New("P", "mm", "A4", "")
	d.pdf.SetMargins(marginX, 20, marginX)
	d.pdf.AliasNbPages("")

	d.links = make([]int, 10)
	d.pdf.SetFooterFunc(d.pageFooter)
	d.pdf.SetHeaderFuncMode(d.pageHeader, true)

	d.coverPage()
	for i := 1; i <= 9; i++ {
		d.links[i] = d.pdf.AddLink()
	}
	d.tableOfContents()
	d.globalStatistics()
	d.visitorGeography()
	d.hourlyAndSources()
	d.keywordsAndPaths()
	d.pagesAndYearly()
	d.conclusion()

	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return persistenceErr(path, err)
	}
	return nil
}

func (d *DocumentAssembler) pageHeader() {
	if d.pdf.PageNo() <= 1 {
		return
	}
	d.pdf.SetFont("Helvetica", "I", 8)
	d.pdf.SetTextColor(90, 90, 90)
	d.pdf.CellFormat(0, 5, "Monthly Visits Report - "+d.ctx.Profile.Name, "", 1, "L", false, 0, "")
	d.pdf.SetDrawColor(41, 163, 163)
	d.pdf.Line(marginX, d.pdf.GetY()+1, pageWidth-marginX, d.pdf.GetY()+1)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Ln(6)
}

func (d *DocumentAssembler) pageFooter() {
	if d.pdf.PageNo() <= 1 {
		return
	}
	month, year := monthYear(d.ctx.Range.End)
	d.pdf.SetY(-22)
	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetTextColor(90, 90, 90)
	d.pdf.CellFormat(contentW/2, 5, "Monthly Visits Report - "+d.ctx.Profile.Name, "", 0, "L", false, 0, "")
	d.pdf.CellFormat(contentW/2, 5,
		fmt.Sprintf("%s %s %s | Page %d/{nb}", month, year, time.Now().Format("2006-01-02"), d.pdf.PageNo()),
		"", 1, "R", false, 0, "")
	d.pdf.CellFormat(0, 5, fmt.Sprintf("%s | Tel: %s", d.company.Website, d.company.Phone), "", 1, "R", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

// ------------------- Pages -------------------

func (d *DocumentAssembler) coverPage() {
	d.pdf.AddPage()
	month, year := monthYear(d.ctx.Range.End)

	d.pdf.SetY(100)
	d.pdf.SetFont("Helvetica", "", 30)
	d.pdf.CellFormat(0, 14, "Monthly Report of", "", 1, "C", false, 0, "")
	d.pdf.CellFormat(0, 14, fmt.Sprintf("%s %s", month, year), "", 1, "C", false, 0, "")
	d.pdf.Ln(4)
	d.pdf.SetTextColor(0, 0, 153)
	d.pdf.SetFont("Helvetica", "", 18)
	d.pdf.CellFormat(0, 10, d.ctx.Profile.Name, "", 1, "C", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)

	d.pdf.SetY(-35)
	d.pdf.SetFont("Times", "", 9)
	d.pdf.CellFormat(0, 6, fmt.Sprintf("%s | Tel: %s", d.company.Website, d.company.Phone), "", 1, "C", false, 0, "")
}

func (d *DocumentAssembler) tableOfContents() {
	d.pdf.AddPage()
	d.pdf.Ln(20)

	entries := []struct {
		label string
		sub   bool
		sect  int
		page  int
	}{
		{"1. Global Statistics", false, 1, 3},
		{"1.1. Sessions", true, 1, 3},
		{"1.2. Pageviews", true, 1, 3},
		{"1.3. Average Time on Website", true, 1, 3},
		{"1.4. Bounce Rate", true, 1, 3},
		{"2. Visitor Geography", false, 2, 4},
		{"3. Sessions by Hour of Day", false, 3, 5},
		{"4. Website Traffic Sources", false, 4, 5},
		{"5. Search Engine Keywords", false, 5, 6},
		{"6. Visit History - Typical Session Paths", false, 6, 6},
		{"7. Visited Website Areas - Pageview Ranking", false, 7, 7},
		{"8. Sessions Across the Year", false, 8, 7},
		{"9. Conclusion", false, 9, 8},
	}
	for _, e := range entries {
		if e.sub {
			d.pdf.SetFont("Helvetica", "", 12)
			d.pdf.CellFormat(8, 8, "", "", 0, "L", false, 0, "")
			d.pdf.CellFormat(contentW-16, 8, e.label, "", 0, "L", false, d.links[e.sect], "")
		} else {
			d.pdf.SetFont("Helvetica", "B", 13)
			d.pdf.CellFormat(contentW-8, 8, e.label, "", 0, "L", false, d.links[e.sect], "")
		}
		d.pdf.CellFormat(8, 8, strconv.Itoa(e.page), "", 1, "R", false, d.links[e.sect], "")
	}
}

func (d *DocumentAssembler) globalStatistics() {
	d.pdf.AddPage()
	d.pdf.SetLink(d.links[1], 0, -1)
	overview := d.acc.Overview()

	d.heading("1. Global Statistics")
	d.subheading("1.1. Sessions")
	d.barChart(overview.DailySessions, dayLabels(len(overview.DailySessions)), 71, 209, 71)
	d.richPara(
		seg{"During this period the website received ", false},
		itoa(overview.TotalSessions),
		seg{" visits, from ", false},
		itoa(overview.TotalUsers),
		seg{" unique visitors, averaging ", false},
		itoa(overview.AvgSessionsPerDay),
		seg{" visits per day.", false},
	)

	d.subheading("1.2. Pageviews")
	d.richPara(
		seg{"Across the ", false},
		itoa(overview.TotalSessions),
		seg{" recorded visits, ", false},
		itoa(overview.TotalPageviews),
		seg{" pages were viewed. Each visit browsed ", false},
		seg{fmt.Sprintf("%.1f", overview.AvgPagesPerSession), true},
		seg{" pages on average.", false},
	)

	d.subheading("1.3. Average Time on Website")
	d.richPara(
		seg{"The average visit length for the period was ", false},
		seg{overview.AvgSessionDuration, true},
		seg{".", false},
	)

	d.subheading("1.4. Bounce Rate")
	d.richPara(
		seg{"The period closed with a bounce rate¹ of ", false},
		seg{overview.BounceRatePct, true},
		seg{".", false},
	)
	d.footnote("¹ Percentage of visitors who viewed a single page only")
}

func (d *DocumentAssembler) visitorGeography() {
	d.pdf.AddPage()
	d.pdf.SetLink(d.links[2], 0, -1)
	d.heading("2. Visitor Geography")

	countries := d.acc.Countries()
	d.rankedTable(
		[]string{"Countries", "Sessions", "Pages/Session", "Bounce Rate"},
		countries.Labels, intColumn(countries.Sessions), floatColumn(countries.PagesPerSession), countries.BounceRatePct,
	)
	d.pdf.Ln(10)

	cities := d.acc.Cities()
	d.rankedTable(
		[]string{"Cities", "Sessions", "Pages/Session", "Bounce Rate"},
		cities.Labels, intColumn(cities.Sessions), floatColumn(cities.PagesPerSession), cities.BounceRatePct,
	)
}

func (d *DocumentAssembler) hourlyAndSources() {
	d.pdf.AddPage()
	d.pdf.SetLink(d.links[3], 0, -1)
	d.heading("3. Sessions by Hour of Day")

	hourly := d.acc.Hourly()
	d.lineChart(hourly.Sessions, hourly.Hours)
	d.richPara(seg{"The chart above shows total visits distributed across the 24 hours of the day.", false})
	d.pdf.Ln(4)

	d.pdf.SetLink(d.links[4], 0, -1)
	d.heading("4. Website Traffic Sources")
	sources := d.acc.TrafficSources()
	d.rankedTable(
		[]string{"Origin", "Visits", "% Visits"},
		sources.Labels, intColumn(sources.Sessions), sources.SharePct,
	)
}

func (d *DocumentAssembler) keywordsAndPaths() {
	d.pdf.AddPage()
	d.pdf.SetLink(d.links[5], 0, -1)
	d.heading("5. Search Engine Keywords")

	keywords := d.acc.SearchKeywords()
	d.rankedTable(
		[]string{"Keywords²", "Visits", "% Visits"},
		keywords.Labels, intColumn(keywords.Sessions), keywords.SharePct,
	)
	d.footnote("² The keywords most used to find the website on search engines")
	d.pdf.Ln(6)

	d.pdf.SetLink(d.links[6], 0, -1)
	d.heading("6. Visit History - Typical Session Paths")
	tracking := d.acc.Tracking()

	d.pdf.SetFont("Helvetica", "U", 11)
	d.pdf.CellFormat(0, 7, "Most useful path for visitors:", "", 1, "L", false, 0, "")
	d.pdf.Ln(1)
	if len(tracking.Paths) == 0 {
		d.italicLine("No useful paths available")
	} else {
		d.pathLine(1, tracking.Paths[0])
	}
	d.pdf.Ln(4)

	d.pdf.SetFont("Helvetica", "U", 11)
	d.pdf.CellFormat(0, 7, "Other useful paths:", "", 1, "L", false, 0, "")
	d.pdf.Ln(1)
	if len(tracking.Paths) < 2 {
		d.italicLine("No useful paths available")
	} else {
		for i, path := range tracking.Paths[1:] {
			d.pathLine(i+2, path)
		}
	}
}

func (d *DocumentAssembler) pagesAndYearly() {
	d.pdf.AddPage()
	d.pdf.SetLink(d.links[7], 0, -1)
	d.heading("7. Visited Website Areas - Pageview Ranking")

	pages := d.acc.Pages()
	d.rankedTable(
		[]string{"Page Title", "Pageviews", "% Pageviews", "Avg. Time"},
		pages.Titles, intColumn(pages.Pageviews), pages.SharePct, pages.AvgTimeOnPage,
	)
	d.pdf.Ln(6)

	d.pdf.SetLink(d.links[8], 0, -1)
	d.heading("8. Sessions Across the Year")
	yearly := d.acc.Yearly()
	d.barChart(yearly.Sessions, yearly.MonthLabels, 128, 204, 255)
	d.richPara(
		seg{"The website averaged ", false},
		itoa(yearly.AvgPerMonth),
		seg{" visits per month over the trailing twelve months.", false},
	)
}

func (d *DocumentAssembler) conclusion() {
	d.pdf.AddPage()
	d.pdf.SetLink(d.links[9], 0, -1)
	d.heading("9. Conclusion")

	overview := d.acc.Overview()
	month, _ := monthYear(d.ctx.Range.End)

	if day, weekday, sessions, ok := BusiestDay(overview.DailySessions, d.ctx.Range); ok {
		parts := []seg{
			{"In summary, the busiest day was ", false},
			{fmt.Sprintf("%s %d (%s)", month, day, weekday), true},
			{" with ", false},
			itoa(sessions),
			{" visits", false},
		}
		cities := d.acc.Cities()
		if city, ok := TopEntry(cities.Labels, cities.Sessions); ok {
			parts = append(parts,
				seg{", most of which originated from ", false},
				seg{city, true},
			)
		}
		parts = append(parts, seg{".", false})
		d.richPara(parts...)
	} else {
		d.richPara(seg{"In summary, the daily series carries " + insufficientData + " to rank the busiest day.", false})
	}
	d.pdf.Ln(2)

	sources := d.acc.TrafficSources()
	if lead, ok := LeadingNonDirect(sources.Labels); ok {
		share := insufficientData
		for i, label := range sources.Labels {
			if label == lead && i < len(sources.SharePct) {
				share = sources.SharePct[i]
			}
		}
		parts := []seg{
			{"On the other hand, ", false},
			{share, true},
			{" of website accesses arrived through ", false},
			{lead, true},
		}
		keywords := d.acc.SearchKeywords()
		if top, ok := TopEntry(keywords.Labels, keywords.Sessions); ok {
			parts = append(parts,
				seg{" and the most used keyword was ", false},
				seg{top, true},
			)
		}
		parts = append(parts, seg{".", false})
		d.richPara(parts...)
	} else {
		d.richPara(seg{"The traffic source ranking carries " + insufficientData + ".", false})
	}
	d.pdf.Ln(2)

	pages := d.acc.Pages()
	hourly := d.acc.Hourly()
	parts := []seg{}
	if page, ok := LeadingPage(pages.Titles); ok {
		parts = append(parts,
			seg{"The most visited page besides the home page was ", false},
			seg{TruncateText(page), true},
		)
	} else {
		parts = append(parts, seg{"The page ranking carries " + insufficientData, false})
	}
	first, second, firstOK, secondOK := BusiestHours(hourly.Hours, hourly.Sessions)
	switch {
	case firstOK && secondOK:
		parts = append(parts,
			seg{", and the daily periods with the most traffic were at ", false},
			seg{first + "h", true},
			seg{" and ", false},
			seg{second + "h", true},
		)
	case firstOK:
		parts = append(parts,
			seg{", and the daily period with the most traffic was at ", false},
			seg{first + "h", true},
			seg{" (" + insufficientData + " for a second period)", false},
		)
	default:
		parts = append(parts, seg{", and the hourly series carries " + insufficientData, false})
	}
	parts = append(parts, seg{".", false})
	d.richPara(parts...)
}

// ------------------- Building Blocks -------------------

// seg is one run of prose, optionally bold.
type seg struct {
	text string
	bold bool
}

// itoa wraps a number as a bold segment; interpolated figures are bold.
func itoa(n int) seg {
	return seg{strconv.Itoa(n), true}
}

func (d *DocumentAssembler) heading(title string) {
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	d.pdf.Ln(2)
}

func (d *DocumentAssembler) subheading(title string) {
	d.pdf.SetFont("Helvetica", "", 13)
	d.pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	d.pdf.Ln(1)
}

func (d *DocumentAssembler) richPara(parts ...seg) {
	for _, p := range parts {
		style := ""
		if p.bold {
			style = "B"
		}
		d.pdf.SetFont("Helvetica", style, 11)
		d.pdf.Write(lineHeight, p.text)
	}
	d.pdf.Ln(lineHeight)
	d.pdf.Ln(3)
}

func (d *DocumentAssembler) footnote(text string) {
	d.pdf.SetFont("Helvetica", "", 7)
	d.pdf.CellFormat(0, 5, text, "", 1, "L", false, 0, "")
}

func (d *DocumentAssembler) italicLine(text string) {
	d.pdf.SetFont("Helvetica", "I", 11)
	d.pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
}

func (d *DocumentAssembler) pathLine(rank int, path [2]string) {
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.Write(lineHeight, fmt.Sprintf("%d) ", rank))
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.Write(lineHeight, TruncateText(path[0]))
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.Write(lineHeight, " > ")
	d.pdf.SetFont("Helvetica", "", 11)
	d.pdf.Write(lineHeight, TruncateText(path[1]))
	d.pdf.Ln(lineHeight)
}

// rankedTable lays out a ranked list as a fixed ten-body-row table: shorter
// lists pad with blank rows, longer ones truncate. The first column takes
// the remaining width after the metric columns.
func (d *DocumentAssembler) rankedTable(headers []string, columns ...[]string) {
	const bodyRows = 10
	metricW := 30.0
	firstW := contentW - metricW*float64(len(headers)-1)

	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetFillColor(41, 163, 163)
	d.pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		w := metricW
		if i == 0 {
			w = firstW
		}
		d.pdf.CellFormat(w, 7, h, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont("Helvetica", "", 9)

	for row := 0; row < bodyRows; row++ {
		fill := row%2 == 1
		d.pdf.SetFillColor(194, 240, 240)
		for col := range headers {
			w := metricW
			align := "C"
			if col == 0 {
				w = firstW
				align = "L"
			}
			value := ""
			if col < len(columns) && row < len(columns[col]) {
				value = TruncateText(columns[col][row])
			}
			d.pdf.CellFormat(w, 6.5, value, "1", 0, align, fill, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func dayLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

func intColumn(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func floatColumn(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%.2f", v)
	}
	return out
}

// barChart draws a vertical bar chart with the given fill color, centered
// on the content width, with category labels under the axis.
func (d *DocumentAssembler) barChart(values []int, labels []string, r, g, b int) {
	x0 := marginX + (contentW-chartWidth)/2
	y0 := d.pdf.GetY() + 2
	d.drawAxes(x0, y0)

	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		d.finishChart(y0)
		return
	}

	n := float64(len(values))
	slot := chartWidth / n
	barW := slot * 0.65
	for i, v := range values {
		h := chartHeight * float64(v) / float64(max)
		x := x0 + float64(i)*slot + (slot-barW)/2
		d.pdf.SetFillColor(r, g, b)
		d.pdf.Rect(x, y0+chartHeight-h, barW, h, "F")
	}
	d.categoryLabels(x0, y0, labels)
	d.finishChart(y0)
}

// lineChart draws a connected line over evenly spaced points.
func (d *DocumentAssembler) lineChart(values []int, labels []string) {
	x0 := marginX + (contentW-chartWidth)/2
	y0 := d.pdf.GetY() + 2
	d.drawAxes(x0, y0)

	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max == 0 || len(values) < 2 {
		d.finishChart(y0)
		return
	}

	slot := chartWidth / float64(len(values))
	d.pdf.SetDrawColor(41, 163, 163)
	d.pdf.SetLineWidth(0.5)
	prevX, prevY := 0.0, 0.0
	for i, v := range values {
		x := x0 + float64(i)*slot + slot/2
		y := y0 + chartHeight - chartHeight*float64(v)/float64(max)
		if i > 0 {
			d.pdf.Line(prevX, prevY, x, y)
		}
		prevX, prevY = x, y
	}
	d.pdf.SetLineWidth(0.2)
	d.categoryLabels(x0, y0, labels)
	d.finishChart(y0)
}

func (d *DocumentAssembler) drawAxes(x0, y0 float64) {
	d.pdf.SetDrawColor(120, 120, 120)
	d.pdf.Line(x0, y0, x0, y0+chartHeight)
	d.pdf.Line(x0, y0+chartHeight, x0+chartWidth, y0+chartHeight)
}

func (d *DocumentAssembler) categoryLabels(x0, y0 float64, labels []string) {
	if len(labels) == 0 {
		return
	}
	slot := chartWidth / float64(len(labels))
	d.pdf.SetFont("Helvetica", "", 5)
	for i, label := range labels {
		d.pdf.SetXY(x0+float64(i)*slot, y0+chartHeight+1)
		d.pdf.CellFormat(slot, 3, label, "", 0, "C", false, 0, "")
	}
}

func (d *DocumentAssembler) finishChart(y0 float64) {
	d.pdf.SetXY(marginX, y0+chartHeight+6)
	d.pdf.SetFont("Helvetica", "", 11)
}
