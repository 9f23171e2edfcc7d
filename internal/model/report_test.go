package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAllSectionsOrder(t *testing.T) {
	kinds := AllSections()
	assert.Len(t, kinds, SectionCount)

	ids := make([]string, 0, len(kinds))
	for _, k := range kinds {
		ids = append(ids, k.ID())
	}
	assert.Equal(t, []string{
		"session", "access", "search", "country", "city",
		"page", "daily", "tracking", "yearly",
	}, ids)
}

func TestQueryTemplateHeaders(t *testing.T) {
	headers := QueryTemplates[SectionOverview].Headers()
	assert.Equal(t, []string{
		"date", "sessions", "users", "pageviews", "uniquePageviews",
		"avgSessionDuration", "avgTimeOnPage", "bounceRate",
	}, headers)

	assert.Equal(t, []string{"landingPagePath", "secondPagePath", "entrances"},
		QueryTemplates[SectionTracking].Headers())
}

func TestNormalizeWebsiteURL(t *testing.T) {
	p := Profile{WebsiteURL: "example.com"}
	p.NormalizeWebsiteURL()
	assert.Equal(t, "http://example.com/", p.WebsiteURL)

	p = Profile{WebsiteURL: "https://example.com/"}
	p.NormalizeWebsiteURL()
	assert.Equal(t, "https://example.com/", p.WebsiteURL)

	p = Profile{}
	p.NormalizeWebsiteURL()
	assert.Empty(t, p.WebsiteURL)
}

func TestNewReportContextAnchor(t *testing.T) {
	rng := DateRange{Start: date(2017, time.May, 1), End: date(2017, time.May, 31)}
	ctx := NewReportContext(Profile{Name: "Site"}, rng)
	assert.Equal(t, date(2016, time.June, 1), ctx.AnchorDay)

	// December ends wrap to January of the previous year.
	rng = DateRange{Start: date(2017, time.December, 1), End: date(2017, time.December, 31)}
	ctx = NewReportContext(Profile{Name: "Site"}, rng)
	assert.Equal(t, date(2016, time.January, 1), ctx.AnchorDay)
}

func TestBaseFileName(t *testing.T) {
	rng := DateRange{Start: date(2017, time.May, 1), End: date(2017, time.May, 31)}
	ctx := NewReportContext(Profile{Name: "My Site"}, rng)
	assert.Equal(t, "My Site 2017-05-01 2017-05-31", ctx.BaseFileName())
}

func TestDateRangeDays(t *testing.T) {
	rng := DateRange{Start: date(2017, time.May, 1), End: date(2017, time.May, 31)}
	assert.Equal(t, 31, rng.Days())

	rng = DateRange{Start: date(2017, time.May, 1), End: date(2017, time.May, 1)}
	assert.Equal(t, 1, rng.Days())
}

func TestReportJobSpecValidate(t *testing.T) {
	valid := ReportJobSpec{
		Profiles:  []Profile{{ID: "1", Name: "Site"}},
		StartDate: "2017-05-01",
		EndDate:   "2017-05-31",
		Source:    SourceSpec{Type: "csvdir", URL: "/tmp/results"},
	}
	assert.NoError(t, valid.Validate())

	noProfiles := valid
	noProfiles.Profiles = nil
	assert.Error(t, noProfiles.Validate())

	badSource := valid
	badSource.Source.Type = "ftp"
	assert.Error(t, badSource.Validate())

	inverted := valid
	inverted.StartDate, inverted.EndDate = inverted.EndDate, inverted.StartDate
	assert.Error(t, inverted.Validate())
}

func TestProgressEventString(t *testing.T) {
	assert.Equal(t, "Fetching query results", ProgressEvent{Stage: StageFetching}.String())
	assert.Equal(t, "Writing My Site report and statistics",
		ProgressEvent{Stage: StageWriting, Profile: "My Site"}.String())
	assert.Equal(t, "done", ProgressEvent{Stage: StageDone}.String())
}
