package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-analytics-report/internal/model"
)

func mayRange() model.DateRange {
	return model.DateRange{
		Start: time.Date(2017, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2017, time.May, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestBusiestDay(t *testing.T) {
	day, weekday, sessions, ok := BusiestDay([]int{5, 20, 10}, mayRange())
	assert.True(t, ok)
	assert.Equal(t, 2, day)
	assert.Equal(t, "Tuesday", weekday) // 2017-05-02
	assert.Equal(t, 20, sessions)
}

func TestBusiestDayEmpty(t *testing.T) {
	_, _, _, ok := BusiestDay(nil, mayRange())
	assert.False(t, ok)
}

func TestBusiestDayTieTakesEarliest(t *testing.T) {
	day, _, sessions, ok := BusiestDay([]int{7, 7, 7}, mayRange())
	assert.True(t, ok)
	assert.Equal(t, 1, day)
	assert.Equal(t, 7, sessions)
}

func TestBusiestHours(t *testing.T) {
	first, second, firstOK, secondOK := BusiestHours(
		[]string{"9", "14", "20"}, []int{5, 10, 7})
	assert.True(t, firstOK)
	assert.True(t, secondOK)
	assert.Equal(t, "14", first)
	assert.Equal(t, "20", second)
}

func TestBusiestHoursRemovesMaxBeforeSecondPass(t *testing.T) {
	// The runner-up is a different bucket even when the max dwarfs the rest.
	first, second, _, secondOK := BusiestHours(
		[]string{"9", "14"}, []int{100, 3})
	assert.Equal(t, "9", first)
	assert.True(t, secondOK)
	assert.Equal(t, "14", second)
}

func TestBusiestHoursDegenerate(t *testing.T) {
	_, _, firstOK, secondOK := BusiestHours(nil, nil)
	assert.False(t, firstOK)
	assert.False(t, secondOK)

	first, _, firstOK, secondOK := BusiestHours([]string{"9"}, []int{5})
	assert.True(t, firstOK)
	assert.False(t, secondOK)
	assert.Equal(t, "9", first)
}

func TestLeadingNonDirect(t *testing.T) {
	lead, ok := LeadingNonDirect([]string{"(direct)", "google", "bing"})
	assert.True(t, ok)
	assert.Equal(t, "google", lead)

	// All-direct falls back to the top source.
	lead, ok = LeadingNonDirect([]string{"(direct)"})
	assert.True(t, ok)
	assert.Equal(t, "(direct)", lead)

	_, ok = LeadingNonDirect(nil)
	assert.False(t, ok)
}

func TestLeadingPage(t *testing.T) {
	page, ok := LeadingPage([]string{"(not set)", "Home", "About"})
	assert.True(t, ok)
	assert.Equal(t, "Home", page)

	page, ok = LeadingPage([]string{"Home"})
	assert.True(t, ok)
	assert.Equal(t, "Home", page)

	// A lone sentinel is still returned rather than dropping to nothing.
	page, ok = LeadingPage([]string{"(not set)"})
	assert.True(t, ok)
	assert.Equal(t, "(not set)", page)

	_, ok = LeadingPage(nil)
	assert.False(t, ok)
}

func TestTopEntry(t *testing.T) {
	label, ok := TopEntry([]string{"Lisbon", "Porto"}, []int{40, 90})
	assert.True(t, ok)
	assert.Equal(t, "Porto", label)

	_, ok = TopEntry(nil, nil)
	assert.False(t, ok)
}
