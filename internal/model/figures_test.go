package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allFigures() []Figures {
	return []Figures{
		OverviewFigures{TotalSessions: 60},
		RankedFigures{Section: SectionTrafficSources, Labels: []string{"google"}},
		RankedFigures{Section: SectionSearchKeywords},
		GeoFigures{Section: SectionCountries},
		GeoFigures{Section: SectionCities},
		PageFigures{},
		HourlyFigures{},
		TrackingFigures{},
		YearlyFigures{AvgPerMonth: 7},
	}
}

func TestAccumulatorEnforcesOrder(t *testing.T) {
	acc := NewAccumulator()

	// Traffic sources cannot come before the overview.
	err := acc.Append(RankedFigures{Section: SectionTrafficSources})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out-of-order")
	assert.Equal(t, 0, acc.Len())
}

func TestAccumulatorCompletes(t *testing.T) {
	acc := NewAccumulator()
	for _, f := range allFigures() {
		require.NoError(t, acc.Append(f))
	}
	assert.True(t, acc.Complete())

	// A tenth entry is rejected.
	assert.Error(t, acc.Append(OverviewFigures{}))

	assert.Equal(t, 60, acc.Overview().TotalSessions)
	assert.Equal(t, []string{"google"}, acc.TrafficSources().Labels)
	assert.Equal(t, 7, acc.Yearly().AvgPerMonth)
}

func TestAccumulatorIncomplete(t *testing.T) {
	acc := NewAccumulator()
	require.NoError(t, acc.Append(OverviewFigures{}))
	assert.False(t, acc.Complete())
	assert.Equal(t, 1, acc.Len())
}
