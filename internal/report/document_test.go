package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-analytics-report/internal/model"
)

// fullAccumulator aggregates a small fixture for every section so the
// document assembler sees a realistic complete run.
func fullAccumulator(t *testing.T) *model.Accumulator {
	t.Helper()

	fixtures := map[model.SectionKind][][]string{
		model.SectionOverview: {
			{"20170501", "10", "8", "40", "30", "120", "60", "50"},
			{"20170502", "20", "12", "50", "35", "180", "80", "40"},
		},
		model.SectionTrafficSources: {{"google", "60"}, {"(direct)", "30"}},
		model.SectionSearchKeywords: {{"analytics", "12"}},
		model.SectionCountries:      {{"Portugal", "100", "250", "40"}},
		model.SectionCities:         {{"Lisbon", "70", "180", "35"}},
		model.SectionPages:          {{"Home", "50", "30"}, {"About", "30", "90"}},
		model.SectionHourly:         {{"2017050109", "2"}, {"2017050114", "10"}},
		model.SectionTracking:       {{"Home", "About", "5"}},
		model.SectionYearly:         {{"1", "10"}, {"2", "14"}},
	}

	ctx := mayContext()
	acc := model.NewAccumulator()
	for _, kind := range model.AllSections() {
		res := AggregateSection(ctx, kind, resultSet(kind, fixtures[kind]))
		require.NoError(t, acc.Append(res.Figures))
	}
	require.True(t, acc.Complete())
	return acc
}

func TestDocumentAssemblerRejectsIncompleteAccumulator(t *testing.T) {
	acc := model.NewAccumulator()
	require.NoError(t, acc.Append(model.OverviewFigures{}))

	_, err := NewDocumentAssembler(mayContext(), model.CompanyInfo{}, acc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestDocumentBuild(t *testing.T) {
	company := model.CompanyInfo{Website: "www.agency.example", Phone: "+351 210 000 000"}
	d, err := NewDocumentAssembler(mayContext(), company, fullAccumulator(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, d.Build(path))
	assert.FileExists(t, path)
}

func TestDocumentBuildFromEmptySections(t *testing.T) {
	// A run where every section returned no rows still yields a document;
	// synthesis degrades to the insufficient-data prose instead of faulting.
	ctx := mayContext()
	acc := model.NewAccumulator()
	for _, kind := range model.AllSections() {
		res := AggregateSection(ctx, kind, resultSet(kind, nil))
		require.NoError(t, acc.Append(res.Figures))
	}

	d, err := NewDocumentAssembler(ctx, model.CompanyInfo{}, acc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, d.Build(path))
	assert.FileExists(t, path)
}
