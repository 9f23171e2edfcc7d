package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-analytics-report/internal/model"
)

func TestWorkbookLaysOutSheet(t *testing.T) {
	w, err := NewWorkbookAssembler()
	require.NoError(t, err)
	defer w.Close()

	rs := resultSet(model.SectionOverview, [][]string{
		{"20170501", "10", "8", "40", "30", "120", "60", "50"},
		{"20170502", "20", "12", "50", "35", "180", "80", "40"},
		{"20170503", "30", "20", "30", "25", "60", "40", "30"},
	})
	res := AggregateSection(mayContext(), model.SectionOverview, rs)
	require.NoError(t, w.AddSheet(res))

	f := w.File()
	sheet := res.Title

	// The first section takes over the default sheet.
	assert.Equal(t, []string{sheet}, f.GetSheetList())

	// Row 1 and column A stay blank; headers sit on row 2 from column B.
	header, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)
	corner, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Empty(t, corner)

	// Data rows start on row 3.
	got, err := f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "2017-05-01", got)
	got, err = f.GetCellValue(sheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	// One blank spacer row sits between data and the Total/Average labels.
	got, err = f.GetCellValue(sheet, "B6")
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = f.GetCellValue(sheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "Total", got)
	got, err = f.GetCellValue(sheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, "Average", got)
	got, err = f.GetCellValue(sheet, "C7")
	require.NoError(t, err)
	assert.Equal(t, "60", got)
}

func TestWorkbookPercentFormatStaysOnBounceColumn(t *testing.T) {
	w, err := NewWorkbookAssembler()
	require.NoError(t, err)
	defer w.Close()

	rs := resultSet(model.SectionOverview, [][]string{
		{"20170501", "10", "8", "40", "30", "120", "60", "50"},
		{"20170502", "20", "12", "50", "35", "180", "80", "40"},
		{"20170503", "30", "20", "30", "25", "60", "40", "30"},
	})
	res := AggregateSection(mayContext(), model.SectionOverview, rs)
	require.NoError(t, w.AddSheet(res))

	f := w.File()
	sheet := res.Title

	// Bounce rate renders as a percentage on data rows and on the Average row.
	got, err := f.GetCellValue(sheet, "I3")
	require.NoError(t, err)
	assert.Equal(t, "50%", got)
	got, err = f.GetCellValue(sheet, "I8")
	require.NoError(t, err)
	assert.Equal(t, "40%", got)

	// The label rows' trailing cells are plain counts, not percentages: the
	// Total row ends on unique pageviews, the Average row on pages/session.
	got, err = f.GetCellValue(sheet, "F7")
	require.NoError(t, err)
	assert.Equal(t, "90", got)
	got, err = f.GetCellValue(sheet, "J8")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestWorkbookMultipleSheets(t *testing.T) {
	w, err := NewWorkbookAssembler()
	require.NoError(t, err)
	defer w.Close()

	geo := AggregateSection(mayContext(), model.SectionCountries, resultSet(model.SectionCountries, [][]string{
		{"Portugal", "100", "250", "40"},
	}))
	hourly := AggregateSection(mayContext(), model.SectionHourly, resultSet(model.SectionHourly, [][]string{
		{"2017050109", "2"},
	}))
	require.NoError(t, w.AddSheet(geo))
	require.NoError(t, w.AddSheet(hourly))

	assert.Equal(t, []string{"Sessions (Countries)", "Sessions (Hourly)"}, w.File().GetSheetList())
}

func TestWorkbookSkipsSheetLessSections(t *testing.T) {
	w, err := NewWorkbookAssembler()
	require.NoError(t, err)
	defer w.Close()

	tracking := AggregateSection(mayContext(), model.SectionTracking, resultSet(model.SectionTracking, [][]string{
		{"A", "B", "5"},
	}))
	require.NoError(t, w.AddSheet(tracking))

	// Still only the pristine default sheet.
	assert.Equal(t, 1, len(w.File().GetSheetList()))
	assert.Equal(t, "Sheet1", w.File().GetSheetList()[0])
}

func TestWorkbookEmptySection(t *testing.T) {
	w, err := NewWorkbookAssembler()
	require.NoError(t, err)
	defer w.Close()

	empty := AggregateSection(mayContext(), model.SectionSearchKeywords, resultSet(model.SectionSearchKeywords, nil))
	require.NoError(t, w.AddSheet(empty))

	header, err := w.File().GetCellValue("Search Keywords", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Keyword", header)
}

func TestWorkbookSave(t *testing.T) {
	w, err := NewWorkbookAssembler()
	require.NoError(t, err)
	defer w.Close()

	res := AggregateSection(mayContext(), model.SectionHourly, resultSet(model.SectionHourly, [][]string{
		{"2017050109", "2"},
		{"2017050114", "7"},
	}))
	require.NoError(t, w.AddSheet(res))

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, w.Save(path))
	assert.FileExists(t, path)
}
