package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-analytics-report/internal/model"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))
}

func sampleSpec() model.ReportJobSpec {
	return model.ReportJobSpec{
		Profiles:  []model.Profile{{ID: "p1", Name: "My Site"}},
		StartDate: "2017-05-01",
		EndDate:   "2017-05-31",
		Source:    model.SourceSpec{Type: "csvdir", URL: "/tmp/results"},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	initTestDB(t)

	require.NoError(t, SaveReport("r1", sampleSpec()))

	report, err := GetReport("r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", report["id"])
	assert.Equal(t, "pending", report["status"])

	spec := report["spec"].(model.ReportJobSpec)
	assert.Equal(t, "My Site", spec.Profiles[0].Name)

	_, err = GetReport("missing")
	assert.Error(t, err)
}

func TestUpdateReportStatus(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveReport("r1", sampleSpec()))

	require.NoError(t, UpdateReportStatus("r1", "completed"))
	report, err := GetReport("r1")
	require.NoError(t, err)
	assert.Equal(t, "completed", report["status"])
}

func TestListReports(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveReport("r1", sampleSpec()))
	require.NoError(t, SaveReport("r2", sampleSpec()))

	reports, err := ListReports()
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestReportErrors(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveReport("r1", sampleSpec()))

	// A nil error is a no-op.
	require.NoError(t, SaveReportError("r1", "p1", nil))
	require.NoError(t, SaveReportError("r1", "p1", errors.New("upstream timed out")))

	errorsOut, err := GetReportErrors("r1")
	require.NoError(t, err)
	require.Len(t, errorsOut, 1)
	assert.Equal(t, "p1", errorsOut[0]["profileId"])
	assert.Equal(t, "upstream timed out", errorsOut[0]["message"])
}

func TestArtifacts(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveReport("r1", sampleSpec()))

	require.NoError(t, SaveArtifact("r1", "p1", model.ArtifactWorkbook, "/out/r1/site.xlsx"))
	require.NoError(t, SaveArtifact("r1", "p1", model.ArtifactDocument, "/out/r1/site.pdf"))

	artifacts, err := GetArtifacts("r1")
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, model.ArtifactWorkbook, artifacts[0].Kind)
	assert.Equal(t, "/out/r1/site.pdf", artifacts[1].Path)
	assert.Equal(t, "r1", artifacts[0].ReportID)
}

func TestProgress(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveReport("r1", sampleSpec()))

	require.NoError(t, SaveProgress("r1", model.ProgressEvent{Stage: model.StageFetching}))
	require.NoError(t, SaveProgress("r1", model.ProgressEvent{Stage: model.StageWriting, Profile: "My Site"}))
	require.NoError(t, SaveProgress("r1", model.ProgressEvent{Stage: model.StageDone}))

	events, err := GetProgress("r1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "fetching", events[0]["stage"])
	assert.Equal(t, "Writing My Site report and statistics", events[1]["message"])
	assert.Equal(t, "done", events[2]["stage"])
}
