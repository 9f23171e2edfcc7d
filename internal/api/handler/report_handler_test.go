package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-analytics-report/internal/store"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "test.db")))
}

func TestCreateReportRejectsBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	CreateReport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReportRejectsInvalidSpec(t *testing.T) {
	// Valid JSON, but no profiles.
	body := `{"startDate":"2017-05-01","endDate":"2017-05-31","source":{"type":"csvdir","url":"/tmp/x"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()

	CreateReport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "profile")
}

func TestGetReportNotFound(t *testing.T) {
	initTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/missing-id", nil)
	rec := httptest.NewRecorder()

	GetReport(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetReportErrorsRequiresID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports//errors", nil)
	rec := httptest.NewRecorder()

	GetReportErrors(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReportsEmpty(t *testing.T) {
	initTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	rec := httptest.NewRecorder()

	ListReports(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDownloadArtifactMissingFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/r1/missing.pdf", nil)
	rec := httptest.NewRecorder()

	DownloadArtifact(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
