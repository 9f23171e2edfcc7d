package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-analytics-report/internal/model"
)

func writeFixture(t *testing.T, dir, profileID, name, content string) {
	t.Helper()
	profileDir := filepath.Join(dir, profileID)
	require.NoError(t, os.MkdirAll(profileDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(profileDir, name), []byte(content), 0644))
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(model.SourceSpec{Type: "csvdir", URL: "/tmp/results"})
	require.NoError(t, err)
	assert.IsType(t, &CSVDirSource{}, src)

	src, err = NewSource(model.SourceSpec{Type: "http", URL: "http://localhost:9000/query"})
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	_, err = NewSource(model.SourceSpec{Type: "ftp"})
	assert.Error(t, err)
}

func TestCSVDirSourceFetch(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "p1", "access.csv",
		"source,sessions\ngoogle,60\n(direct),30\n")

	src := &CSVDirSource{Dir: dir}
	rs, err := src.Fetch(context.Background(), model.Profile{ID: "p1"}, model.SectionTrafficSources, mayRange())
	require.NoError(t, err)

	assert.Equal(t, []string{"source", "sessions"}, rs.Headers)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, []string{"google", "60"}, rs.Rows[0])
}

func TestCSVDirSourceCleansQuotedHeaders(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "p1", "search.csv",
		"\"keyword\", \"sessions\"\nanalytics,12\n")

	src := &CSVDirSource{Dir: dir}
	rs, err := src.Fetch(context.Background(), model.Profile{ID: "p1"}, model.SectionSearchKeywords, mayRange())
	require.NoError(t, err)
	assert.Equal(t, []string{"keyword", "sessions"}, rs.Headers)
}

func TestCSVDirSourceMissingFileIsEmpty(t *testing.T) {
	src := &CSVDirSource{Dir: t.TempDir()}
	rs, err := src.Fetch(context.Background(), model.Profile{ID: "p1"}, model.SectionCountries, mayRange())
	require.NoError(t, err)

	assert.True(t, rs.Empty())
	assert.Equal(t, model.QueryTemplates[model.SectionCountries].Headers(), rs.Headers)
}

func TestCSVDirSourceMalformedRow(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "p1", "access.csv",
		"source,sessions\ngoogle,60\nbroken-row-with-one-cell\n")

	src := &CSVDirSource{Dir: dir}
	_, err := src.Fetch(context.Background(), model.Profile{ID: "p1"}, model.SectionTrafficSources, mayRange())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestCSVDirSourceRejectsMissingColumns(t *testing.T) {
	// Internally consistent but two columns short of the country query: the
	// aggregation rules index by column position and must never see it.
	dir := t.TempDir()
	writeFixture(t, dir, "p1", "country.csv",
		"country,sessions\nPortugal,100\n")

	src := &CSVDirSource{Dir: dir}
	_, err := src.Fetch(context.Background(), model.Profile{ID: "p1"}, model.SectionCountries, mayRange())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestCSVDirSourceHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "p1", "access.csv",
		"source,sessions\ngoogle,60\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &CSVDirSource{Dir: dir}
	_, err := src.Fetch(ctx, model.Profile{ID: "p1"}, model.SectionTrafficSources, mayRange())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "p1", r.URL.Query().Get("profile"))
		assert.Equal(t, "country", r.URL.Query().Get("section"))
		assert.Equal(t, "2017-05-01", r.URL.Query().Get("start"))
		assert.Equal(t, "2017-05-31", r.URL.Query().Get("end"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"columnHeaders": []string{"country", "sessions", "pageviews", "bounceRate"},
			"rows":          [][]string{{"Portugal", "100", "250", "40"}},
		})
	}))
	defer srv.Close()

	src := &HTTPSource{BaseURL: srv.URL, Client: srv.Client()}
	rs, err := src.Fetch(context.Background(), model.Profile{ID: "p1"}, model.SectionCountries, mayRange())
	require.NoError(t, err)

	require.Len(t, rs.Rows, 1)
	assert.Equal(t, []string{"Portugal", "100", "250", "40"}, rs.Rows[0])
}

func TestHTTPSourceUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := &HTTPSource{BaseURL: srv.URL, Client: srv.Client()}
	_, err := src.Fetch(context.Background(), model.Profile{ID: "p1"}, model.SectionOverview, mayRange())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPSourceMalformedRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"columnHeaders": []string{"source", "sessions"},
			"rows":          [][]string{{"google"}},
		})
	}))
	defer srv.Close()

	src := &HTTPSource{BaseURL: srv.URL, Client: srv.Client()}
	_, err := src.Fetch(context.Background(), model.Profile{ID: "p1"}, model.SectionTrafficSources, mayRange())
	assert.ErrorIs(t, err, ErrMalformedRow)
}
