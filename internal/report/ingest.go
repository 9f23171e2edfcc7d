package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-analytics-report/internal/model"
	"go-analytics-report/pkg/utils"
)

// ------------------- Result-Set Ingestion -------------------

// ResultSource materializes one section's query results for one profile.
// The query transport (auth, remote API) lives behind this boundary; both
// built-in sources consume already-run query output.
type ResultSource interface {
	Fetch(ctx context.Context, profile model.Profile, kind model.SectionKind, rng model.DateRange) (*model.QueryResultSet, error)
}

// NewSource builds the source a job spec asks for.
func NewSource(spec model.SourceSpec) (ResultSource, error) {
	switch spec.Type {
	case "csvdir":
		return &CSVDirSource{Dir: spec.URL}, nil
	case "http":
		timeout := utils.ParseDuration(os.Getenv("REPORT_HTTP_TIMEOUT"), 30*time.Second)
		return &HTTPSource{BaseURL: spec.URL, Client: &http.Client{Timeout: timeout}}, nil
	}
	return nil, fmt.Errorf("unknown source type: %s", spec.Type)
}

// validateResultSet enforces the column arity invariants. The header must
// carry exactly the columns the section's query asks for, and every row must
// match the header: a misaligned result would corrupt every running sum
// downstream, so there is no partial recovery.
func validateResultSet(rs *model.QueryResultSet) error {
	want := len(model.QueryTemplates[rs.Section].Headers())
	if len(rs.Headers) != want {
		return fmt.Errorf("%w: section %s has %d columns, query asks for %d",
			ErrMalformedRow, rs.Section.ID(), len(rs.Headers), want)
	}
	for i, row := range rs.Rows {
		if len(row) != len(rs.Headers) {
			return fmt.Errorf("%w: section %s row %d has %d cells, header has %d",
				ErrMalformedRow, rs.Section.ID(), i, len(row), len(rs.Headers))
		}
	}
	return nil
}

// CSVDirSource reads one CSV per section under <dir>/<profileID>/<sectionID>.csv
// with the column headers on the first line. A missing file is an empty
// result set, not an error: sections legitimately return no rows.
type CSVDirSource struct {
	Dir string
}

func (s *CSVDirSource) Fetch(ctx context.Context, profile model.Profile, kind model.SectionKind, rng model.DateRange) (*model.QueryResultSet, error) {
	path := filepath.Join(s.Dir, profile.ID, kind.ID()+".csv")

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return &model.QueryResultSet{Section: kind, Headers: model.QueryTemplates[kind].Headers()}, nil
	}
	if err != nil {
		return nil, upstreamErr(kind.ID(), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	headers, err := reader.Read()
	if err == io.EOF {
		return &model.QueryResultSet{Section: kind, Headers: model.QueryTemplates[kind].Headers()}, nil
	}
	if err != nil {
		return nil, upstreamErr(kind.ID(), fmt.Errorf("read CSV header: %w", err))
	}
	for i := range headers {
		headers[i] = cleanHeader(headers[i])
	}

	rs := &model.QueryResultSet{Section: kind, Headers: headers}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A short or long record is an arity violation, not a transport
			// problem; surface it as malformed.
			return nil, fmt.Errorf("%w: section %s: %v", ErrMalformedRow, kind.ID(), err)
		}
		rs.Rows = append(rs.Rows, row)
	}

	if err := validateResultSet(rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// cleanHeader trims whitespace and stray quotes from a CSV header cell.
func cleanHeader(h string) string {
	return strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
}

// HTTPSource fetches result sets from an orchestrator endpoint:
// GET <base>?profile=<id>&section=<id>&start=<date>&end=<date>
// returning {"columnHeaders": [...], "rows": [[...], ...]}.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context, profile model.Profile, kind model.SectionKind, rng model.DateRange) (*model.QueryResultSet, error) {
	params := url.Values{}
	params.Set("profile", profile.ID)
	params.Set("section", kind.ID())
	params.Set("start", rng.Start.Format("2006-01-02"))
	params.Set("end", rng.End.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, upstreamErr(kind.ID(), err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, upstreamErr(kind.ID(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, upstreamErr(kind.ID(), fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var payload struct {
		ColumnHeaders []string   `json:"columnHeaders"`
		Rows          [][]string `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, upstreamErr(kind.ID(), fmt.Errorf("decode JSON: %w", err))
	}

	rs := &model.QueryResultSet{Section: kind, Headers: payload.ColumnHeaders, Rows: payload.Rows}
	if len(rs.Headers) == 0 {
		rs.Headers = model.QueryTemplates[kind].Headers()
	}
	if err := validateResultSet(rs); err != nil {
		return nil, err
	}
	return rs, nil
}
