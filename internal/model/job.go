package model

import (
	"fmt"
	"time"
)

// SourceSpec tells the pipeline where materialized query result sets come
// from. The query transport itself (auth, GA API) lives outside this system;
// both source types consume already-run query results.
type SourceSpec struct {
	Type string `json:"type"` // "csvdir" or "http"
	URL  string `json:"url"`  // directory path or endpoint base URL
}

// CompanyInfo is interpolated into the document cover and page footers.
type CompanyInfo struct {
	Website string `json:"website"`
	Phone   string `json:"phone"`
}

// OutputSpec controls where artifacts are written.
type OutputSpec struct {
	Dir string `json:"dir"`
}

// ReportJobSpec is the full configuration for one report job: which
// profiles, which period, where result sets come from, where artifacts go.
// This is the struct for POST /api/v1/reports and for the CLI's -spec file.
type ReportJobSpec struct {
	Profiles  []Profile   `json:"profiles"`
	StartDate string      `json:"startDate"` // YYYY-MM-DD
	EndDate   string      `json:"endDate"`   // YYYY-MM-DD
	Company   CompanyInfo `json:"company"`
	Source    SourceSpec  `json:"source"`
	Output    OutputSpec  `json:"output"`
}

// Range parses the job's date range.
func (s ReportJobSpec) Range() (DateRange, error) {
	start, err := time.Parse("2006-01-02", s.StartDate)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid startDate %q: %w", s.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", s.EndDate)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid endDate %q: %w", s.EndDate, err)
	}
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("endDate %s before startDate %s", s.EndDate, s.StartDate)
	}
	return DateRange{Start: start, End: end}, nil
}

// Validate checks the parts every run needs up front.
func (s ReportJobSpec) Validate() error {
	if len(s.Profiles) == 0 {
		return fmt.Errorf("at least one profile is required")
	}
	if s.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	switch s.Source.Type {
	case "csvdir", "http":
	default:
		return fmt.Errorf("unknown source type: %s", s.Source.Type)
	}
	_, err := s.Range()
	return err
}

// ProgressStage is the coarse state a progress event reports.
type ProgressStage string

const (
	StageFetching ProgressStage = "fetching"
	StageWriting  ProgressStage = "writing"
	StageDone     ProgressStage = "done"
)

// ProgressEvent is one entry on the job's progress stream: a fetch-start
// marker, a per-profile write-start (carrying the display name), or the
// terminal done marker.
type ProgressEvent struct {
	Stage   ProgressStage `json:"stage"`
	Profile string        `json:"profile,omitempty"`
}

func (e ProgressEvent) String() string {
	switch e.Stage {
	case StageFetching:
		return "Fetching query results"
	case StageWriting:
		return fmt.Sprintf("Writing %s report and statistics", e.Profile)
	case StageDone:
		return "done"
	}
	return string(e.Stage)
}

// ArtifactKind distinguishes the two files a profile run produces.
type ArtifactKind string

const (
	ArtifactWorkbook ArtifactKind = "xlsx"
	ArtifactDocument ArtifactKind = "pdf"
)

// Artifact records one produced output file.
type Artifact struct {
	ReportID  string       `json:"report_id"`
	ProfileID string       `json:"profile_id"`
	Kind      ArtifactKind `json:"kind"`
	Path      string       `json:"path"`
	CreatedAt time.Time    `json:"created_at"`
}
