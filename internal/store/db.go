package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"go-analytics-report/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// Initialize DB connection
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	// Create tables if not exists
	reportTable := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS report_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT,
		profile_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	artifactTable := `
	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT,
		profile_id TEXT,
		kind TEXT,
		path TEXT,
		created_at DATETIME
	);
	`
	progressTable := `
	CREATE TABLE IF NOT EXISTS progress (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT,
		stage TEXT,
		profile TEXT,
		created_at DATETIME
	);
	`

	for _, table := range []string{reportTable, errorTable, artifactTable, progressTable} {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}

	return nil
}

// SaveReport stores a new report job
func SaveReport(reportID string, spec model.ReportJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO reports (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		reportID, specJSON, "pending", now, now)
	return err
}

// SaveReportError records an error for a report, optionally tied to one profile
func SaveReportError(reportID, profileID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO report_errors (report_id, profile_id, error_message, created_at) VALUES (?, ?, ?, ?)`,
		reportID, profileID, err.Error(), now)
	return e
}

// GetReportErrors returns all errors recorded for a report
func GetReportErrors(reportID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT profile_id, error_message, created_at FROM report_errors WHERE report_id = ? ORDER BY id`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errorsOut []map[string]interface{}
	for rows.Next() {
		var profileID, message string
		var createdAt time.Time
		if err := rows.Scan(&profileID, &message, &createdAt); err != nil {
			return nil, err
		}
		errorsOut = append(errorsOut, map[string]interface{}{
			"profileId": profileID,
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errorsOut, nil
}

// SaveArtifact records one produced output file
func SaveArtifact(reportID, profileID string, kind model.ArtifactKind, path string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO artifacts (report_id, profile_id, kind, path, created_at) VALUES (?, ?, ?, ?, ?)`,
		reportID, profileID, string(kind), path, now)
	return err
}

// GetArtifacts returns all artifacts produced by a report
func GetArtifacts(reportID string) ([]model.Artifact, error) {
	rows, err := db.Query(`SELECT profile_id, kind, path, created_at FROM artifacts WHERE report_id = ? ORDER BY id`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []model.Artifact
	for rows.Next() {
		var a model.Artifact
		var kind string
		if err := rows.Scan(&a.ProfileID, &kind, &a.Path, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.ReportID = reportID
		a.Kind = model.ArtifactKind(kind)
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// SaveProgress appends one progress event to the report's stream
func SaveProgress(reportID string, event model.ProgressEvent) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO progress (report_id, stage, profile, created_at) VALUES (?, ?, ?, ?)`,
		reportID, string(event.Stage), event.Profile, now)
	return err
}

// GetProgress returns the report's progress events in order
func GetProgress(reportID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT stage, profile, created_at FROM progress WHERE report_id = ? ORDER BY id`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []map[string]interface{}
	for rows.Next() {
		var stage, profile string
		var createdAt time.Time
		if err := rows.Scan(&stage, &profile, &createdAt); err != nil {
			return nil, err
		}
		events = append(events, map[string]interface{}{
			"stage":     stage,
			"profile":   profile,
			"message":   model.ProgressEvent{Stage: model.ProgressStage(stage), Profile: profile}.String(),
			"createdAt": createdAt,
		})
	}
	return events, nil
}

// ListReports returns all reports with basic info
func ListReports() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return reports, nil
}

// GetReport fetches full report spec and status
func GetReport(reportID string) (map[string]interface{}, error) {
	var specJSON string
	var status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM reports WHERE id = ?`, reportID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.ReportJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        reportID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// UpdateReportStatus updates report status
func UpdateReportStatus(reportID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE reports SET status = ?, updated_at = ? WHERE id = ?`, status, now, reportID)
	return err
}
