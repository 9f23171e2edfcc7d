package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go-analytics-report/internal/model"
	"go-analytics-report/internal/report"
	"go-analytics-report/internal/store"
	"go-analytics-report/pkg/utils"

	"github.com/google/uuid"
)

// CreateReport creates a new analytics report job
// @Summary Create a new report
// @Description Create and start a new analytics report job with the provided configuration
// @Tags reports
// @Accept json
// @Produce json
// @Param report body model.ReportJobSpec true "Report configuration"
// @Success 200 {object} map[string]interface{} "Report created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [post]
func CreateReport(w http.ResponseWriter, r *http.Request) {
	var job model.ReportJobSpec
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// 1. Validate payload
	if err := job.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 2. Generate report ID
	reportID := uuid.New().String()

	// 3. Save report to DB
	if err := store.SaveReport(reportID, job); err != nil {
		http.Error(w, "Failed to save report", http.StatusInternalServerError)
		return
	}

	// 4. Run the report asynchronously
	timeout := utils.ParseDuration(os.Getenv("REPORT_JOB_TIMEOUT"), 30*time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	go func() {
		defer cancel()
		if err := report.Run(ctx, reportID, job, nil); err != nil {
			fmt.Printf("❌ Report %s failed: %v\n", reportID, err)
		}
	}()

	// 5. Return response
	resp := map[string]interface{}{
		"message":   "Report created successfully!",
		"reportID":  reportID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListReports retrieves all report jobs
// @Summary List all reports
// @Description Get a list of all report jobs with their current status
// @Tags reports
// @Accept json
// @Produce json
// @Success 200 {array} map[string]interface{} "List of reports"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [get]
func ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := store.ListReports()
	if err != nil {
		http.Error(w, "Failed to fetch reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}

// GetReport retrieves a specific report job
// @Summary Get report
// @Description Retrieve details of a specific report job
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]interface{} "Report details"
// @Failure 400 {object} map[string]interface{} "Invalid report ID"
// @Failure 404 {object} map[string]interface{} "Report not found"
// @Router /reports/{id} [get]
func GetReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromPath(w, r, "")
	if !ok {
		return
	}

	reportData, err := store.GetReport(reportID)
	if err != nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reportData)
}

// GetReportErrors retrieves errors for a report
// @Summary Get report errors
// @Description Retrieve all errors that occurred while the report was generated
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]interface{} "Report errors"
// @Failure 400 {object} map[string]interface{} "Invalid report ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports/{id}/errors [get]
func GetReportErrors(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromPath(w, r, "/errors")
	if !ok {
		return
	}

	errors, err := store.GetReportErrors(reportID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"report_id": reportID,
		"errors":    errors,
		"count":     len(errors),
	})
}

// GetArtifacts retrieves the output files produced by a report
// @Summary Get report artifacts
// @Description Retrieve the workbook and document files produced by a report job
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]interface{} "Report artifacts"
// @Failure 400 {object} map[string]interface{} "Invalid report ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports/{id}/artifacts [get]
func GetArtifacts(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromPath(w, r, "/artifacts")
	if !ok {
		return
	}

	artifacts, err := store.GetArtifacts(reportID)
	if err != nil {
		http.Error(w, "Failed to retrieve artifacts", http.StatusInternalServerError)
		return
	}

	outputs := utils.NewOutputManager("outputs")
	files := make([]map[string]interface{}, 0, len(artifacts))
	for _, a := range artifacts {
		size, _ := outputs.GetFileSize(a.Path)
		files = append(files, map[string]interface{}{
			"profileId":   a.ProfileID,
			"kind":        a.Kind,
			"fileType":    outputs.GetFileType(a.Path),
			"fileName":    a.Path[strings.LastIndex(a.Path, "/")+1:],
			"sizeBytes":   size,
			"downloadUrl": outputs.GetDownloadURL(reportID, a.Path),
			"createdAt":   a.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"report_id": reportID,
		"artifacts": files,
		"count":     len(files),
	})
}

// GetProgress retrieves the progress stream of a report
// @Summary Get report progress
// @Description Retrieve the ordered progress events of a report job
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]interface{} "Report progress"
// @Failure 400 {object} map[string]interface{} "Invalid report ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports/{id}/progress [get]
func GetProgress(w http.ResponseWriter, r *http.Request) {
	reportID, ok := reportIDFromPath(w, r, "/progress")
	if !ok {
		return
	}

	events, err := store.GetProgress(reportID)
	if err != nil {
		http.Error(w, "Failed to retrieve progress", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"report_id": reportID,
		"events":    events,
		"count":     len(events),
	})
}

// DownloadArtifact serves an artifact file for download
// @Summary Download artifact
// @Description Download a workbook or document file produced by a report job
// @Tags files
// @Accept json
// @Produce application/octet-stream
// @Param reportID path string true "Report ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 400 {object} map[string]interface{} "Invalid URL format"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{reportID}/{filename} [get]
func DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	// URL format: /api/v1/download/reportID/filename
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 5 {
		http.Error(w, fmt.Sprintf("Invalid URL format. Expected 5 parts, got %d: %v", len(pathParts), pathParts), http.StatusBadRequest)
		return
	}
	reportID := pathParts[3]
	fileName := pathParts[4]

	filePath := fmt.Sprintf("outputs/%s/%s", reportID, fileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")

	http.ServeFile(w, r, filePath)
}

// reportIDFromPath extracts the report ID from /api/v1/reports/{id}<suffix>.
// Writes the error response itself when the path is malformed.
func reportIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	path := r.URL.Path
	prefix := "/api/v1/reports/"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}

	reportID := path[len(prefix) : len(path)-len(suffix)]
	if reportID == "" {
		http.Error(w, "Report ID is required", http.StatusBadRequest)
		return "", false
	}
	return reportID, true
}
