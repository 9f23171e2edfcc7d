package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles artifact file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateReportOutputDir creates a per-report directory for artifacts
func (om *OutputManager) CreateReportOutputDir(reportID string) (string, error) {
	reportDir := filepath.Join(om.BaseOutputDir, reportID)

	// Create the directory if it doesn't exist
	err := os.MkdirAll(reportDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create report output directory: %w", err)
	}

	return reportDir, nil
}

// GetOutputFilePath generates a full path for an artifact file
func (om *OutputManager) GetOutputFilePath(reportID, fileName string) (string, error) {
	reportDir, err := om.CreateReportOutputDir(reportID)
	if err != nil {
		return "", err
	}

	// Clean the filename to remove any path separators
	cleanFileName := filepath.Base(fileName)

	return filepath.Join(reportDir, cleanFileName), nil
}

// GetDownloadURL generates a download URL for an artifact
func (om *OutputManager) GetDownloadURL(reportID, fileName string) string {
	cleanFileName := filepath.Base(fileName)
	return fmt.Sprintf("/api/v1/download/%s/%s", reportID, cleanFileName)
}

// GetFileType determines the artifact type based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".xlsx":
		return "workbook"
	case ".pdf":
		return "document"
	default:
		return "unknown"
	}
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
