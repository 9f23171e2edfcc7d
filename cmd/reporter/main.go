package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go-analytics-report/internal/model"
	"go-analytics-report/internal/report"
	"go-analytics-report/internal/store"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
)

func main() {
	specPath := flag.String("spec", "", "path to the report job spec JSON file")
	dbPath := flag.String("db", "reports.db", "path to the sqlite database")
	flag.Parse()

	if *specPath == "" {
		fmt.Fprintln(os.Stderr, "usage: reporter -spec <job.json> [-db <reports.db>]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*specPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Cannot read spec file: %v\n", err)
		os.Exit(1)
	}
	var job model.ReportJobSpec
	if err := json.Unmarshal(data, &job); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid spec file: %v\n", err)
		os.Exit(1)
	}

	if err := store.InitDB(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Cannot open database: %v\n", err)
		os.Exit(1)
	}

	reportID := uuid.New().String()
	if err := store.SaveReport(reportID, job); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Cannot save report: %v\n", err)
		os.Exit(1)
	}

	progress := make(chan model.ProgressEvent, 16)
	done := make(chan struct{})
	go func() {
		for event := range progress {
			fmt.Printf("   %s\n", event)
		}
		close(done)
	}()

	runErr := report.Run(context.Background(), reportID, job, progress)
	<-done

	printSummary(reportID)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "❌ Report failed: %v\n", runErr)
		os.Exit(1)
	}
}

func printSummary(reportID string) {
	artifacts, err := store.GetArtifacts(reportID)
	if err != nil || len(artifacts) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Profile", "Kind", "File"})
	for _, a := range artifacts {
		t.AppendRow(table.Row{a.ProfileID, a.Kind, filepath.Base(a.Path)})
	}
	t.Render()
}
