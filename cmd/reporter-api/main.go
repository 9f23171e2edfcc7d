package main

import (
	"go-analytics-report/internal/api"
	"go-analytics-report/internal/store"
	"go-analytics-report/pkg/router"
)

// @title Analytics Report API
// @version 1.0
// @description HTTP interface for running web analytics report jobs and fetching their artifacts.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Init DB
	if err := store.InitDB("reports.db"); err != nil {
		panic(err)
	}

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r)

	// Start server
	r.Start(":8080")
}
