package api

import (
	"go-analytics-report/internal/api/handler"
	"go-analytics-report/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-analytics-report/docs"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/reports", handler.CreateReport)
	r.GET("/api/v1/reports", handler.ListReports)
	// More specific routes first
	r.GET("/api/v1/reports/*/errors", handler.GetReportErrors)
	r.GET("/api/v1/reports/*/artifacts", handler.GetArtifacts)
	r.GET("/api/v1/reports/*/progress", handler.GetProgress)
	r.GET("/api/v1/download/*/*", handler.DownloadArtifact)
	// Generic report route last
	r.GET("/api/v1/reports/*", handler.GetReport)

	r.Handle("/swagger/", httpSwagger.WrapHandler)
}
