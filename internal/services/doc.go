// Package services implements the report logic between the HTTP handlers and
// the dataset.
//
// ReportService turns a selection (regional, view, school, search term) into
// a domain.Report. Every call recomputes from the shared, immutable dataset:
//
//	svc := services.NewReportService(cfg, dataset.NewLoader(logger, metrics), metrics, logger)
//	report, err := svc.Build(ctx, domain.Selection{Regional: "Metropolitana I", View: domain.ViewRedacao})
//
// Empty results (no records, no complete records, no individual schools)
// are not errors; they come back as warning notices on the report. Unknown
// views, regionals and schools are reported with the sentinels in errors.go,
// and sheet problems as CONFIG application errors.
//
// HealthService backs the health, readiness and version endpoints.
package services
