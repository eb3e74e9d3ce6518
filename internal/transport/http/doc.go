// Package http implements the HTTP handlers of the dashboard API.
//
// Handlers stay thin: they parse and validate the query string, call the
// report service and render JSON with go-chi/render. Images and CSV files
// are written directly. Every failure goes through errors.ErrorHandler and
// reaches the client as an RFC 7807 problem document.
//
// Routes mounted under /api/report:
//
//	GET /regionals
//	GET /views
//	GET /{view}?regional=&school=&search=
//	GET /{view}/schools?regional=
//	GET /{view}/chart.{png|svg}?regional=&school=&search=
//	GET /{view}/table.csv?regional=
//
// Health routes are mounted under /api by the application.
package http
