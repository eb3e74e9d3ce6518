// Package app wires the dashboard server together: configuration, logging,
// OpenTelemetry, the dataset loader, the report services and the HTTP
// router.
//
// # Initialization Flow
//
//  1. Load configuration from the config file and SCOREPANEL_* variables
//  2. Initialize logging and observability
//  3. Create the dataset loader and services
//  4. Read the data source once; failure stops startup
//  5. Set up HTTP handlers and middleware
//  6. Configure the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM and then shuts the server down within
// the configured shutdown timeout.
package app
