// Package app wires configuration, logging, telemetry, services and the
// HTTP router of the ledger API, and owns the server lifecycle.
//
// Initialization order:
//
//	1. Load configuration from defaults, YAML and LEDGER_* variables
//	2. Initialize the JSON logger
//	3. Resolve and create the data, reports and logs directories
//	4. Initialize OpenTelemetry and the ledger metrics
//	5. Build the services and mount the handlers
//
// Usage:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// the configured shutdown timeout and flushes telemetry. Errors are returned
// to the caller; the package never calls os.Exit.
package app
