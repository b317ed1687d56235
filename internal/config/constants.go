package config

import "time"

// Application constants
const (
	// Application Info
	AppName = "ledgersynth"

	// API Endpoints
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	VersionEndpoint = "/api/version"
	LedgerEndpoint  = "/api/ledger"
	MetricsEndpoint = "/metrics"

	// Request limits
	DefaultPreviewLimit = 100
	MaxPreviewLimit     = 10000

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
