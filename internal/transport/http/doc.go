// Package http implements the HTTP handlers of the ledger API.
//
// Handlers stay thin. They parse and bound query parameters, call the
// service layer, and render JSON or CSV. Failures are rendered as RFC 7807
// problem details by the shared errors.ErrorHandler.
//
// Routes:
//
//	GET /api/health            liveness summary
//	GET /api/health/ready      readiness, 503 when the data directory is unusable
//	GET /api/health/live       runtime details
//	GET /api/health/datasets   artifacts in the data directory
//	GET /api/health/detailed   all of the above in one body
//	GET /api/version           build and format versions
//	GET /api/ledger            generated rows as JSON (seed, rows, limit, format)
//	GET /api/ledger/csv        generated ledger as CSV
//	GET /api/ledger/summary    summary statistics of the generated ledger
//	GET /api/ledger/lite       rebalanced subset (negatives)
//	GET /api/ledger/features   label-encoded feature matrix
package http
