// Package http contains the chi handlers for the billing analysis API.
//
// Routes:
//
//	POST /api/upload          multipart package report -> per-sheet block analysis
//	POST /api/upload/monthly  multipart monthly dataset -> stored month table
//	POST /api/compare         diff two months of a stored dataset (JSON or CSV)
//	GET  /api/health          liveness probe
//	GET  /metrics             Prometheus metrics
//
// Uploads are written to a temporary file with a random name and removed
// after processing unless upload.keep is configured. Failures are
// rendered as structured APIError responses through the shared
// ErrorHandler.
package http
