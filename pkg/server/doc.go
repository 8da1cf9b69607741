// Package server provides the HTTP service exposing grammar-based parsing.
//
// The server serves four endpoints:
//
//   - POST /v1/parse     parses a value against a grammar field
//   - GET  /v1/grammars  lists loaded grammars
//   - GET  /healthz      liveness probe
//   - GET  /metrics      Prometheus metrics (path configurable)
//
// All requests pass through a middleware chain providing panic recovery,
// request ID propagation, and structured access logging. The server shuts
// down gracefully on SIGINT/SIGTERM or context cancellation.
package server
