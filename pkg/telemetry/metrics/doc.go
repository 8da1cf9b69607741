// Package metrics provides Prometheus instrumentation for parse traffic:
// attempt counters by grammar/field/outcome, a latency histogram, regex
// timeout and audit backpressure counters, and registry lifecycle gauges.
//
// The collector is nil-safe: a disabled configuration yields a nil
// *Collector whose methods are no-ops, so instrumented code paths never
// branch on telemetry being enabled.
package metrics
