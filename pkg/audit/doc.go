// Package audit records an operational trail of parse requests: which
// grammar ran, over how much input, with what outcome and latency. The raw
// input text is never persisted.
//
// Subpackages:
//
//   - recorder: asynchronous, non-blocking record writer
//   - storage: SQLite persistence backend
//   - retention: time- and count-based pruning on a cron schedule
package audit
