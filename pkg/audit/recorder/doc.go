// Package recorder provides asynchronous, non-blocking writing of audit
// records. The parse path enqueues and returns; a background worker drains
// the buffer into storage, and records are dropped (and counted) when the
// buffer is full.
package recorder
