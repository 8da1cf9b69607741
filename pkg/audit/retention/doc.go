// Package retention prunes old audit records on a schedule.
//
// A Pruner deletes records past the configured retention window and
// enforces an optional maximum record count. A Scheduler runs the
// pruner on a cron expression so long-running services keep the audit
// store bounded without operator intervention.
package retention
