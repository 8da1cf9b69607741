package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/callisto/pkg/audit"
)

// Config contains configuration for audit retention.
type Config struct {
	// RetentionDays is how long records are kept. Zero disables
	// time-based pruning.
	// Default: 30
	RetentionDays int

	// MaxRecords caps the total number of stored records; the oldest are
	// deleted first. Zero disables count-based pruning.
	// Default: 0 (disabled)
	MaxRecords int64

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables the scheduler.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner deletes audit records that fall outside the retention window or
// exceed the record cap.
type Pruner struct {
	storage audit.Storage
	config  *Config
	logger  *slog.Logger
}

// NewPruner creates a new pruner over the given storage backend.
func NewPruner(storage audit.Storage, config *Config, logger *slog.Logger) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  logger.With("component", "audit.pruner"),
	}
}

// Prune runs one pruning cycle and returns the total number of records
// deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var deleted int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
		n, err := p.storage.DeleteBefore(ctx, cutoff)
		if err != nil {
			return deleted, fmt.Errorf("time-based pruning failed: %w", err)
		}
		deleted += n
	}

	if p.config.MaxRecords > 0 {
		n, err := p.storage.TrimToMax(ctx, p.config.MaxRecords)
		if err != nil {
			return deleted, fmt.Errorf("count-based pruning failed: %w", err)
		}
		deleted += n
	}

	if deleted > 0 {
		p.logger.Info("audit records pruned", "deleted_count", deleted)
	}
	return deleted, nil
}
