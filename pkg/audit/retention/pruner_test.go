package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"mercator-hq/callisto/pkg/audit"
)

// fakeStorage records pruning calls and returns canned counts.
type fakeStorage struct {
	deleteBeforeCalls int
	trimToMaxCalls    int
	deleteBeforeN     int64
	trimToMaxN        int64
	trimMax           int64
	err               error
}

func (f *fakeStorage) WriteRecord(context.Context, *audit.Record) error { return nil }
func (f *fakeStorage) Query(context.Context, audit.QueryFilter) ([]*audit.Record, error) {
	return nil, nil
}
func (f *fakeStorage) Count(context.Context) (int64, error) { return 0, nil }

func (f *fakeStorage) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.deleteBeforeCalls++
	return f.deleteBeforeN, f.err
}

func (f *fakeStorage) TrimToMax(_ context.Context, max int64) (int64, error) {
	f.trimToMaxCalls++
	f.trimMax = max
	return f.trimToMaxN, f.err
}

func (f *fakeStorage) Close() error { return nil }

func TestPruner_TimeAndCountBased(t *testing.T) {
	storage := &fakeStorage{deleteBeforeN: 7, trimToMaxN: 3}
	p := NewPruner(storage, &Config{RetentionDays: 30, MaxRecords: 10000}, nil)

	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 10 {
		t.Errorf("Prune() = %d, want 10", deleted)
	}
	if storage.deleteBeforeCalls != 1 {
		t.Errorf("DeleteBefore calls = %d, want 1", storage.deleteBeforeCalls)
	}
	if storage.trimToMaxCalls != 1 {
		t.Errorf("TrimToMax calls = %d, want 1", storage.trimToMaxCalls)
	}
	if storage.trimMax != 10000 {
		t.Errorf("TrimToMax max = %d, want 10000", storage.trimMax)
	}
}

func TestPruner_TimeBasedDisabled(t *testing.T) {
	storage := &fakeStorage{trimToMaxN: 2}
	p := NewPruner(storage, &Config{RetentionDays: 0, MaxRecords: 500}, nil)

	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if storage.deleteBeforeCalls != 0 {
		t.Errorf("DeleteBefore calls = %d, want 0 when retention days is zero", storage.deleteBeforeCalls)
	}
	if deleted != 2 {
		t.Errorf("Prune() = %d, want 2", deleted)
	}
}

func TestPruner_CountBasedDisabled(t *testing.T) {
	storage := &fakeStorage{deleteBeforeN: 4}
	p := NewPruner(storage, &Config{RetentionDays: 7, MaxRecords: 0}, nil)

	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if storage.trimToMaxCalls != 0 {
		t.Errorf("TrimToMax calls = %d, want 0 when max records is zero", storage.trimToMaxCalls)
	}
	if deleted != 4 {
		t.Errorf("Prune() = %d, want 4", deleted)
	}
}

func TestPruner_StorageError(t *testing.T) {
	storage := &fakeStorage{err: errors.New("disk full")}
	p := NewPruner(storage, &Config{RetentionDays: 30}, nil)

	if _, err := p.Prune(context.Background()); err == nil {
		t.Error("Prune() succeeded with failing storage, want error")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	p := NewPruner(&fakeStorage{}, &Config{RetentionDays: 30, PruneSchedule: "not a cron expr"}, nil)
	s := NewScheduler(p)

	if err := s.Start(context.Background()); err == nil {
		t.Error("Start() succeeded with invalid cron expression, want error")
		s.Stop()
	}
}

func TestScheduler_StartStop(t *testing.T) {
	p := NewPruner(&fakeStorage{}, &Config{RetentionDays: 30, PruneSchedule: "0 3 * * *"}, nil)
	s := NewScheduler(p)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	s.Stop()
	s.Stop()
}

func TestScheduler_EmptyScheduleDisabled(t *testing.T) {
	p := NewPruner(&fakeStorage{}, &Config{RetentionDays: 30, PruneSchedule: ""}, nil)
	s := NewScheduler(p)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	s.Stop()
}
