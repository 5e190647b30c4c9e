package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"livesync.dev/pkg/livesync/internal/adapter"
	m "livesync.dev/pkg/livesync/internal/model"
)

const operationSync = "sync"

// SyncOrchestrator synchronizes a selection of live copies with their masters, one depth
// level at a time.
type SyncOrchestrator interface {
	Sync(ctx context.Context, items []m.RolloutItem, deep bool) []m.SyncStatus
}

type syncOrchestrator struct {
	tree      adapter.TreeReader
	primitive adapter.SyncPrimitive
	scheduler *Scheduler
	log       *slog.Logger
	metrics   *Metrics
}

// NewSyncOrchestrator constructs a SyncOrchestrator backed by the provided tree reader and
// sync primitive.
func NewSyncOrchestrator(tree adapter.TreeReader, primitive adapter.SyncPrimitive, opts ...Option) SyncOrchestrator {
	o := newOptions(opts...)

	return &syncOrchestrator{
		tree:      tree,
		primitive: primitive,
		scheduler: o.scheduler,
		log:       o.logger,
		metrics:   o.metrics,
	}
}

// Sync returns one status per executed item, in ascending depth order and submission order
// within a depth. Items with a blank target produce no status, nor do non-root items whose
// live copy is rolled out automatically by the host.
func (so *syncOrchestrator) Sync(ctx context.Context, items []m.RolloutItem, deep bool) []m.SyncStatus {
	run := depthRun{
		operation: operationSync,
		scheduler: so.scheduler,
		log:       so.log,
		metrics:   so.metrics,
		keep:      so.shouldSync,
		run: func(ctx context.Context, item m.RolloutItem) m.SyncStatus {
			return so.syncItem(ctx, item, deep)
		},
	}

	return run.execute(ctx, items)
}

func (so *syncOrchestrator) shouldSync(_ context.Context, item m.RolloutItem) bool {
	if strings.TrimSpace(item.Target) == "" {
		return false
	}

	if item.Depth != 0 && item.AutoRolloutTrigger {
		so.log.Debug("Item rollout skipped due to auto trigger", "master", item.Master, "target", item.Target)
		return false
	}

	return true
}

func (so *syncOrchestrator) syncItem(ctx context.Context, item m.RolloutItem, deep bool) m.SyncStatus {
	master, ok := so.tree.GetNode(ctx, item.Master)
	if !ok {
		so.log.Warn("Rollout failed, master node is missing", "master", item.Master, "target", item.Target)
		return failedStatus(item.Target, fmt.Errorf("master %s: %w", item.Master, m.ErrNotFound))
	}

	so.log.Debug("Item rollout started", "master", item.Master, "target", item.Target, "deep", deep)

	if err := so.primitive.PerformSync(ctx, master, []string{item.Target}, deep); err != nil {
		so.log.Error("Item rollout failed", "master", item.Master, "target", item.Target, "error", err)
		return failedStatus(item.Target, fmt.Errorf("%w: %w", m.ErrSyncFailed, err))
	}

	so.log.Debug("Item rollout completed", "master", item.Master, "target", item.Target)

	return m.SyncStatus{Target: item.Target, Success: true}
}
