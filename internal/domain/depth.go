package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	m "livesync.dev/pkg/livesync/internal/model"
)

// bucketsByDepth groups items by depth in ascending order, keeping submission order inside
// every bucket.
func bucketsByDepth(items []m.RolloutItem) [][]m.RolloutItem {
	byDepth := make(map[int][]m.RolloutItem)
	for _, item := range items {
		byDepth[item.Depth] = append(byDepth[item.Depth], item)
	}

	depths := make([]int, 0, len(byDepth))
	for depth := range byDepth {
		depths = append(depths, depth)
	}

	sort.Ints(depths)

	buckets := make([][]m.RolloutItem, 0, len(depths))
	for _, depth := range depths {
		buckets = append(buckets, byDepth[depth])
	}

	return buckets
}

// depthRun executes items bucket by bucket. Every bucket is filtered with keep, run on the
// scheduler and joined before the next depth starts.
type depthRun struct {
	operation string
	scheduler *Scheduler
	log       *slog.Logger
	metrics   *Metrics
	keep      func(ctx context.Context, item m.RolloutItem) bool
	run       func(ctx context.Context, item m.RolloutItem) m.SyncStatus
}

func (d depthRun) execute(ctx context.Context, items []m.RolloutItem) []m.SyncStatus {
	statuses := []m.SyncStatus{}

	for _, bucket := range bucketsByDepth(items) {
		eligible := make([]m.RolloutItem, 0, len(bucket))

		for _, item := range bucket {
			if d.keep(ctx, item) {
				eligible = append(eligible, item)
			}
		}

		results := make([]m.SyncStatus, len(eligible))
		started := time.Now()

		d.scheduler.RunBatch(ctx, len(eligible), func(taskCtx context.Context, i int) {
			if err := taskCtx.Err(); err != nil {
				results[i] = failedStatus(eligible[i].Target, err)
				return
			}

			results[i] = d.runItem(taskCtx, eligible[i])
		})

		d.metrics.observeBatch(d.operation, time.Since(started))
		d.metrics.countStatuses(d.operation, results)

		statuses = append(statuses, results...)
	}

	return statuses
}

// runItem turns a panic of the underlying primitive into a failed status of that item.
func (d depthRun) runItem(ctx context.Context, item m.RolloutItem) (status m.SyncStatus) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Recovered from panic while processing item", "operation", d.operation, "target", item.Target, "panic", r)
			status = failedStatus(item.Target, fmt.Errorf("%s %s: panic: %v", d.operation, item.Target, r))
		}
	}()

	return d.run(ctx, item)
}

func failedStatus(target string, err error) m.SyncStatus {
	status := m.SyncStatus{Target: target}
	if err != nil {
		status.Err = err.Error()
	}

	return status
}
