package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"livesync.dev/pkg/livesync/internal/adapter"
	m "livesync.dev/pkg/livesync/internal/model"
)

const operationPublish = "publish"

// ReplicationExecutor publishes synchronized live copies, one depth level at a time.
type ReplicationExecutor interface {
	Replicate(ctx context.Context, items []m.RolloutItem, deep bool) []m.SyncStatus
}

type replicator struct {
	tree          adapter.TreeReader
	relationships adapter.RelationshipSource
	publisher     adapter.PublishPrimitive
	scheduler     *Scheduler
	log           *slog.Logger
	metrics       *Metrics
}

// NewReplicationExecutor constructs a ReplicationExecutor.
func NewReplicationExecutor(
	tree adapter.TreeReader,
	relationships adapter.RelationshipSource,
	publisher adapter.PublishPrimitive,
	opts ...Option,
) ReplicationExecutor {
	o := newOptions(opts...)

	return &replicator{
		tree:          tree,
		relationships: relationships,
		publisher:     publisher,
		scheduler:     o.scheduler,
		log:           o.logger,
		metrics:       o.metrics,
	}
}

// Replicate publishes every selected leaf live copy. Targets that are themselves blueprints
// of further live copies are skipped and produce no status. With deep set, descendants are
// published as well; their failures mark the status partial without failing it.
func (r *replicator) Replicate(ctx context.Context, items []m.RolloutItem, deep bool) []m.SyncStatus {
	run := depthRun{
		operation: operationPublish,
		scheduler: r.scheduler,
		log:       r.log,
		metrics:   r.metrics,
		keep:      r.shouldPublish,
		run: func(ctx context.Context, item m.RolloutItem) m.SyncStatus {
			return r.replicate(ctx, item, deep)
		},
	}

	return run.execute(ctx, items)
}

func (r *replicator) shouldPublish(ctx context.Context, item m.RolloutItem) bool {
	if strings.TrimSpace(item.Target) == "" {
		return false
	}

	return !r.isBlueprint(ctx, item)
}

func (r *replicator) isBlueprint(ctx context.Context, item m.RolloutItem) bool {
	relationships, err := r.relationships.OutgoingRelationships(ctx, item.Target)
	if err != nil {
		r.log.Debug("Item replication skipped, relationships lookup failed", "master", item.Master, "target", item.Target, "error", err)
		return true
	}

	if len(relationships) > 0 {
		r.log.Debug("Item replication skipped, target is a blueprint", "master", item.Master, "target", item.Target)
		return true
	}

	return false
}

func (r *replicator) replicate(ctx context.Context, item m.RolloutItem, deep bool) m.SyncStatus {
	if _, ok := r.tree.GetNode(ctx, item.Target); !ok {
		r.log.Warn("Replication failed, target node is missing", "target", item.Target)
		return failedStatus(item.Target, fmt.Errorf("target %s: %w", item.Target, m.ErrNotFound))
	}

	if err := r.publisher.Publish(ctx, item.Target); err != nil {
		r.log.Error("Failed to publish node", "target", item.Target, "error", err)
		return failedStatus(item.Target, fmt.Errorf("%w: %w", m.ErrPublishFailed, err))
	}

	status := m.SyncStatus{Target: item.Target, Success: true}
	if deep {
		r.publishDescendants(ctx, item.Target, &status)
	}

	return status
}

// publishDescendants publishes the subtree below path depth-first. A node that fails to
// publish is recorded and its own subtree is not attempted.
func (r *replicator) publishDescendants(ctx context.Context, path string, status *m.SyncStatus) {
	children, err := r.publisher.ListChildren(ctx, path)
	if err != nil {
		r.log.Error("Failed to list children for publishing", "path", path, "error", err)
		status.Partial = true
		status.Err = appendError(status.Err, fmt.Errorf("list children of %s: %w", path, err))

		return
	}

	for _, child := range children {
		if err := r.publisher.Publish(ctx, child); err != nil {
			r.log.Error("Failed to publish descendant", "root", status.Target, "path", child, "error", err)
			status.Partial = true
			status.FailedDescendants = append(status.FailedDescendants, child)

			continue
		}

		r.publishDescendants(ctx, child, status)
	}
}

func appendError(existing string, err error) string {
	if existing == "" {
		return err.Error()
	}

	return existing + "; " + err.Error()
}
