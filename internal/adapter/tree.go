// Package adapter defines the capabilities the synchronization engine consumes from its host
// and provides a filesystem-backed implementation of them.
package adapter

import (
	"context"
	"time"

	m "livesync.dev/pkg/livesync/internal/model"
)

// TreeReader resolves nodes of the backing tree. Absent nodes are reported as not found,
// never as errors.
type TreeReader interface {
	NodeExists(ctx context.Context, path string) bool
	GetNode(ctx context.Context, path string) (*m.Node, bool)
}

// RelationshipSource enumerates the live relationships a node is the source of.
// The order of the returned relationships is implementation-defined.
type RelationshipSource interface {
	OutgoingRelationships(ctx context.Context, path string) ([]m.SyncRelationship, error)
}

// SyncPrimitive propagates a master node into its live-copy targets.
type SyncPrimitive interface {
	PerformSync(ctx context.Context, master *m.Node, targets []string, deep bool) error
}

// PublishPrimitive activates nodes on the publishing side and lists their children.
type PublishPrimitive interface {
	Publish(ctx context.Context, path string) error
	ListChildren(ctx context.Context, path string) ([]string, error)
}

// LastSyncReader reports when a node was last synchronized from its blueprint.
type LastSyncReader interface {
	LastSyncedAt(ctx context.Context, path string) (time.Time, bool)
}
