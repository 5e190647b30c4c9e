package domain

import (
	"context"
	"log/slog"
	"strings"

	"livesync.dev/pkg/livesync/internal/adapter"
	m "livesync.dev/pkg/livesync/internal/model"
)

// Collector builds the tree of live copies eligible for synchronization from a source node.
type Collector interface {
	Collect(ctx context.Context, sourcePath string) []m.LiveCopyNode
}

type collector struct {
	tree          adapter.TreeReader
	relationships adapter.RelationshipSource
	lastSync      adapter.LastSyncReader
	log           *slog.Logger
	metrics       *Metrics
}

// NewCollector constructs a Collector. lastSync may be nil, in which case nodes carry no
// last synchronization time.
func NewCollector(tree adapter.TreeReader, relationships adapter.RelationshipSource, lastSync adapter.LastSyncReader, opts ...Option) Collector {
	o := newOptions(opts...)

	return &collector{
		tree:          tree,
		relationships: relationships,
		lastSync:      lastSync,
		log:           o.logger,
		metrics:       o.metrics,
	}
}

func (c *collector) Collect(ctx context.Context, sourcePath string) []m.LiveCopyNode {
	c.log.Debug("Collecting live copies", "source", sourcePath)

	visited := make(map[string]struct{})
	nodes := c.collect(ctx, sourcePath, "", 0, visited)

	c.metrics.addCollected(len(visited))
	c.log.Debug("Collected live copies", "source", sourcePath, "count", len(visited))

	return nodes
}

// collect walks the relationships of sourcePath depth-first. visited holds the live-copy
// paths emitted so far in this traversal; a path is never emitted twice.
func (c *collector) collect(ctx context.Context, sourcePath, inheritedSyncPath string, depth int, visited map[string]struct{}) []m.LiveCopyNode {
	nodes := []m.LiveCopyNode{}

	if ctx.Err() != nil {
		return nodes
	}

	if !c.tree.NodeExists(ctx, sourcePath) {
		return nodes
	}

	relationships, err := c.relationships.OutgoingRelationships(ctx, sourcePath)
	if err != nil {
		c.log.Error("Failed to collect live copies", "source", sourcePath, "error", err)
		return nodes
	}

	for _, relationship := range relationships {
		node, ok := c.toNode(ctx, relationship, sourcePath, inheritedSyncPath, depth)
		if !ok {
			continue
		}

		if _, seen := visited[node.Path]; seen {
			c.log.Warn("Skipping live copy reached twice", "source", sourcePath, "path", node.Path)
			continue
		}

		visited[node.Path] = struct{}{}

		syncPath := effectiveSyncPath(relationship, inheritedSyncPath)
		node.LiveCopies = c.collect(ctx, relationship.LiveCopy.Path, syncPath, depth+1, visited)
		nodes = append(nodes, node)
	}

	return nodes
}

func (c *collector) toNode(ctx context.Context, relationship m.SyncRelationship, sourcePath, inheritedSyncPath string, depth int) (m.LiveCopyNode, bool) {
	syncPath := effectiveSyncPath(relationship, inheritedSyncPath)
	targetPath := effectiveTargetPath(relationship, syncPath)

	liveCopy := relationship.LiveCopy
	if liveCopy == nil {
		c.log.Debug("Skipping relationship without live copy", "source", sourcePath)
		return m.LiveCopyNode{}, false
	}

	if strings.TrimSpace(syncPath) != "" && !liveCopy.Deep {
		return m.LiveCopyNode{}, false
	}

	if !IsAvailable(ctx, syncPath, targetPath, liveCopy.Exclusions, c.tree) {
		return m.LiveCopyNode{}, false
	}

	path := liveCopy.Path + syncPath
	isNew := !c.tree.NodeExists(ctx, path)

	node := m.LiveCopyNode{
		Master:             sourcePath + inheritedSyncPath,
		Path:               path,
		Depth:              depth,
		IsNew:              isNew,
		AutoRolloutTrigger: !isNew && liveCopy.HasAutoTrigger(),
	}

	if c.lastSync != nil {
		if syncedAt, ok := c.lastSync.LastSyncedAt(ctx, path); ok {
			node.LastSyncedAt = &syncedAt
		}
	}

	return node, true
}

func effectiveSyncPath(relationship m.SyncRelationship, inherited string) string {
	if strings.TrimSpace(relationship.SyncPath) != "" {
		return relationship.SyncPath
	}

	return inherited
}

func effectiveTargetPath(relationship m.SyncRelationship, syncPath string) string {
	target := relationship.TargetPath
	if strings.TrimSpace(target) == "" {
		return syncPath
	}

	if strings.Contains(target, syncPath) {
		return target
	}

	return target + syncPath
}
