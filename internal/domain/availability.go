package domain

import (
	"context"
	"log/slog"

	"livesync.dev/pkg/livesync/internal/adapter"
	m "livesync.dev/pkg/livesync/internal/model"
)

// IsAvailable reports whether a relationship with the given sync path, target path and
// live-copy exclusions may be synchronized.
//
// The sync root (empty syncPath) is always available. Otherwise the sync path and all of its
// ancestors must be absent from exclusions, and the parent of targetPath must exist unless it
// is the root.
func IsAvailable(ctx context.Context, syncPath, targetPath string, exclusions map[string]struct{}, tree adapter.TreeReader) bool {
	if syncPath == "" {
		return true
	}

	if m.IsExcluded(syncPath, exclusions) {
		return false
	}

	parent := m.ParentPath(targetPath)
	if parent == "" {
		return true
	}

	return tree.NodeExists(ctx, parent)
}

// IsRelationshipAvailable applies IsAvailable to a relationship's own paths and exclusions.
// A relationship without a live copy is never available.
func IsRelationshipAvailable(ctx context.Context, relationship m.SyncRelationship, tree adapter.TreeReader, logger *slog.Logger) bool {
	if relationship.LiveCopy == nil {
		logger.Warn("Live copy is missing", "sourcePath", relationship.SourcePath)
		return false
	}

	return IsAvailable(ctx, relationship.SyncPath, relationship.TargetPath, relationship.LiveCopy.Exclusions, tree)
}
