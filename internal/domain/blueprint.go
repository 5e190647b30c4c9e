package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"livesync.dev/pkg/livesync/internal/adapter"
	m "livesync.dev/pkg/livesync/internal/model"
)

// BlueprintChecker tells whether a node has at least one live copy it can be rolled out to.
type BlueprintChecker interface {
	IsBlueprint(ctx context.Context, path string) (bool, error)
}

type blueprintChecker struct {
	tree          adapter.TreeReader
	relationships adapter.RelationshipSource
	log           *slog.Logger
}

// NewBlueprintChecker constructs a BlueprintChecker.
func NewBlueprintChecker(tree adapter.TreeReader, relationships adapter.RelationshipSource, opts ...Option) BlueprintChecker {
	o := newOptions(opts...)

	return &blueprintChecker{
		tree:          tree,
		relationships: relationships,
		log:           o.logger,
	}
}

func (bc *blueprintChecker) IsBlueprint(ctx context.Context, path string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, fmt.Errorf("blueprint check: blank path: %w", m.ErrInvalidInput)
	}

	if !bc.tree.NodeExists(ctx, path) {
		return false, fmt.Errorf("blueprint check %s: %w", path, m.ErrNotFound)
	}

	relationships, err := bc.relationships.OutgoingRelationships(ctx, path)
	if err != nil {
		bc.log.Error("Blueprint check failed", "path", path, "error", err)
		return false, nil
	}

	for _, relationship := range relationships {
		if IsRelationshipAvailable(ctx, relationship, bc.tree, bc.log) {
			return true, nil
		}
	}

	return false, nil
}
