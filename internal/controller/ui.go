// Package controller renders live-copy trees and rollout outcomes for the command line.
package controller

import (
	"context"

	m "livesync.dev/pkg/livesync/internal/model"
)

// UI defines how command results are displayed.
// Implementations can use different output methods (styled text, JSON, ...).
type UI interface {
	DisplayTree(ctx context.Context, source string, nodes []m.LiveCopyNode) error
	DisplayCheck(ctx context.Context, path string, isBlueprint bool) error
	DisplayStatuses(ctx context.Context, runID string, statuses []m.SyncStatus, failedTargets []string) error
	DisplayJournal(ctx context.Context, entries []m.JournalEntry) error
}
