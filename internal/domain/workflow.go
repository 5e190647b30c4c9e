package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"livesync.dev/pkg/livesync/internal/adapter"
	m "livesync.dev/pkg/livesync/internal/model"
)

// RolloutArgs contains the arguments of a rollout.
type RolloutArgs struct {
	Source string
	// Targets restricts the rollout to these live-copy paths; empty selects the whole tree.
	Targets []string
	// ExactTargets takes Targets as-is; otherwise a target also selects the live copies
	// nested below it.
	ExactTargets bool
	Deep         bool
	Publish      bool
	PublishDeep  bool
}

// PublishArgs contains the arguments for publishing live copies without synchronizing them.
type PublishArgs struct {
	Source  string
	Targets []string
	Deep    bool
}

// RolloutResult aggregates the statuses of a run.
type RolloutResult struct {
	RunID         string          `json:"runId"`
	Statuses      []m.SyncStatus  `json:"statuses"`
	FailedTargets []string        `json:"failedTargets"`
	Items         []m.RolloutItem `json:"-"`
}

// StatusRecorder persists the entries of a run.
type StatusRecorder interface {
	Record(entries []m.JournalEntry) error
}

// StatusRecorderFunc adapts a function to StatusRecorder.
type StatusRecorderFunc func(entries []m.JournalEntry) error

// Record implements StatusRecorder.
func (f StatusRecorderFunc) Record(entries []m.JournalEntry) error {
	return f(entries)
}

// Workflow is the rollout use case exposed to the command line.
type Workflow interface {
	Tree(ctx context.Context, source string) ([]m.LiveCopyNode, error)
	Check(ctx context.Context, path string) (bool, error)
	Rollout(ctx context.Context, args RolloutArgs) (RolloutResult, error)
	Publish(ctx context.Context, args PublishArgs) (RolloutResult, error)
}

type workflow struct {
	adapter.TreeReader
	Collector
	BlueprintChecker
	SyncOrchestrator
	ReplicationExecutor
	recorder StatusRecorder
	log      *slog.Logger
	now      func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	tree adapter.TreeReader,
	collector Collector,
	checker BlueprintChecker,
	orchestrator SyncOrchestrator,
	replicator ReplicationExecutor,
	opts ...Option,
) Workflow {
	o := newOptions(opts...)

	return &workflow{
		TreeReader:          tree,
		Collector:           collector,
		BlueprintChecker:    checker,
		SyncOrchestrator:    orchestrator,
		ReplicationExecutor: replicator,
		recorder:            o.recorder,
		log:                 o.logger,
		now:                 time.Now,
	}
}

func (w *workflow) Tree(ctx context.Context, source string) ([]m.LiveCopyNode, error) {
	if err := w.validateSource(ctx, source); err != nil {
		return nil, err
	}

	return w.Collect(ctx, source), nil
}

func (w *workflow) Check(ctx context.Context, path string) (bool, error) {
	return w.IsBlueprint(ctx, path)
}

func (w *workflow) Rollout(ctx context.Context, args RolloutArgs) (RolloutResult, error) {
	started := w.now()

	items, err := w.selectItems(ctx, args.Source, args.Targets, args.ExactTargets)
	if err != nil {
		return RolloutResult{}, err
	}

	w.log.Debug("Starting rollout of selected items", "source", args.Source, "items", len(items), "deep", args.Deep)

	result := RolloutResult{RunID: uuid.NewString(), Items: items}

	syncStatuses := w.Sync(ctx, items, args.Deep)
	w.record(result.RunID, operationSync, syncStatuses)
	result.Statuses = append(result.Statuses, syncStatuses...)

	if args.Publish {
		w.log.Debug("Publishing rolled out items", "deep", args.PublishDeep)

		publishStatuses := w.Replicate(ctx, items, args.PublishDeep)
		w.record(result.RunID, operationPublish, publishStatuses)
		result.Statuses = append(result.Statuses, publishStatuses...)
	}

	result.FailedTargets = m.FailedTargets(result.Statuses)
	if len(result.FailedTargets) > 0 {
		w.log.Debug("Rollout failed for the following targets", "targets", result.FailedTargets)
	}

	w.log.Debug("Rollout of selected items is completed", "elapsed", w.now().Sub(started))

	return result, nil
}

func (w *workflow) Publish(ctx context.Context, args PublishArgs) (RolloutResult, error) {
	items, err := w.selectItems(ctx, args.Source, args.Targets, false)
	if err != nil {
		return RolloutResult{}, err
	}

	result := RolloutResult{RunID: uuid.NewString(), Items: items}
	result.Statuses = w.Replicate(ctx, items, args.Deep)
	w.record(result.RunID, operationPublish, result.Statuses)
	result.FailedTargets = m.FailedTargets(result.Statuses)

	return result, nil
}

func (w *workflow) selectItems(ctx context.Context, source string, targets []string, exact bool) ([]m.RolloutItem, error) {
	if err := w.validateSource(ctx, source); err != nil {
		return nil, err
	}

	selectFn := m.Select
	if exact {
		selectFn = m.SelectExact
	}

	items := selectFn(m.Flatten(w.Collect(ctx, source)), targets)
	if len(items) == 0 {
		w.log.Warn("Rollout items are empty", "source", source, "targets", targets)
		return nil, fmt.Errorf("nothing to roll out from %s: %w", source, m.ErrInvalidInput)
	}

	return items, nil
}

func (w *workflow) validateSource(ctx context.Context, source string) error {
	if strings.TrimSpace(source) == "" {
		w.log.Warn("Source path is blank")
		return fmt.Errorf("blank source path: %w", m.ErrInvalidInput)
	}

	if !w.NodeExists(ctx, source) {
		w.log.Warn("Source node is missing", "source", source)
		return fmt.Errorf("source %s: %w", source, m.ErrNotFound)
	}

	return nil
}

func (w *workflow) record(runID, operation string, statuses []m.SyncStatus) {
	if w.recorder == nil || len(statuses) == 0 {
		return
	}

	recordedAt := w.now()
	entries := make([]m.JournalEntry, 0, len(statuses))

	for _, status := range statuses {
		entries = append(entries, m.JournalEntry{
			RunID:      runID,
			Operation:  operation,
			Status:     status,
			RecordedAt: recordedAt,
		})
	}

	if err := w.recorder.Record(entries); err != nil {
		w.log.Error("Failed to record statuses", "runId", runID, "operation", operation, "error", err)
	}
}
