package controller

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	m "livesync.dev/pkg/livesync/internal/model"
)

// JSONUI implements UI by writing indented JSON documents.
type JSONUI struct {
	cmd *cobra.Command
}

// NewJSONUI creates a new JSONUI.
func NewJSONUI(cmd *cobra.Command) *JSONUI {
	return &JSONUI{cmd: cmd}
}

// NewUI picks the JSON UI when asJSON is set and the simple UI otherwise.
func NewUI(cmd *cobra.Command, asJSON bool) UI {
	if asJSON {
		return NewJSONUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// DisplayTree implements UI.
func (j *JSONUI) DisplayTree(ctx context.Context, _ string, nodes []m.LiveCopyNode) error {
	if nodes == nil {
		nodes = []m.LiveCopyNode{}
	}

	return j.write(ctx, nodes)
}

// DisplayCheck implements UI.
func (j *JSONUI) DisplayCheck(ctx context.Context, _ string, isBlueprint bool) error {
	return j.write(ctx, map[string]bool{"isAvailableForRollout": isBlueprint})
}

// DisplayStatuses implements UI.
func (j *JSONUI) DisplayStatuses(ctx context.Context, runID string, statuses []m.SyncStatus, failedTargets []string) error {
	return j.write(ctx, struct {
		RunID         string         `json:"runId"`
		Statuses      []m.SyncStatus `json:"statuses"`
		FailedTargets []string       `json:"failedTargets"`
	}{runID, statuses, failedTargets})
}

// DisplayJournal implements UI.
func (j *JSONUI) DisplayJournal(ctx context.Context, entries []m.JournalEntry) error {
	return j.write(ctx, entries)
}

func (j *JSONUI) write(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return encodeJSON(j.cmd.OutOrStdout(), v)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
