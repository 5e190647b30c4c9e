package controller

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "livesync.dev/pkg/livesync/internal/model"
)

func newTestSimpleUI() (*SimpleUI, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	ui := NewSimpleUI(cmd)
	ui.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	return ui, out
}

func TestSimpleUI_DisplayTree(t *testing.T) {
	ui, out := newTestSimpleUI()
	syncedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	err := ui.DisplayTree(t.Context(), "/content/bp", []m.LiveCopyNode{
		{
			Path:         "/content/lc1",
			LastSyncedAt: &syncedAt,
			LiveCopies: []m.LiveCopyNode{
				{Path: "/content/lc2", Depth: 1, IsNew: true},
			},
		},
		{Path: "/content/lc3", AutoRolloutTrigger: true},
	})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "/content/bp")
	assert.Contains(t, output, "/content/lc1")
	assert.Contains(t, output, "3 hours ago")
	assert.Contains(t, output, "/content/lc2 [new]")
	assert.Contains(t, output, "/content/lc3 [auto]")
	assert.Contains(t, output, "Not rolled out")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("/content/lc1")), bytes.Index(out.Bytes(), []byte("/content/lc2")))
}

func TestSimpleUI_DisplayTreeEmpty(t *testing.T) {
	ui, out := newTestSimpleUI()

	require.NoError(t, ui.DisplayTree(t.Context(), "/content/bp", nil))
	assert.Contains(t, out.String(), "/content/bp has no live copies eligible for rollout")
}

func TestSimpleUI_DisplayCheck(t *testing.T) {
	ui, out := newTestSimpleUI()

	require.NoError(t, ui.DisplayCheck(t.Context(), "/content/bp", true))
	require.NoError(t, ui.DisplayCheck(t.Context(), "/content/lc", false))

	assert.Contains(t, out.String(), "/content/bp is available for rollout")
	assert.Contains(t, out.String(), "/content/lc is not available for rollout")
}

func TestSimpleUI_DisplayStatuses(t *testing.T) {
	ui, out := newTestSimpleUI()

	err := ui.DisplayStatuses(t.Context(), "run-1", []m.SyncStatus{
		{Target: "/content/a", Success: true},
		{Target: "/content/b", Success: true, Partial: true, FailedDescendants: []string{"/content/b/x"}},
		{Target: "/content/c", Err: "sync failed: boom"},
	}, []string{"/content/c"})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Run run-1")
	assert.Contains(t, output, successLabel)
	assert.Contains(t, output, partialLabel)
	assert.Contains(t, output, "sync failed: boom")
	assert.Contains(t, output, "Rollout failed for 1 target(s):")
	assert.Contains(t, output, "  /content/c")
}

func TestSimpleUI_DisplayJournal(t *testing.T) {
	ui, out := newTestSimpleUI()

	require.NoError(t, ui.DisplayJournal(t.Context(), nil))
	assert.Contains(t, out.String(), "No rollout recorded")

	out.Reset()

	recordedAt := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	err := ui.DisplayJournal(t.Context(), []m.JournalEntry{
		{RunID: "run-2", Operation: "sync", Status: m.SyncStatus{Target: "/content/a", Success: true}, RecordedAt: recordedAt},
		{RunID: "run-2", Operation: "publish", Status: m.SyncStatus{Target: "/content/a"}, RecordedAt: recordedAt},
	})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Run run-2")
	assert.Contains(t, output, "11:00:00 UTC 01-05-2024")
	assert.Contains(t, output, "publish")
	assert.Contains(t, output, failureLabel)
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, out := newTestSimpleUI()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.ErrorIs(t, ui.DisplayCheck(ctx, "/content/bp", true), context.Canceled)
	assert.Empty(t, out.String())
}
