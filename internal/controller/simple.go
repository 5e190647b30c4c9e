package controller

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "livesync.dev/pkg/livesync/internal/model"
	"livesync.dev/pkg/livesync/pkg"
)

const (
	successLabel = "ok"
	failureLabel = "failed"
	partialLabel = "partial"
)

var (
	rootStyle    = lipgloss.NewStyle().Bold(true)
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	autoStyle    = lipgloss.NewStyle().Faint(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
	now func() time.Time
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, now: time.Now}
}

// DisplayTree renders the live-copy tree below source.
func (s *SimpleUI) DisplayTree(ctx context.Context, source string, nodes []m.LiveCopyNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(nodes) == 0 {
		s.printf("%s has no live copies eligible for rollout\n", source)
		return nil
	}

	root := tree.Root(rootStyle.Render(source)).Enumerator(tree.RoundedEnumerator)
	s.appendNodes(root, nodes)
	s.printf("%s\n", root.String())

	return nil
}

func (s *SimpleUI) appendNodes(parent *tree.Tree, nodes []m.LiveCopyNode) {
	for _, node := range nodes {
		label := liveCopyLabel(node, s.now())

		if len(node.LiveCopies) == 0 {
			parent.Child(label)
			continue
		}

		child := tree.Root(label)
		s.appendNodes(child, node.LiveCopies)
		parent.Child(child)
	}
}

// DisplayCheck prints whether path can be rolled out.
func (s *SimpleUI) DisplayCheck(ctx context.Context, path string, isBlueprint bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if isBlueprint {
		s.printf("%s is available for rollout\n", path)
		return nil
	}

	s.printf("%s is not available for rollout\n", path)

	return nil
}

// DisplayStatuses prints one row per status followed by the failed targets.
func (s *SimpleUI) DisplayStatuses(ctx context.Context, runID string, statuses []m.SyncStatus, failedTargets []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, []string{status.Target, statusLabel(status), status.Err})
	}

	s.printf("Run %s\n%s", runID, renderTable([]string{"Target", "Status", "Detail"}, rows))

	if len(failedTargets) > 0 {
		s.printf("%s\n", failureStyle.Render(fmt.Sprintf("Rollout failed for %d target(s):", len(failedTargets))))

		for _, target := range failedTargets {
			s.printf("  %s\n", target)
		}
	}

	return nil
}

// DisplayJournal prints the entries of a recorded run.
func (s *SimpleUI) DisplayJournal(ctx context.Context, entries []m.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(entries) == 0 {
		s.printf("No rollout recorded\n")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.RecordedAt.Format(pkg.TimestampLayout),
			entry.Operation,
			entry.Status.Target,
			statusLabel(entry.Status),
		})
	}

	s.printf("Run %s\n%s", entries[0].RunID, renderTable([]string{"Time", "Operation", "Target", "Status"}, rows))

	return nil
}

func renderTable(header []string, rows [][]string) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	return tableBuffer.String()
}

func statusLabel(status m.SyncStatus) string {
	switch {
	case !status.Success:
		return failureLabel
	case status.Partial:
		return partialLabel
	default:
		return successLabel
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
