package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"livesync.dev/pkg/livesync/internal/controller"
	"livesync.dev/pkg/livesync/internal/domain"
	domainmocks "livesync.dev/pkg/livesync/internal/domain/mocks"
	m "livesync.dev/pkg/livesync/internal/model"
)

func TestRolloutCmd_PassesFlags(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Rollout", mock.Anything, mock.MatchedBy(func(args domain.RolloutArgs) bool {
		return args.Source == "/content/bp" &&
			assert.ObjectsAreEqual([]string{"/content/lc1", "/content/lc2"}, args.Targets) &&
			args.Deep &&
			args.Publish &&
			args.PublishDeep
	})).Return(domain.RolloutResult{
		RunID: "run-1",
		Statuses: []m.SyncStatus{
			{Target: "/content/lc1", Success: true},
			{Target: "/content/lc2", Success: true},
		},
		FailedTargets: []string{},
	}, nil)

	cmd, out := newTestRootCmd(t, newRolloutCmd())
	cmd.SetArgs([]string{
		"rollout", "/content/bp",
		"--target", "/content/lc1", "-t", "/content/lc2",
		"--deep", "--publish-deep",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "run-1")
	assert.Contains(t, out.String(), "/content/lc2")
}

func TestRolloutCmd_FailsOnFailedTargets(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Rollout", mock.Anything, mock.MatchedBy(func(args domain.RolloutArgs) bool {
		return !args.Publish && !args.Deep && len(args.Targets) == 0
	})).Return(domain.RolloutResult{
		RunID: "run-2",
		Statuses: []m.SyncStatus{
			{Target: "/content/lc1", Success: false, Err: "boom"},
		},
		FailedTargets: []string{"/content/lc1"},
	}, nil)

	cmd, out := newTestRootCmd(t, newRolloutCmd())
	cmd.SetArgs([]string{"rollout", "/content/bp"})

	err := cmd.Execute()
	require.ErrorIs(t, err, m.ErrSyncFailed)
	assert.Contains(t, out.String(), "Rollout failed for 1 target(s)")
}

func TestRolloutCmd_WorkflowError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Rollout", mock.Anything, mock.Anything).Return(domain.RolloutResult{}, m.ErrInvalidInput)

	cmd, _ := newTestRootCmd(t, newRolloutCmd())
	cmd.SetArgs([]string{"rollout", "/content/bp"})

	require.ErrorIs(t, cmd.Execute(), m.ErrInvalidInput)
}

func TestRolloutCmd_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	storeRoot := filepath.Join(dir, "store")
	published := filepath.Join(dir, "published")
	journalPath := filepath.Join(dir, "journal", "run.gob")

	writeFile(t, filepath.Join(storeRoot, "livecopies.yaml"), `liveCopies:
  - blueprint: /content/bp
    path: /content/lc
    deep: true
    triggers: [rollout]
`)
	writeFile(t, filepath.Join(storeRoot, "content", "bp", "content.yaml"), "title: Hello\n")
	writeFile(t, filepath.Join(storeRoot, "content", "bp", "page", "content.yaml"), "title: Page\n")

	useWorkflow(t, nil)
	setConfig(t, map[string]any{
		storeRootKey:      storeRoot,
		storePublishedKey: published,
		journalPathKey:    journalPath,
	})

	cmd, out := newTestRootCmd(t, newRolloutCmd(), newStatusCmd())
	cmd.SetArgs([]string{"rollout", "/content/bp", "--deep", "--publish"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "/content/lc")

	synced, err := os.ReadFile(filepath.Join(storeRoot, "content", "lc", "content.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(synced), "Hello")

	_, err = os.Stat(filepath.Join(storeRoot, "content", "lc", "page", "content.yaml"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(published, "content", "lc", "content.yaml"))
	require.NoError(t, err)

	entries, err := readJournal(journalPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "sync", entries[0].Operation)
	assert.Equal(t, "publish", entries[1].Operation)
	assert.Equal(t, entries[0].RunID, entries[1].RunID)
	assert.True(t, entries[0].Status.Success)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// setConfig overrides viper keys and restores their defaults when the test ends.
func setConfig(t *testing.T, values map[string]any) {
	t.Helper()

	defaults := map[string]any{
		storeRootKey:       defaultStoreRoot,
		storePublishedKey:  defaultStorePublished,
		journalPathKey:     defaultJournalPath,
		metricsTextfileKey: defaultMetricsTextfile,
	}

	for key, value := range values {
		viper.Set(key, value)

		restore := defaults[key]
		t.Cleanup(func() { viper.Set(key, restore) })
	}
}

func TestRolloutCmd_ExampleSite(t *testing.T) {
	storeRoot := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.CopyFS(storeRoot, os.DirFS(filepath.Join("..", "examples", "site"))))

	useWorkflow(t, nil)
	setConfig(t, map[string]any{
		storeRootKey:      storeRoot,
		storePublishedKey: filepath.Join(storeRoot, ".livesync-published"),
		journalPathKey:    filepath.Join(storeRoot, ".livesync-journal.gob"),
	})

	cmd, _ := newTestRootCmd(t, newRolloutCmd(), newTreeCmd())
	cmd.SetArgs([]string{"rollout", "/content/blueprint/en", "--deep"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(storeRoot, "content", "sites", "de", "en", "about", "content.yaml"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(storeRoot, "content", "sites", "de", "en", "private"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(storeRoot, "content", "sites", "fr", "en", "private", "content.yaml"))
	require.NoError(t, err)

	cmd, out := newTestRootCmd(t, newTreeCmd())
	cmd.SetArgs([]string{"tree", "--json", "/content/blueprint/en"})
	require.NoError(t, cmd.Execute())

	var nodes []m.LiveCopyNode
	require.NoError(t, json.Unmarshal(out.Bytes(), &nodes))
	require.Len(t, nodes, 2)

	assert.Equal(t, "/content/sites/de/en", nodes[0].Path)
	assert.True(t, nodes[0].AutoRolloutTrigger)
	assert.NotNil(t, nodes[0].LastSyncedAt)
	require.Len(t, nodes[0].LiveCopies, 1)
	assert.Equal(t, "/content/sites/fr/de", nodes[0].LiveCopies[0].Path)
	assert.True(t, nodes[0].LiveCopies[0].IsNew)

	assert.Equal(t, "/content/sites/fr/en", nodes[1].Path)
	assert.False(t, nodes[1].AutoRolloutTrigger)
}

// fakeTerminal makes the rollout command treat its streams as a terminal.
func fakeTerminal(t *testing.T, terminal bool) {
	t.Helper()

	original := isTerminal
	isTerminal = func(*cobra.Command) bool { return terminal }

	t.Cleanup(func() { isTerminal = original })
}

func interactiveTree() []m.LiveCopyNode {
	return []m.LiveCopyNode{
		{
			Master: "/content/bp",
			Path:   "/content/lc1",
			LiveCopies: []m.LiveCopyNode{
				{Master: "/content/lc1", Path: "/content/lc1a", Depth: 1},
			},
		},
		{Master: "/content/bp", Path: "/content/lc2"},
	}
}

func TestRolloutCmd_InteractiveKeyPresses(t *testing.T) {
	fakeTerminal(t, true)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Tree", mock.Anything, "/content/bp").Return(interactiveTree(), nil).Once()
	mockWorkflow.On("Rollout", mock.Anything, domain.RolloutArgs{
		Source:       "/content/bp",
		Targets:      []string{"/content/lc1", "/content/lc1a"},
		ExactTargets: true,
		Deep:         true,
	}).Return(domain.RolloutResult{
		RunID:         "run-i",
		Statuses:      []m.SyncStatus{{Target: "/content/lc1", Success: true}, {Target: "/content/lc1a", Success: true}},
		FailedTargets: []string{},
	}, nil).Once()

	cmd, out := newTestRootCmd(t, newRolloutCmd())
	// space checks /content/lc1 and its nested copy, d includes subpages, enter confirms.
	cmd.SetIn(bytes.NewBufferString(" d\r"))
	cmd.SetArgs([]string{"rollout", "/content/bp", "--interactive"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "run-i")
}

func TestRolloutCmd_InteractiveUncheckNestedCopy(t *testing.T) {
	fakeTerminal(t, true)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Tree", mock.Anything, "/content/bp").Return(interactiveTree(), nil).Once()
	mockWorkflow.On("Rollout", mock.Anything, mock.MatchedBy(func(args domain.RolloutArgs) bool {
		return args.ExactTargets && !args.Deep &&
			assert.ObjectsAreEqual([]string{"/content/lc1"}, args.Targets)
	})).Return(domain.RolloutResult{RunID: "run-j", FailedTargets: []string{}}, nil).Once()

	cmd, _ := newTestRootCmd(t, newRolloutCmd())
	cmd.SetIn(bytes.NewBufferString(" j \r"))
	cmd.SetArgs([]string{"rollout", "/content/bp", "-i"})

	require.NoError(t, cmd.Execute())
}

func TestRolloutCmd_InteractiveCancelled(t *testing.T) {
	fakeTerminal(t, true)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Tree", mock.Anything, "/content/bp").Return(interactiveTree(), nil).Once()

	cmd, out := newTestRootCmd(t, newRolloutCmd())
	cmd.SetIn(bytes.NewBufferString("q"))
	cmd.SetArgs([]string{"rollout", "/content/bp", "--interactive"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Rollout cancelled")
	mockWorkflow.AssertNotCalled(t, "Rollout", mock.Anything, mock.Anything)
}

func TestRolloutCmd_InteractiveUsesPicker(t *testing.T) {
	fakeTerminal(t, true)

	original := pickRolloutTargets
	t.Cleanup(func() { pickRolloutTargets = original })

	pickRolloutTargets = func(_ context.Context, _ io.Reader, _ io.Writer, source string, nodes []m.LiveCopyNode, deep bool) (controller.RolloutSelection, error) {
		assert.Equal(t, "/content/bp", source)
		assert.Len(t, nodes, 2)
		assert.True(t, deep, "--deep preselects subpages")

		return controller.RolloutSelection{Targets: []string{"/content/lc2"}}, nil
	}

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Tree", mock.Anything, "/content/bp").Return(interactiveTree(), nil).Once()
	mockWorkflow.On("Rollout", mock.Anything, domain.RolloutArgs{
		Source:       "/content/bp",
		Targets:      []string{"/content/lc2"},
		ExactTargets: true,
		Publish:      true,
	}).Return(domain.RolloutResult{RunID: "run-k", FailedTargets: []string{}}, nil).Once()

	cmd, _ := newTestRootCmd(t, newRolloutCmd())
	cmd.SetArgs([]string{"rollout", "/content/bp", "-i", "--deep", "--publish"})

	require.NoError(t, cmd.Execute())
}

func TestRolloutCmd_InteractiveRequiresTerminal(t *testing.T) {
	fakeTerminal(t, false)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRootCmd(t, newRolloutCmd())
	cmd.SetArgs([]string{"rollout", "/content/bp", "--interactive"})

	err := cmd.Execute()
	require.ErrorIs(t, err, m.ErrInvalidInput)
	assert.Contains(t, err.Error(), "requires a terminal")
}

func TestRolloutCmd_InteractiveNothingToRollOut(t *testing.T) {
	fakeTerminal(t, true)

	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("Tree", mock.Anything, "/content/bp").Return([]m.LiveCopyNode{}, nil).Once()

	cmd, _ := newTestRootCmd(t, newRolloutCmd())
	cmd.SetArgs([]string{"rollout", "/content/bp", "--interactive"})

	require.ErrorIs(t, cmd.Execute(), m.ErrInvalidInput)
}

func TestRolloutCmd_InteractiveExcludesTargets(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRootCmd(t, newRolloutCmd())
	cmd.SetArgs([]string{"rollout", "/content/bp", "--interactive", "--target", "/content/lc1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}
