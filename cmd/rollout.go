package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"livesync.dev/pkg/livesync/internal/controller"
	"livesync.dev/pkg/livesync/internal/domain"
	m "livesync.dev/pkg/livesync/internal/model"
)

var rolloutTargetsFlag []string
var rolloutDeepFlag bool
var rolloutPublishFlag bool
var rolloutPublishDeepFlag bool
var rolloutParallelFlag int
var rolloutInteractiveFlag bool

// pickRolloutTargets and isTerminal are replaced in tests.
var pickRolloutTargets = controller.PickRolloutTargets
var isTerminal = func(cmd *cobra.Command) bool {
	in, inOK := cmd.InOrStdin().(*os.File)
	out, outOK := cmd.OutOrStdout().(*os.File)

	return inOK && outOK && term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// rolloutCmd represents the rollout command.
var rolloutCmd = newRolloutCmd()

func newRolloutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollout <path>",
		Short: "Roll out a blueprint to its live copies",
		Long: `Synchronize the live copies of the given blueprint from their masters.

Copies are synchronized level by level: a nested live copy is only rolled out
after the copy it was made from. Use --target to restrict the run to selected
live copies, or --interactive to check them in a tree, and --publish to
publish them afterwards. A target also selects the live copies nested below it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			wf, err := getWorkflow()
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, finishRun())
			}()

			rolloutArgs := domain.RolloutArgs{
				Source:      args[0],
				Targets:     rolloutTargetsFlag,
				Deep:        rolloutDeepFlag,
				Publish:     rolloutPublishFlag || rolloutPublishDeepFlag,
				PublishDeep: rolloutPublishDeepFlag,
			}

			if rolloutInteractiveFlag {
				selection, err := selectInteractively(cmd, wf, args[0])
				if errors.Is(err, controller.ErrSelectionCancelled) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Rollout cancelled")
					return nil
				}

				if err != nil {
					return err
				}

				rolloutArgs.Targets = selection.Targets
				rolloutArgs.ExactTargets = true
				rolloutArgs.Deep = selection.Deep
			}

			result, err := wf.Rollout(cmd.Context(), rolloutArgs)
			if err != nil {
				return err
			}

			if err := newUI(cmd).DisplayStatuses(cmd.Context(), result.RunID, result.Statuses, result.FailedTargets); err != nil {
				return err
			}

			if len(result.FailedTargets) > 0 {
				return fmt.Errorf("rollout failed for %d targets: %w", len(result.FailedTargets), m.ErrSyncFailed)
			}

			return nil
		},
	}

	configureRolloutFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(rolloutCmd)
}

// selectInteractively shows the live-copy tree of source as a checkbox list.
func selectInteractively(cmd *cobra.Command, wf domain.Workflow, source string) (controller.RolloutSelection, error) {
	if !isTerminal(cmd) {
		return controller.RolloutSelection{}, fmt.Errorf("--%s requires a terminal: %w", interactiveFlagName, m.ErrInvalidInput)
	}

	nodes, err := wf.Tree(cmd.Context(), source)
	if err != nil {
		return controller.RolloutSelection{}, err
	}

	if len(nodes) == 0 {
		return controller.RolloutSelection{}, fmt.Errorf("nothing to roll out from %s: %w", source, m.ErrInvalidInput)
	}

	return pickRolloutTargets(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), source, nodes, rolloutDeepFlag)
}

func configureRolloutFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&rolloutTargetsFlag, targetFlagName, "t", nil, "live-copy path to roll out (can be repeated)")
	cmd.Flags().BoolVarP(&rolloutDeepFlag, deepFlagName, "d", false, "synchronize the whole subtree of every live copy")
	cmd.Flags().BoolVar(&rolloutPublishFlag, publishFlagName, false, "publish the live copies after the rollout")
	cmd.Flags().BoolVar(&rolloutPublishDeepFlag, publishDeepFlagName, false, "publish the live copies and their descendants after the rollout")
	cmd.Flags().IntVarP(&rolloutParallelFlag, parallelFlagName, "p", viper.GetInt(syncPoolSizeKey), "number of live copies synchronized concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), syncPoolSizeKey)
	cmd.Flags().BoolVarP(&rolloutInteractiveFlag, interactiveFlagName, "i", false, "pick the live copies to roll out in an interactive tree")
	cmd.MarkFlagsMutuallyExclusive(interactiveFlagName, targetFlagName)
}
