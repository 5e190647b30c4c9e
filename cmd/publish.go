package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"livesync.dev/pkg/livesync/internal/domain"
	m "livesync.dev/pkg/livesync/internal/model"
)

var publishTargetsFlag []string
var publishDeepFlag bool

// publishCmd represents the publish command.
var publishCmd = newPublishCmd()

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <path>",
		Short: "Publish the live copies of a blueprint",
		Long: `Publish the live copies of the given blueprint without synchronizing them.

Live copies that are blueprints themselves are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			wf, err := getWorkflow()
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, finishRun())
			}()

			result, err := wf.Publish(cmd.Context(), domain.PublishArgs{
				Source:  args[0],
				Targets: publishTargetsFlag,
				Deep:    publishDeepFlag,
			})
			if err != nil {
				return err
			}

			if err := newUI(cmd).DisplayStatuses(cmd.Context(), result.RunID, result.Statuses, result.FailedTargets); err != nil {
				return err
			}

			if len(result.FailedTargets) > 0 {
				return fmt.Errorf("publish failed for %d targets: %w", len(result.FailedTargets), m.ErrPublishFailed)
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&publishTargetsFlag, targetFlagName, "t", nil, "live-copy path to publish (can be repeated)")
	cmd.Flags().BoolVarP(&publishDeepFlag, deepFlagName, "d", false, "publish the descendants of every live copy as well")

	return cmd
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
