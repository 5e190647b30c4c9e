package cmd

import (
	"github.com/spf13/cobra"
)

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Check whether a node is available for rollout",
		Long:  "Report whether the node at the given path is a blueprint with at least one available live copy.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := getWorkflow()
			if err != nil {
				return err
			}

			isBlueprint, err := wf.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return newUI(cmd).DisplayCheck(cmd.Context(), args[0], isBlueprint)
		},
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
