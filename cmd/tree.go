package cmd

import (
	"github.com/spf13/cobra"
)

// treeCmd represents the tree command.
var treeCmd = newTreeCmd()

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <path>",
		Short: "Show the live copies of a blueprint",
		Long: `Collect the live-copy tree rooted at the given source path and print it.

Live copies that are excluded, missing, or not reachable from the source are
left out. Nested live copies are listed under the copy they were made from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := getWorkflow()
			if err != nil {
				return err
			}

			nodes, err := wf.Tree(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return newUI(cmd).DisplayTree(cmd.Context(), args[0], nodes)
		},
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
