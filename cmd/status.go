package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statusCmd represents the status command.
var statusCmd = newStatusCmd()

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the statuses of the last rollout",
		Long:  "Read the rollout journal and list the status of every live copy handled by the last run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := readJournal(viper.GetString(journalPathKey))
			if err != nil {
				return err
			}

			return newUI(cmd).DisplayJournal(cmd.Context(), entries)
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
