package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"livesync.dev/pkg/livesync/internal/adapter"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default livesync.yaml configuration file",
		Long: `Create a livesync.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually. An empty live-copy manifest
is created at the store root when none exists yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			storeRoot := viper.GetString(storeRootKey)
			manifestPath := filepath.Join(storeRoot, adapter.ManifestFileName)

			if _, err := os.Stat(manifestPath); !errors.Is(err, os.ErrNotExist) {
				cmd.Printf("Wrote %s\n", targetPath)
				return nil
			}

			store := adapter.NewStore(osfs.New(storeRoot), osfs.New(viper.GetString(storePublishedKey)))
			if err := store.SaveManifest(adapter.Manifest{LiveCopies: []adapter.LiveCopyConfig{}}); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}

			cmd.Printf("Wrote %s and %s\n", targetPath, manifestPath)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
