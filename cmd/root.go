// Package cmd provides the root command and CLI setup for livesync.
package cmd

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"livesync.dev/pkg/livesync/internal/adapter"
	"livesync.dev/pkg/livesync/internal/controller"
	"livesync.dev/pkg/livesync/internal/domain"
)

var workflow domain.Workflow
var recorder *journalRecorder
var registry *prometheus.Registry

// storeRootFlag is a root-level flag pointing at the content tree.
var storeRootFlag string

// verboseFlag forces debug logging.
var verboseFlag bool

// jsonFlag switches command output to JSON.
var jsonFlag bool

const rootLongDescription = `Livesync keeps live copies of a content tree in sync with their blueprint.

A blueprint is a node other nodes were copied from; every copy is a live copy
that is rolled out (re-synchronized) from its master and can then be published.
Live-copy relationships are declared in livecopies.yaml at the store root.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "livesync",
		Short:        "Live-copy rollout tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&storeRootFlag, storeFlagName, "s", viper.GetString(storeRootKey), "root directory of the content store")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(storeFlagName), storeRootKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	cmd.PersistentFlags().BoolVar(&jsonFlag, jsonFlagName, false, "print results as JSON")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// newUI returns the output for cmd honoring --json.
func newUI(cmd *cobra.Command) controller.UI {
	asJSON, err := cmd.Flags().GetBool(jsonFlagName)
	if err != nil {
		asJSON = false
	}

	return controller.NewUI(cmd, asJSON)
}

// getWorkflow wires the store, scheduler, metrics, and journal on first use.
func getWorkflow() (domain.Workflow, error) {
	if workflow != nil {
		return workflow, nil
	}

	storeRoot := viper.GetString(storeRootKey)
	if _, err := os.Stat(storeRoot); err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", storeRoot, err)
	}

	store := adapter.NewStore(
		osfs.New(storeRoot),
		osfs.New(viper.GetString(storePublishedKey)),
		adapter.WithStoreLogger(globalLogger),
	)

	registry = prometheus.NewRegistry()

	metrics, err := domain.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	recorder = newJournalRecorder(viper.GetString(journalPathKey))

	opts := []domain.Option{
		domain.WithLogger(globalLogger),
		domain.WithMetrics(metrics),
		domain.WithScheduler(domain.NewScheduler(viper.GetInt(syncPoolSizeKey), domain.WithTaskTimeout(taskTimeout()))),
		domain.WithRecorder(recorder),
	}

	workflow = domain.NewWorkflow(
		store,
		domain.NewCollector(store, store, store, opts...),
		domain.NewBlueprintChecker(store, store, opts...),
		domain.NewSyncOrchestrator(store, store, opts...),
		domain.NewReplicationExecutor(store, store, store, opts...),
		opts...,
	)

	return workflow, nil
}

// finishRun closes the journal and writes the metrics textfile if configured.
func finishRun() error {
	if recorder != nil {
		if err := recorder.Close(); err != nil {
			return fmt.Errorf("failed to close journal: %w", err)
		}
	}

	textfile := viper.GetString(metricsTextfileKey)
	if registry == nil || textfile == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(textfile, registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", textfile, err)
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
