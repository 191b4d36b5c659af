package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VoxDroid/routeml/internal/config"
	"github.com/VoxDroid/routeml/internal/logging"
)

var (
	// settings is loaded before every subcommand runs.
	settings = config.Defaults()
	logger   = zap.NewNop().Sugar()
)

var rootCmd = &cobra.Command{
	Use:   "routeml",
	Short: "routeml solves, stores, plots and publishes vehicle routing solutions",
	Long: `routeml is a toolkit for capacitated vehicle routing problems.

It converts between route lists and flat solutions, builds solutions with the
savings heuristic and 2-opt, plots routes and node embeddings, keeps a
SQLite-backed registry of named solutions, and publishes the project
(docs deploy, then package upload).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")
		s, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		settings = s
		l, err := logging.New(verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		logger.Debugw("settings loaded", "config", cfgPath, "package", settings.Package)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "routeml: run 'routeml --help' to see available commands")
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML settings file (default $ROUTEML_HOME/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
}
