package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/tank-emergency/internal/config"
	"github.com/oshokin/tank-emergency/internal/logger"
	"github.com/oshokin/tank-emergency/internal/service/server"
	"github.com/oshokin/tank-emergency/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile path where the tank snapshot is persisted.
	stateFile string
	// options holds values bound directly to flags.
	options server.Options

	// rootCmd represents the base command for running the gRPC server.
	rootCmd = &cobra.Command{
		Use:   "tank-server [listen-address]",
		Short: "Run the tank emergency simulator server.",
		Long: `Starts the gRPC server that owns the two-tank state and the emergency engine.

Operators trigger and resolve emergencies through tank-console. With a trigger
interval (from the settings or --trigger-interval) the server also raises a random
emergency on its own whenever none is pending.

Only the port from server_addr is used for listening (e.g., :50051).
The tank snapshot is persisted to a YAML file and restored on start.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			if len(args) > 0 {
				options.ListenAddress = args[0]
			}

			options.ConfigPath = configPath
			options.StateFile = stateFile

			return server.Run(ctx, &options)
		},
	}
)

// Execute runs the tank-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "path to persist the tank snapshot")
	rootCmd.Flags().
		DurationVarP(&options.TriggerInterval, "trigger-interval", "i", 0, "trigger an emergency this often while none is pending")
}
