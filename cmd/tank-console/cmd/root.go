package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/tank-emergency/internal/config"
	"github.com/oshokin/tank-emergency/internal/service/client"
	"github.com/oshokin/tank-emergency/internal/version"
)

var (
	// options are shared by every subcommand.
	options client.Options

	// rootCmd is the operator console.
	rootCmd = &cobra.Command{
		Use:   "tank-console",
		Short: "Operate the tank emergency simulator.",
		Long: `Connects to tank-server to inspect the tanks and handle emergencies.

Use "trigger" to raise a random emergency (a leak, a pressure event or a fire),
"status" to see the pending alert and "resolve" to start the response protocol.`,
		SilenceUsage: true,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the pending emergency and the tanks.",
		Args:  cobra.NoArgs,
		RunE:  run(client.Status),
	}

	triggerCmd = &cobra.Command{
		Use:   "trigger",
		Short: "Raise a random emergency, replacing any pending one.",
		Args:  cobra.NoArgs,
		RunE:  run(client.Trigger),
	}

	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Start the response protocol for the pending emergency.",
		Args:  cobra.NoArgs,
		RunE:  run(client.Resolve),
	}

	tanksCmd = &cobra.Command{
		Use:   "tanks",
		Short: "Show the tank levels, temperatures and flow.",
		Args:  cobra.NoArgs,
		RunE:  run(client.Tanks),
	}

	flowCmd = &cobra.Command{
		Use:       "flow on|off",
		Short:     "Enable or disable the liquid flow.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off", "true", "false"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[0])
			if err != nil {
				return err
			}

			return run(func(ctx context.Context, opts *client.Options) error {
				return client.SetFlow(ctx, opts, enabled)
			})(cmd, args)
		},
	}
)

// run adapts a console command to cobra, wiring signals and output.
func run(fn func(ctx context.Context, opts *client.Options) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options.Out = cmd.OutOrStdout()

		return fn(ctx, &options)
	}
}

// parseSwitch accepts on/off as well as boolean literals.
func parseSwitch(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return strconv.ParseBool(s)
	}
}

// Execute runs the tank-console CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&options.ServerAddress, "server", "a", "", "server address, overrides the settings")

	rootCmd.AddCommand(statusCmd, triggerCmd, resolveCmd, tanksCmd, flowCmd)
}
