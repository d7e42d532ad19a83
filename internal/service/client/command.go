package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oshokin/tank-emergency/internal/config"
	"github.com/oshokin/tank-emergency/internal/logger"
	"github.com/oshokin/tank-emergency/internal/service/common"
)

// Options configures the console commands.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides the server address from config when specified.
	ServerAddress string
	// Out receives the rendered output. Defaults to stdout.
	Out io.Writer
}

// ErrNothingPending is returned by Resolve when no emergency awaits the operator.
var ErrNothingPending = errors.New("no pending emergency")

// Status prints the pending emergency, if any, and the tanks.
func Status(ctx context.Context, opts *Options) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client, out io.Writer) error {
		state, err := client.GetEmergency(ctx)
		if err != nil {
			return err
		}

		if state.Emergency == nil {
			_, _ = fmt.Fprintln(out, "No pending emergency.")
		} else {
			RenderAlert(out, state.Emergency)
		}

		RenderTanks(out, state.Tanks)

		return nil
	})
}

// Trigger activates a random emergency and prints its alert.
func Trigger(ctx context.Context, opts *Options) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client, out io.Writer) error {
		state, err := client.Trigger(ctx)
		if err != nil {
			return err
		}

		logger.InfoKV(ctx, "Emergency triggered", "id", state.Emergency.ID)

		RenderAlert(out, state.Emergency)
		RenderTanks(out, state.Tanks)

		return nil
	})
}

// Resolve starts the protocol for the pending emergency as the current operator.
func Resolve(ctx context.Context, opts *Options) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client, out io.Writer) error {
		operator, err := common.DetectOperator()
		if err != nil {
			return err
		}

		state, err := client.Resolve(ctx, operator)
		if err != nil {
			return err
		}

		if !state.Active {
			return ErrNothingPending
		}

		_, _ = fmt.Fprintln(out, describeResolution(state.Emergency))
		RenderTanks(out, state.Tanks)

		return nil
	})
}

// Tanks prints the tank state.
func Tanks(ctx context.Context, opts *Options) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client, out io.Writer) error {
		snapshot, err := client.GetTanks(ctx)
		if err != nil {
			return err
		}

		RenderTanks(out, snapshot)

		return nil
	})
}

// SetFlow enables or disables the shared flow and prints the tanks.
func SetFlow(ctx context.Context, opts *Options, enabled bool) error {
	return withClient(ctx, opts, func(ctx context.Context, client *common.Client, out io.Writer) error {
		snapshot, err := client.SetFlow(ctx, enabled)
		if err != nil {
			return err
		}

		RenderTanks(out, snapshot)

		return nil
	})
}

// withClient loads the settings, connects and runs fn.
func withClient(
	ctx context.Context,
	opts *Options,
	fn func(ctx context.Context, client *common.Client, out io.Writer) error,
) error {
	ctx = logger.WithName(ctx, "tank-console")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	logger.DebugKV(ctx, "Connected", "server_address", serverAddress)

	return fn(ctx, client, out)
}
