package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sourcegraph/conc/pool"
	"google.golang.org/grpc"

	api "github.com/oshokin/tank-emergency/internal/api/grpc/emergency"
	"github.com/oshokin/tank-emergency/internal/config"
	"github.com/oshokin/tank-emergency/internal/logger"
	"github.com/oshokin/tank-emergency/internal/metrics"
	"github.com/oshokin/tank-emergency/internal/notify"
	repository "github.com/oshokin/tank-emergency/internal/repository/snapshot"
	"github.com/oshokin/tank-emergency/internal/service/engine"
)

// Options controls the tank-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StateFile overrides the snapshot path from the settings.
	StateFile string
	// TriggerInterval overrides the periodic trigger interval when positive.
	TriggerInterval time.Duration
}

// shutdownTimeout bounds the metrics server shutdown.
const shutdownTimeout = 5 * time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and blocks until ctx is canceled or a component fails.
//
//nolint:funlen // Wiring reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	setupLogging(ctx, settings)

	ctx = logger.WithName(ctx, "tank-server")

	stateFile := settings.StateFile
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}

	triggerInterval := settings.TriggerInterval
	if opts.TriggerInterval > 0 {
		triggerInterval = opts.TriggerInterval
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	publisher, err := newPublisher(ctx, settings)
	if err != nil {
		return err
	}
	defer publisher.Close()

	svc, err := newService(ctx, dependencies{
		repo:      repository.NewFileRepository(stateFile),
		initial:   settings.Tanks(),
		rng:       engine.NewRandom(settings.Seed),
		recorder:  metrics.New(registry),
		publisher: publisher,
	})
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterEmergencyServiceServer(grpcServer, api.NewServer(svc))

	var metricsServer *http.Server
	if settings.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(registry))

		metricsServer = &http.Server{
			Addr:              settings.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: settings.Timeout,
		}
	}

	logger.InfoKV(ctx, "Tank server listening",
		"listen_address", listenAddress,
		"metrics_address", settings.MetricsAddress,
		"state_file", stateFile,
		"trigger_interval", triggerInterval,
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()

	p.Go(func(context.Context) error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	if metricsServer != nil {
		p.Go(func(context.Context) error {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}

			return nil
		})
	}

	if triggerInterval > 0 {
		p.Go(func(ctx context.Context) error {
			runTriggerLoop(ctx, svc, triggerInterval)

			return nil
		})
	}

	p.Go(func(poolCtx context.Context) error {
		<-poolCtx.Done()
		logger.Info(ctx, "Shutting down tank server")

		grpcServer.GracefulStop()

		if metricsServer == nil {
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := p.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "Tank server stopped")

	return nil
}

// runTriggerLoop triggers an emergency every interval while none is pending.
func runTriggerLoop(ctx context.Context, svc *service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, triggered, err := svc.TriggerIfIdle(ctx)

			switch {
			case err != nil:
				logger.ErrorKV(ctx, "Scheduled trigger was not saved", "error", err)
			case !triggered:
				logger.Debug(ctx, "Emergency still pending, skipping scheduled trigger")
			}
		}
	}
}

// setupLogging applies the level and the optional log file from the settings.
func setupLogging(ctx context.Context, settings *config.Config) {
	level, ok := logger.ParseLogLevel(settings.LogLevel)
	if !ok {
		logger.WarnKV(ctx, "Unknown log level, using info", "log_level", settings.LogLevel)
	}

	logger.SetLevel(level)

	if settings.LogFile != "" {
		logger.SetLogger(logger.NewWithFile(nil, settings.LogFile))
	}
}

// newPublisher connects to NATS when configured.
//
//nolint:ireturn // Callers only need the interface.
func newPublisher(ctx context.Context, settings *config.Config) (notify.Publisher, error) {
	if settings.NatsURL == "" {
		return notify.Nop{}, nil
	}

	publisher, err := notify.Connect(settings.NatsURL, settings.NatsSubject)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Publishing events to NATS", "url", settings.NatsURL, "subject", settings.NatsSubject)

	return publisher, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Bind on all interfaces.
	return ":" + port, nil
}
