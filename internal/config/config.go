package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// Config holds the settings of the server and the console.
type Config struct {
	// ServerAddress is the gRPC address the console dials and whose port the server binds.
	ServerAddress string `yaml:"server_addr" validate:"required,hostname_port"`
	// MetricsAddress is where the server exposes Prometheus metrics. Empty disables it.
	MetricsAddress string `yaml:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`
	// StateFile is the path to the YAML file storing the tank snapshot.
	StateFile string `yaml:"state_file"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	// TriggerInterval makes the server trigger emergencies periodically. Zero disables it.
	TriggerInterval time.Duration `yaml:"trigger_interval" validate:"gte=0"`
	// Seed fixes the random source. Zero picks a random seed.
	Seed uint64 `yaml:"seed,omitempty"`
	// LogLevel is the minimum level of log entries.
	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error fatal"`
	// LogFile enables a rotated log file next to stdout.
	LogFile string `yaml:"log_file,omitempty"`
	// NatsURL enables publishing emergency events to NATS.
	NatsURL string `yaml:"nats_url,omitempty" validate:"omitempty,url"`
	// NatsSubject is the subject prefix for published events.
	NatsSubject string `yaml:"nats_subject,omitempty"`
	// InitialTanks is the state used when no state file exists yet.
	InitialTanks *tank.Snapshot `yaml:"initial_tanks,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for the settings.
	DefaultConfigFilename = "tank-emergency-settings.yaml"

	// DefaultStateFilename is the default filename for the tank snapshot.
	DefaultStateFilename = "tank-emergency-state.yaml"

	// DefaultNatsSubject is the default subject prefix for events.
	DefaultNatsSubject = "tanks.emergency"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")

	// validate checks struct tags.
	//nolint:gochecknoglobals // validator caches struct metadata, one instance is meant to be shared.
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills in defaults for optional fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if cfg.NatsSubject == "" {
		cfg.NatsSubject = DefaultNatsSubject
	}

	return nil
}

// Tanks returns the initial tank state, falling back to the defaults.
func (c *Config) Tanks() tank.Snapshot {
	if c.InitialTanks == nil {
		return tank.DefaultSnapshot()
	}

	return *c.InitialTanks
}
