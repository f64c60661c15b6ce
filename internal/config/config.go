package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Ride holds the orchestrator settings. The yaml tags name the keys accepted
// by the RIDE_CONFIG_FILE overlay.
type Ride struct {
	SeatCapacity                int           `env:"RIDE_SEAT_CAPACITY" envDefault:"3" yaml:"seat_capacity"`
	PickupDebounce              time.Duration `env:"RIDE_PICKUP_DEBOUNCE" envDefault:"250ms" yaml:"pickup_debounce"`
	StartDelay                  time.Duration `env:"RIDE_START_DELAY" envDefault:"5s" yaml:"start_delay"`
	FirstNodeID                 string        `env:"RIDE_FIRST_NODE" yaml:"first_node"`
	SpawnAuthorityOwnsInstances bool          `env:"RIDE_SPAWN_OWNS_INSTANCES" envDefault:"true" yaml:"spawn_owns_instances"`
}

type Config struct {
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level // Parsed from LogLevelRaw
	DataDir     string     `env:"DATA_DIR" envDefault:"./data"`
	ConfigFile  string     `env:"RIDE_CONFIG_FILE"`

	RedisURL     string `env:"REDIS_URL"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"ride-events"`
	MQTTURL      string `env:"MQTT_URL"`
	MQTTTopic    string `env:"MQTT_TOPIC" envDefault:"taxi/ride"`

	Ride Ride
}

// Load reads configuration from the environment, then overlays the ride
// section from RIDE_CONFIG_FILE when it is set.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)

	if cfg.ConfigFile != "" {
		if err := cfg.overlayFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overlayFile applies the keys present in a YAML file on top of the ride
// settings. Keys missing from the file leave the current values alone.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var file struct {
		Ride *rideOverlay `yaml:"ride"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if file.Ride != nil {
		file.Ride.apply(&c.Ride)
	}
	return nil
}

type rideOverlay struct {
	SeatCapacity                *int           `yaml:"seat_capacity"`
	PickupDebounce              *time.Duration `yaml:"pickup_debounce"`
	StartDelay                  *time.Duration `yaml:"start_delay"`
	FirstNodeID                 *string        `yaml:"first_node"`
	SpawnAuthorityOwnsInstances *bool          `yaml:"spawn_owns_instances"`
}

func (o rideOverlay) apply(r *Ride) {
	if o.SeatCapacity != nil {
		r.SeatCapacity = *o.SeatCapacity
	}
	if o.PickupDebounce != nil {
		r.PickupDebounce = *o.PickupDebounce
	}
	if o.StartDelay != nil {
		r.StartDelay = *o.StartDelay
	}
	if o.FirstNodeID != nil {
		r.FirstNodeID = *o.FirstNodeID
	}
	if o.SpawnAuthorityOwnsInstances != nil {
		r.SpawnAuthorityOwnsInstances = *o.SpawnAuthorityOwnsInstances
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Ride.SeatCapacity < 1 {
		errs = append(errs, fmt.Errorf("seat capacity must be at least 1, got %d", c.Ride.SeatCapacity))
	}
	if c.Ride.PickupDebounce < 0 {
		errs = append(errs, fmt.Errorf("pickup debounce must not be negative: %s", c.Ride.PickupDebounce))
	}
	if c.Ride.StartDelay < 0 {
		errs = append(errs, fmt.Errorf("ride start delay must not be negative: %s", c.Ride.StartDelay))
	}
	return errors.Join(errs...)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
