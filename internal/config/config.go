package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when --config is not given; a missing file there is not an error.
const DefaultPath = "airline.yaml"

// Config holds all airline configuration.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	UsersFile   string `yaml:"users_file"`
	FlightsFile string `yaml:"flights_file"`

	Storage StorageConfig `yaml:"storage"`
	Events  EventsConfig  `yaml:"events"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // json, postgres, memory
	DSN    string `yaml:"dsn"`
}

// EventsConfig selects the transport used to publish domain events.
type EventsConfig struct {
	Driver        string   `yaml:"driver"` // memory, gochannel, redis, kafka
	RedisAddr     string   `yaml:"redis_addr"`
	KafkaBrokers  []string `yaml:"kafka_brokers"`
	ConsumerGroup string   `yaml:"consumer_group"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level       string   `yaml:"level"`
	OutputPaths []string `yaml:"output_paths"`
}

var (
	ValidStorageDrivers = []string{"json", "postgres", "memory"}
	ValidEventDrivers   = []string{"memory", "gochannel", "redis", "kafka"}
)

// DefaultConfig keeps both documents in the working directory, as users.json and flights.json.
func DefaultConfig() *Config {
	return &Config{
		DataDir:     ".",
		UsersFile:   "users.json",
		FlightsFile: "flights.json",
		Storage: StorageConfig{
			Driver: "json",
		},
		Events: EventsConfig{
			Driver:        "memory",
			RedisAddr:     "localhost:6379",
			KafkaBrokers:  []string{"localhost:9092"},
			ConsumerGroup: "airline",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:       "info",
			OutputPaths: []string{"airline.log"},
		},
	}
}

// Load reads path over the defaults. When explicit is false a missing file yields the defaults.
func Load(path string, explicit bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides keeps database credentials out of the YAML file.
func (c *Config) applyEnvOverrides() {
	if dsn := os.Getenv("AIRLINE_DSN"); dsn != "" {
		c.Storage.DSN = dsn
	}
}

func (c *Config) Validate() error {
	if !contains(ValidStorageDrivers, c.Storage.Driver) {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, ValidStorageDrivers)
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("storage driver postgres requires a dsn (storage.dsn or AIRLINE_DSN)")
	}
	if !contains(ValidEventDrivers, c.Events.Driver) {
		return fmt.Errorf("invalid events driver: %s (valid: %v)", c.Events.Driver, ValidEventDrivers)
	}
	if c.Events.Driver == "kafka" && len(c.Events.KafkaBrokers) == 0 {
		return fmt.Errorf("events driver kafka requires at least one broker")
	}
	if c.UsersFile == "" || c.FlightsFile == "" {
		return fmt.Errorf("users_file and flights_file must not be empty")
	}
	return nil
}

func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

func (c *Config) FlightsPath() string {
	return filepath.Join(c.DataDir, c.FlightsFile)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
