package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig is the file-based configuration stored in ~/.courselab/config.yaml
type LocalConfig struct {
	Daemon    DaemonConfig    `yaml:"daemon"`
	Courses   CoursesConfig   `yaml:"courses"`
	Storage   StorageConfig   `yaml:"storage"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Events    EventsConfig    `yaml:"events"`
}

// DaemonConfig holds daemon server settings
type DaemonConfig struct {
	Port     int    `yaml:"port"`
	Bind     string `yaml:"bind"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// Addr returns the listen address in host:port form
func (d DaemonConfig) Addr() string {
	return fmt.Sprintf("%s:%d", d.Bind, d.Port)
}

// CoursesConfig holds course content settings
type CoursesConfig struct {
	// Path is the course catalog root. Empty resolves to ~/.courselab/courses.
	Path string `yaml:"path,omitempty"`
}

// StorageConfig holds progress persistence settings
type StorageConfig struct {
	Backend     string `yaml:"backend"`                // sqlite, postgres, mongo
	Path        string `yaml:"path,omitempty"`         // sqlite file, empty resolves under ~/.courselab
	DatabaseURL string `yaml:"database_url,omitempty"` // postgres connection string
	MongoURL    string `yaml:"mongo_url,omitempty"`    // mongodb connection string
}

// SimulatorConfig holds execution backend settings
type SimulatorConfig struct {
	Backend       string `yaml:"backend"` // local, http
	URL           string `yaml:"url,omitempty"`
	TimeoutMs     int    `yaml:"timeout_ms"`
	CompileCheck  bool   `yaml:"compile_check"`
	MaxConcurrent int    `yaml:"max_concurrent"`
	RatePerSecond int    `yaml:"rate_per_second"`
}

// EventsConfig holds event publishing settings
type EventsConfig struct {
	// URL is the AMQP broker address. Empty disables publishing.
	URL string `yaml:"url,omitempty"`
}

// CourselabDir returns the path to ~/.courselab
func CourselabDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".courselab"), nil
}

// EnsureCourselabDir creates ~/.courselab and its subdirectories if needed
func EnsureCourselabDir() (string, error) {
	dir, err := CourselabDir()
	if err != nil {
		return "", err
	}

	subdirs := []string{"", "logs", "courses"}
	for _, subdir := range subdirs {
		path := filepath.Join(dir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", path, err)
		}
	}

	return dir, nil
}

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Daemon: DaemonConfig{
			Port:     7496,
			Bind:     "127.0.0.1",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Simulator: SimulatorConfig{
			Backend:       "local",
			TimeoutMs:     30000,
			CompileCheck:  true,
			MaxConcurrent: 4,
			RatePerSecond: 5,
		},
	}
}

// CoursesDir resolves the course catalog root, defaulting under ~/.courselab
func (c *LocalConfig) CoursesDir() (string, error) {
	if c.Courses.Path != "" {
		return c.Courses.Path, nil
	}
	dir, err := CourselabDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "courses"), nil
}

// StoragePath resolves the SQLite database file, defaulting under ~/.courselab
func (c *LocalConfig) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := CourselabDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "courselab.db"), nil
}

// ApplyEnv overlays environment overrides onto the file-based configuration.
// Only values actually present in the environment replace file values.
func (c *LocalConfig) ApplyEnv(env *Config) {
	if env == nil {
		return
	}
	if env.Port != 0 {
		c.Daemon.Port = env.Port
	}
	if env.Bind != "" {
		c.Daemon.Bind = env.Bind
	}
	if env.Debug {
		c.Daemon.LogLevel = "debug"
	}
	if env.CoursesPath != "" {
		c.Courses.Path = env.CoursesPath
	}
	if env.DatabaseURL != "" {
		c.Storage.Backend = "postgres"
		c.Storage.DatabaseURL = env.DatabaseURL
	}
	if env.MongoURL != "" {
		c.Storage.Backend = "mongo"
		c.Storage.MongoURL = env.MongoURL
	}
	if env.RabbitMQURL != "" {
		c.Events.URL = env.RabbitMQURL
	}
	if env.SimulatorURL != "" {
		c.Simulator.Backend = "http"
		c.Simulator.URL = env.SimulatorURL
	}
	if env.SimulatorTimeoutMs > 0 {
		c.Simulator.TimeoutMs = env.SimulatorTimeoutMs
	}
	if env.CompileCheck {
		c.Simulator.CompileCheck = true
	}
}

// LoadLocalConfig reads ~/.courselab/config.yaml, returning defaults when
// the file does not exist
func LoadLocalConfig() (*LocalConfig, error) {
	dir, err := CourselabDir()
	if err != nil {
		return nil, err
	}

	cfg := DefaultLocalConfig()

	configPath := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveLocalConfig writes the configuration to ~/.courselab/config.yaml
func SaveLocalConfig(cfg *LocalConfig) error {
	dir, err := EnsureCourselabDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
