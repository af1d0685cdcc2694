package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds settings read from environment variables. Every field is an
// override: the zero value means "not set" and leaves the corresponding
// LocalConfig value untouched when the two are merged with ApplyEnv.
type Config struct {
	// Server
	Port  int
	Bind  string
	Debug bool

	// Course content root
	CoursesPath string

	// Storage. A non-empty DatabaseURL moves progress from the local
	// SQLite file to Postgres; a non-empty MongoURL moves it to MongoDB.
	DatabaseURL string
	MongoURL    string

	// Events. A non-empty RabbitMQURL turns on event publishing.
	RabbitMQURL string

	// Execution. A non-empty SimulatorURL routes execution to an HTTP
	// backend instead of the in-process simulator.
	SimulatorURL       string
	SimulatorTimeoutMs int
	CompileCheck       bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnvInt("PORT", 0),
		Bind:               getEnv("BIND", ""),
		Debug:              getEnvBool("DEBUG", false),
		CoursesPath:        getEnv("COURSES_PATH", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MongoURL:           getEnv("MONGO_URL", ""),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		SimulatorURL:       getEnv("SIMULATOR_URL", ""),
		SimulatorTimeoutMs: getEnvInt("SIMULATOR_TIMEOUT_MS", 0),
		CompileCheck:       getEnvBool("COMPILE_CHECK", false),
	}

	// Validate ranges for values that reach the listener and the simulator
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT %d out of range", cfg.Port)
	}
	if cfg.SimulatorTimeoutMs < 0 {
		return nil, fmt.Errorf("SIMULATOR_TIMEOUT_MS must not be negative, got %d", cfg.SimulatorTimeoutMs)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
