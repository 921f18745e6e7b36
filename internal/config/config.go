// Package config provides configuration management for the trigger engine.
// It loads configuration from environment variables with sensible defaults
// and validates the result before the application starts.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path (default: trigger-engine.log)
//
// Trigger Settings:
//   - TRIGGER_DEFINITIONS: Path to the YAML trigger definitions file
//   - MAX_FAILURES: Consecutive failures before a trigger is suspended (default: 3)
//   - TICK_INTERVAL: Scheduler tick cadence for timer conditions (default: 1s)
//
// Expression Evaluation:
//   - EXPR_CACHE_EXPIRATION: Compiled expression cache TTL (default: 5m)
//   - EXPR_RATE_LIMIT: Expression evaluations per second (default: 100)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the trigger engine. Each field
// corresponds to an environment variable that overrides its default.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	LogFile  string // Log file path

	// Trigger settings
	TriggerDefinitions string        // Path to YAML trigger definitions, empty for none
	MaxFailures        uint64        // Failure budget before suspension
	TickInterval       time.Duration // Scheduler tick cadence

	// Expression evaluation
	ExprCacheExpiration time.Duration // Compiled expression cache TTL
	ExprRateLimit       float64       // Evaluations per second
}

// Load creates a Config with values from the environment, falling back to
// defaults. Call Validate before use.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "trigger-engine.log"),

		TriggerDefinitions: getEnv("TRIGGER_DEFINITIONS", ""),
		MaxFailures:        getUintEnv("MAX_FAILURES", 3),
		TickInterval:       getDurationEnv("TICK_INTERVAL", time.Second),

		ExprCacheExpiration: getDurationEnv("EXPR_CACHE_EXPIRATION", 5*time.Minute),
		ExprRateLimit:       getFloatEnv("EXPR_RATE_LIMIT", 100),
	}
}

// Validate checks that every configured value is usable.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q: must be debug, info, warn or error", c.LogLevel)
	}

	if c.MaxFailures == 0 {
		return fmt.Errorf("invalid MAX_FAILURES: must be greater than 0")
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("invalid TICK_INTERVAL: must be a positive duration")
	}

	if c.ExprCacheExpiration <= 0 {
		return fmt.Errorf("invalid EXPR_CACHE_EXPIRATION: must be a positive duration")
	}

	if c.ExprRateLimit <= 0 {
		return fmt.Errorf("invalid EXPR_RATE_LIMIT: must be greater than 0")
	}

	if c.TriggerDefinitions != "" {
		if _, err := os.Stat(c.TriggerDefinitions); err != nil {
			return fmt.Errorf("TRIGGER_DEFINITIONS file %q is not readable: %w", c.TriggerDefinitions, err)
		}
	}

	return nil
}

// getEnv retrieves an environment variable or returns the default when
// unset or empty.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getUintEnv retrieves an unsigned integer environment variable, falling
// back to the default on absence or parse failure.
func getUintEnv(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable ("30s", "5m"),
// falling back to the default on absence or parse failure.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getFloatEnv retrieves a float environment variable, falling back to the
// default on absence or parse failure.
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
