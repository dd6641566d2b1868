package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	DatabasePath string

	// Simulation defaults
	Iterations int
	Seed       int64
	SeedSet    bool

	// Result cache
	ResultTTLHours int

	// Evolution engine
	EvolutionCadence  string
	RetentionYears    float64
	SmoothingWindow   int
	DriftEnabled      bool
	RegimeDetection   bool
	TransitionDays    int
	InitialScenarioID string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("PORT", 8010),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/macrosim.db"),

		Iterations:     getEnvAsInt("SIM_ITERATIONS", 10000),
		ResultTTLHours: getEnvAsInt("RESULT_TTL_HOURS", 24),

		EvolutionCadence:  getEnv("EVOLUTION_CADENCE", "daily"),
		RetentionYears:    getEnvAsFloat("SNAPSHOT_RETENTION_YEARS", 10),
		SmoothingWindow:   getEnvAsInt("TREND_SMOOTHING_WINDOW", 10),
		DriftEnabled:      getEnvAsBool("DRIFT_ENABLED", true),
		RegimeDetection:   getEnvAsBool("REGIME_DETECTION_ENABLED", true),
		TransitionDays:    getEnvAsInt("TRANSITION_DURATION_DAYS", 90),
		InitialScenarioID: getEnv("INITIAL_SCENARIO_ID", ""),
	}

	// A fixed seed makes every run reproducible; leave unset for
	// time-derived seeding.
	if value := os.Getenv("SIM_SEED"); value != "" {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SIM_SEED must be an integer, got %q", value)
		}
		cfg.Seed = seed
		cfg.SeedSet = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("SIM_ITERATIONS must be positive, got %d", c.Iterations)
	}
	if c.SmoothingWindow < 2 {
		return fmt.Errorf("TREND_SMOOTHING_WINDOW must be at least 2, got %d", c.SmoothingWindow)
	}
	if c.RetentionYears <= 0 {
		return fmt.Errorf("SNAPSHOT_RETENTION_YEARS must be positive, got %v", c.RetentionYears)
	}
	switch c.EvolutionCadence {
	case "daily", "weekly", "monthly", "quarterly":
	default:
		return fmt.Errorf("EVOLUTION_CADENCE must be daily, weekly, monthly, or quarterly, got %q", c.EvolutionCadence)
	}
	return nil
}

// SeedPtr returns the configured seed, or nil when unset
func (c *Config) SeedPtr() *int64 {
	if !c.SeedSet {
		return nil
	}
	seed := c.Seed
	return &seed
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
