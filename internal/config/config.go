// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/policy"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the catalog database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	Engine     EngineConfig
	Simulation SimulationConfig

	// Schedules are six-field cron expressions; "off" disables the job
	CatalogRefreshSchedule string
	MaintenanceSchedule    string
}

// EngineConfig holds the cost engine defaults
type EngineConfig struct {
	DiscountRate    float64
	Horizon         int
	DefaultScenario string
	PurchaseMethod  domain.PurchaseMethod
	ValueTreatment  domain.ValueTreatment
	PolicyPreset    string
	StrictOverrides bool
}

// SimulationConfig holds Monte Carlo limits
type SimulationConfig struct {
	Workers   int // 0 = one per CPU
	MaxTrials int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("FLEETCOST_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	defaults := costs.DefaultConstants()

	method, err := domain.ParsePurchaseMethod(getEnv("PURCHASE_METHOD", string(domain.PurchaseFinanced)))
	if err != nil {
		return nil, err
	}
	treatment, err := domain.ParseValueTreatment(getEnv("VALUE_TREATMENT", string(domain.ValueResidual)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8001),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Engine: EngineConfig{
			DiscountRate:    getEnvAsFloat("DISCOUNT_RATE", defaults.DiscountRate),
			Horizon:         getEnvAsInt("HORIZON_YEARS", defaults.Horizon),
			DefaultScenario: getEnv("DEFAULT_SCENARIO", "baseline"),
			PurchaseMethod:  method,
			ValueTreatment:  treatment,
			PolicyPreset:    getEnv("POLICY_PRESET", "none"),
			StrictOverrides: getEnvAsBool("STRICT_OVERRIDES", false),
		},
		Simulation: SimulationConfig{
			Workers:   getEnvAsInt("SIM_WORKERS", 0),
			MaxTrials: getEnvAsInt("SIM_MAX_TRIALS", 100000),
		},
		CatalogRefreshSchedule: getEnv("CATALOG_REFRESH_SCHEDULE", "0 */5 * * * *"),
		MaintenanceSchedule:    getEnv("MAINTENANCE_SCHEDULE", "0 0 3 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Constants returns the engine constants with configured overrides applied
func (c *Config) Constants() costs.Constants {
	constants := costs.DefaultConstants()
	constants.DiscountRate = c.Engine.DiscountRate
	constants.Horizon = c.Engine.Horizon
	return constants
}

// ScheduleEnabled reports whether a schedule value turns its job on
func ScheduleEnabled(schedule string) bool {
	return schedule != "" && schedule != "off"
}

// Policies resolves the configured policy preset
func (c *Config) Policies() (policy.Definitions, error) {
	return policy.Preset(c.Engine.PolicyPreset)
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return domain.NewConfigurationError("PORT", "port %d out of range", c.Port)
	}
	if err := c.Constants().Validate(); err != nil {
		return err
	}
	if _, err := c.Policies(); err != nil {
		return domain.NewConfigurationError("POLICY_PRESET", "%v", err)
	}
	if c.Simulation.Workers < 0 {
		return domain.NewConfigurationError("SIM_WORKERS", "must not be negative")
	}
	if c.Simulation.MaxTrials < 1 {
		return domain.NewConfigurationError("SIM_MAX_TRIALS", "must be positive")
	}
	return nil
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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
