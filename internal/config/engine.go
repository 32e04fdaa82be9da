package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvEngineTimezone             = "TENDLINE_ENGINE_TIMEZONE"
	EnvEnginePolicyPath           = "TENDLINE_ENGINE_POLICY_PATH"
	EnvEngineBatchWorkers         = "TENDLINE_ENGINE_BATCH_WORKERS"
	EnvEngineReminderDefaultLimit = "TENDLINE_ENGINE_REMINDER_DEFAULT_LIMIT"
	EnvEngineReminderMaxLimit     = "TENDLINE_ENGINE_REMINDER_MAX_LIMIT"
)

// EngineConfig holds cadence engine parameters: the reference timezone,
// the cadence policy file, and batch/query tuning.
type EngineConfig struct {
	Timezone             string `toml:"timezone"`
	PolicyPath           string `toml:"policy_path"`
	BatchWorkers         int    `toml:"batch_workers"`
	ReminderDefaultLimit int    `toml:"reminder_default_limit"`
	ReminderMaxLimit     int    `toml:"reminder_max_limit"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.Timezone != "" {
		c.Timezone = overlay.Timezone
	}
	if overlay.PolicyPath != "" {
		c.PolicyPath = overlay.PolicyPath
	}
	if overlay.BatchWorkers != 0 {
		c.BatchWorkers = overlay.BatchWorkers
	}
	if overlay.ReminderDefaultLimit != 0 {
		c.ReminderDefaultLimit = overlay.ReminderDefaultLimit
	}
	if overlay.ReminderMaxLimit != 0 {
		c.ReminderMaxLimit = overlay.ReminderMaxLimit
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.PolicyPath == "" {
		c.PolicyPath = "cadence.toml"
	}
	if c.BatchWorkers == 0 {
		c.BatchWorkers = 8
	}
	if c.ReminderDefaultLimit == 0 {
		c.ReminderDefaultLimit = 50
	}
	if c.ReminderMaxLimit == 0 {
		c.ReminderMaxLimit = 200
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvEnginePolicyPath); v != "" {
		c.PolicyPath = v
	}
	if v := os.Getenv(EnvEngineBatchWorkers); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			c.BatchWorkers = workers
		}
	}
	if v := os.Getenv(EnvEngineReminderDefaultLimit); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.ReminderDefaultLimit = limit
		}
	}
	if v := os.Getenv(EnvEngineReminderMaxLimit); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.ReminderMaxLimit = limit
		}
	}
}

func (c *EngineConfig) validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.PolicyPath == "" {
		return fmt.Errorf("policy_path required")
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("batch_workers must be positive: %d", c.BatchWorkers)
	}
	if c.ReminderDefaultLimit > c.ReminderMaxLimit {
		return fmt.Errorf("reminder_default_limit cannot exceed reminder_max_limit")
	}
	return nil
}
