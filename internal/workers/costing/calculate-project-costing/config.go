package calculateprojectcosting

import (
	"fmt"
	"time"

	"estimate-workers/internal/common/config"
	"estimate-workers/internal/estimation/costing"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// MaxLines bounds the resource lines accepted per request.
	MaxLines int `mapstructure:"max_lines"`
	Settings costing.Settings
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 10,
		Timeout:       30 * time.Second,
		MaxLines:      500,
		Settings:      costing.DefaultSettings,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MaxLines <= 0 {
		return fmt.Errorf("max_lines must be positive")
	}
	if !c.Settings.HoursPerDay.IsPositive() {
		return fmt.Errorf("hours_per_day must be positive")
	}
	if c.Settings.RealizationRate.IsNegative() || c.Settings.InternalCostRatio.IsNegative() {
		return fmt.Errorf("realization_rate and internal_cost_ratio must not be negative")
	}
	if c.Settings.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if workerCfg, exists := appConfig.Workers[WorkerName]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}
	cfg.Settings = settingsFromAppConfig(appConfig.Costing)
	return cfg
}

// settingsFromAppConfig falls back to the defaults for unset values.
func settingsFromAppConfig(c config.CostingConfig) costing.Settings {
	d := costing.DefaultSettings
	currency := c.Currency
	if currency == "" {
		currency = d.Currency
	}
	hoursPerDay, rr, ratio := c.HoursPerDay, c.RealizationRate, c.InternalCostRatio
	if hoursPerDay <= 0 {
		hoursPerDay = d.HoursPerDay.InexactFloat64()
	}
	if rr <= 0 {
		rr = d.RealizationRate.InexactFloat64()
	}
	if ratio <= 0 {
		ratio = d.InternalCostRatio.InexactFloat64()
	}
	return costing.SettingsFromFloats(currency, hoursPerDay, rr, ratio, c.RegionRealization)
}
