package generatetimeline

import (
	"fmt"
	"time"

	"estimate-workers/internal/common/config"
)

type Config struct {
	Enabled         bool                `mapstructure:"enabled"`
	MaxJobsActive   int                 `mapstructure:"max_jobs_active"`
	Timeout         time.Duration       `mapstructure:"timeout"`
	CalendarVersion int                 `mapstructure:"calendar_version"`
	Holidays        map[string][]string `mapstructure:"holidays"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
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
	cfg.CalendarVersion = appConfig.Calendar.Version
	cfg.Holidays = appConfig.Calendar.Holidays
	return cfg
}
