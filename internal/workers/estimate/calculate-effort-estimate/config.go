package calculateeffortestimate

import (
	"fmt"
	"time"

	"estimate-workers/internal/common/config"
	"estimate-workers/internal/estimation/formula"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// MaxScenarios bounds a batch request.
	MaxScenarios int `mapstructure:"max_scenarios"`
	Constants    formula.Constants
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 10,
		Timeout:       30 * time.Second,
		MaxScenarios:  50,
		Constants:     formula.DefaultConstants,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MaxScenarios <= 0 {
		return fmt.Errorf("max_scenarios must be positive")
	}
	if c.Constants.WorkingDaysPerMonth <= 0 {
		return fmt.Errorf("working_days_per_month must be positive")
	}
	var total float64
	for _, p := range c.Constants.Phases {
		if p.Weight < 0 {
			return fmt.Errorf("phase weight for %s must not be negative", p.Name)
		}
		total += p.Weight
	}
	if total <= 0 {
		return fmt.Errorf("phase weights must not all be zero")
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
	cfg.Constants = constantsFromAppConfig(appConfig.Estimation)
	return cfg
}

// constantsFromAppConfig overlays non-zero configured values on the defaults.
func constantsFromAppConfig(e config.EstimationConfig) formula.Constants {
	c := formula.DefaultConstants
	setFloat := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	setFloat(&c.IntegrationFactor, e.IntegrationFactor)
	setFloat(&c.ExtraFormFactor, e.ExtraFormFactor)
	setFloat(&c.FitGapFactor, e.FitGapFactor)
	setFloat(&c.EntityFactor, e.EntityFactor)
	setFloat(&c.CountryFactor, e.CountryFactor)
	setFloat(&c.LanguageFactor, e.LanguageFactor)
	setFloat(&c.PMOMonthlyRate, e.PMOMonthlyRate)
	setFloat(&c.WorkingDaysPerMonth, e.WorkingDaysPerMonth)
	setFloat(&c.PMOConvergenceThreshold, e.PMOConvergenceThreshold)
	if e.BaselineForms > 0 {
		c.BaselineForms = e.BaselineForms
	}
	if e.MaxPMOIterations > 0 {
		c.MaxPMOIterations = e.MaxPMOIterations
	}
	if len(e.PhaseWeights) > 0 {
		c.Phases = formula.PhaseWeightsFromMap(e.PhaseWeights)
	}
	return c
}
