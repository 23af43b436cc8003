// internal/workers/admission/process-application/config.go
package processapplication

import (
	"fmt"
	"time"

	"admissions/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
}

func LoadConfig(cfg config.CamundaConfig) *Config {
	return &Config{
		Enabled:       cfg.Enabled,
		MaxJobsActive: cfg.MaxJobsActive,
		Timeout:       config.GetDuration(cfg.Timeout),
	}
}

func (c *Config) Validate() error {
	if c.MaxJobsActive < 1 {
		return fmt.Errorf("max_jobs_active must be at least 1")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
