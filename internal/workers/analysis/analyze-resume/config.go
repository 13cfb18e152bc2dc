// internal/workers/analysis/analyze-resume/config.go
package analyzeresume

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		// Completion calls dominate the budget.
		Timeout: 120 * time.Second,
	}
}
