// internal/workers/candidate/persist-analysis/config.go
package persistanalysis

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
