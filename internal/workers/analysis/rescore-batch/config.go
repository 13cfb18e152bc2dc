// internal/workers/analysis/rescore-batch/config.go
package rescorebatch

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		// Batches run sequentially; budget scales with batch size.
		Timeout: 30 * time.Minute,
	}
}
