// internal/workers/candidate/index-candidate/config.go
package indexcandidate

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig(index string) *Config {
	if index == "" {
		index = "candidates"
	}
	return &Config{
		Timeout: 15 * time.Second,
		Index:   index,
	}
}
