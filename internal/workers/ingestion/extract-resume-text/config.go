// internal/workers/ingestion/extract-resume-text/config.go
package extractresumetext

import "time"

type Config struct {
	Timeout time.Duration
	Bucket  string
}

func LoadConfig(bucket string) *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Bucket:  bucket,
	}
}
