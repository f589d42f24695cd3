// internal/workers/evaluation/calculate-score/config.go
package calculatescore

import "time"

type Config struct {
	Timeout time.Duration
	// Enhanced enables the generative six-category scoring. Completeness
	// scoring always runs.
	Enhanced    bool
	Temperature float32
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     60 * time.Second,
		Enhanced:    true,
		Temperature: 0.2,
	}
}
