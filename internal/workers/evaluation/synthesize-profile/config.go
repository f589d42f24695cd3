// internal/workers/evaluation/synthesize-profile/config.go
package synthesizeprofile

import "time"

type Config struct {
	Timeout     time.Duration
	Temperature float32
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     90 * time.Second,
		Temperature: 0.1,
	}
}
