// internal/workers/evaluation/generate-feedback/config.go
package generatefeedback

import "time"

type Config struct {
	Timeout       time.Duration
	Temperature   float32
	DefaultLocale string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       60 * time.Second,
		Temperature:   0.3,
		DefaultLocale: "en-IN",
	}
}
