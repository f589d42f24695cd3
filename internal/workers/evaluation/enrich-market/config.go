// internal/workers/evaluation/enrich-market/config.go
package enrichmarket

import "time"

type Config struct {
	Timeout         time.Duration
	Region          string
	ResultsPerQuery int
	// ResultsPerTopic is how many hits of each query reach the prompt.
	ResultsPerTopic int
	SnippetLimit    int
	Temperature     float32
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         60 * time.Second,
		Region:          "India",
		ResultsPerQuery: 3,
		ResultsPerTopic: 2,
		SnippetLimit:    300,
		Temperature:     0.2,
	}
}
