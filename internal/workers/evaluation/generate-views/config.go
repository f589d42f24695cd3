// internal/workers/evaluation/generate-views/config.go
package generateviews

import (
	"time"

	"github.com/shub15/the-unfair-advantage/internal/models"
)

type Config struct {
	Timeout time.Duration
	// Temperatures per audience.
	EntrepreneurTemperature float32
	MentorTemperature       float32
	AdminTemperature        float32
	// RegenerateTemperature is used for the single stricter retry of a view
	// that failed the grounding check.
	RegenerateTemperature float32
	GroundingMinRatio     float64
	DefaultLocale         string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:                 120 * time.Second,
		EntrepreneurTemperature: 0.2,
		MentorTemperature:       0.3,
		AdminTemperature:        0.2,
		RegenerateTemperature:   0.05,
		GroundingMinRatio:       0.5,
		DefaultLocale:           "en-IN",
	}
}

func (c *Config) temperature(a models.Audience) float32 {
	switch a {
	case models.AudienceMentor:
		return c.MentorTemperature
	case models.AudienceAdmin:
		return c.AdminTemperature
	default:
		return c.EntrepreneurTemperature
	}
}
