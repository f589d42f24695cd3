// internal/workers/delivery/notify-entrepreneur/config.go
package notifyentrepreneur

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	// AdminEmails receive the triage email for every evaluation.
	AdminEmails []string
	// CountryCode is prefixed to national phone numbers.
	CountryCode string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: true,
		SMSEnabled:   true,
		CountryCode:  "91",
	}
}
