// internal/workers/notification/notify-analysis-complete/config.go
package notifyanalysiscomplete

import "time"

type Config struct {
	Timeout      time.Duration
	SenderEmail  string
	EmailEnabled bool
	SMSEnabled   bool
	ATSEnabled   bool
}

func LoadConfig(senderEmail string, emailEnabled, smsEnabled, atsEnabled bool) *Config {
	return &Config{
		Timeout:      30 * time.Second,
		SenderEmail:  senderEmail,
		EmailEnabled: emailEnabled,
		SMSEnabled:   smsEnabled,
		ATSEnabled:   atsEnabled,
	}
}
