package bookconsultation

import "time"

type Config struct {
	Timeout      time.Duration
	ExpertEmail  string
	EmailEnabled bool
	SMSEnabled   bool
	EventTopic   string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		ExpertEmail:  "experts@driveup.in",
		EmailEnabled: true,
		SMSEnabled:   false,
		EventTopic:   "driveup.consultation.booked",
	}
}
