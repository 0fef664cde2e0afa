// internal/workers/drivebot/check-question-quota/config.go
package checkquestionquota

import "time"

type Config struct {
	Timeout      time.Duration
	MaxQuestions int
	Window       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      time.Second,
		MaxQuestions: 5,
		Window:       24 * time.Hour,
	}
}
