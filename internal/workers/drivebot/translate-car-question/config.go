// internal/workers/drivebot/translate-car-question/config.go
package translatecarquestion

import "time"

type Config struct {
	Timeout          time.Duration
	MaxQuestionChars int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		MaxQuestionChars: 500,
	}
}
