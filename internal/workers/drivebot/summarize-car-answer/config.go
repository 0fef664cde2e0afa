// internal/workers/drivebot/summarize-car-answer/config.go
package summarizecaranswer

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
