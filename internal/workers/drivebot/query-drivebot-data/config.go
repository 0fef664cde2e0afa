// internal/workers/drivebot/query-drivebot-data/config.go
package querydrivebotdata

import "time"

type Config struct {
	Timeout time.Duration
	MaxRows int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		MaxRows: 50,
	}
}
