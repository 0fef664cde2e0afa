package queryfuelprices

import "time"

type Config struct {
	Timeout     time.Duration
	DefaultDays int
	MaxDays     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		DefaultDays: 11,
		MaxDays:     90,
	}
}
