// internal/workers/catalogue/search-car-models/config.go
package searchcarmodels

import "time"

type Config struct {
	Timeout     time.Duration
	Index       string
	DefaultSize int
	MaxSize     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     3 * time.Second,
		Index:       "car_models",
		DefaultSize: 20,
		MaxSize:     50,
	}
}
