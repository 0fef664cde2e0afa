package rankcarrecommendations

import "time"

type Config struct {
	Timeout    time.Duration
	EventTopic string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		EventTopic: "driveup.recommendation.served",
	}
}
