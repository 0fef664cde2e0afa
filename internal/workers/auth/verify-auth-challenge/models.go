package verifyauthchallenge

import (
	"github.com/redis/go-redis/v9"

	"driveup-workers/internal/common/auth"
	"driveup-workers/internal/common/logger"
)

type Input struct {
	Token    string `json:"token"`
	RemoteIP string `json:"remoteIp,omitempty"`
	Action   string `json:"action,omitempty"`
}

type Output struct {
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score,omitempty"`
}

type ServiceDependencies struct {
	Provider auth.AuthChallengeProvider
	Redis    redis.Cmdable
	Logger   logger.Logger
}
