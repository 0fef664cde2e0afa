package verifyauthchallenge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"driveup-workers/internal/common/auth"
	"driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const replayKeyPrefix = "auth:challenge:"

type Service struct {
	config   *Config
	provider auth.AuthChallengeProvider
	redis    redis.Cmdable
	logger   logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		provider: deps.Provider,
		redis:    deps.Redis,
		logger:   deps.Logger,
	}
}

// Execute verifies a challenge token once. A token seen within ReplayTTL is
// rejected without asking the provider again.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return &Output{Valid: false, Reason: auth.ReasonMissingToken}, nil
	}

	key := replayKey(token)
	if s.redis != nil {
		first, err := s.redis.SetNX(ctx, key, 1, s.config.ReplayTTL).Result()
		if err != nil {
			return nil, errors.NewChallengeVerificationFailedError(err)
		}
		if !first {
			s.logger.Warn("challenge token replayed", map[string]interface{}{
				"remoteIp": input.RemoteIP,
			})
			return &Output{Valid: false, Reason: auth.ReasonAlreadyUsed}, nil
		}
	}

	result, err := s.provider.Verify(ctx, token, input.RemoteIP)
	if err != nil {
		// release the token so a retried job can verify it
		if s.redis != nil {
			s.redis.Del(context.Background(), key)
		}
		return nil, err
	}

	s.logger.Info("challenge verified", map[string]interface{}{
		"valid":    result.Valid,
		"reason":   result.Reason,
		"score":    result.Score,
		"action":   input.Action,
		"remoteIp": input.RemoteIP,
	})

	return &Output{
		Valid:  result.Valid,
		Reason: result.Reason,
		Score:  result.Score,
	}, nil
}

func replayKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return replayKeyPrefix + hex.EncodeToString(sum[:])
}
