package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"driveup-workers/internal/common/errors"
	commonhttp "driveup-workers/internal/common/http"
)

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

const (
	ReasonSuccess      = "SUCCESS"
	ReasonMissingToken = "MISSING_TOKEN"
	ReasonRejected     = "REJECTED"
	ReasonLowScore     = "LOW_SCORE"
	ReasonAlreadyUsed  = "ALREADY_USED"
)

type ChallengeResult struct {
	Valid    bool     `json:"valid"`
	Reason   string   `json:"reason"`
	Score    float64  `json:"score,omitempty"`
	Hostname string   `json:"hostname,omitempty"`
	Codes    []string `json:"errorCodes,omitempty"`
}

// AuthChallengeProvider verifies a human-verification token issued to the
// browser. A rejected token is a result, not an error; errors mean the
// provider itself could not be reached.
type AuthChallengeProvider interface {
	Verify(ctx context.Context, token, remoteIP string) (ChallengeResult, error)
}

type RecaptchaConfig struct {
	SecretKey string
	VerifyURL string
	MinScore  float64
	Timeout   time.Duration
}

// RecaptchaVerifier checks tokens against Google's siteverify endpoint.
type RecaptchaVerifier struct {
	config     RecaptchaConfig
	httpClient *commonhttp.Client
}

func NewRecaptchaVerifier(cfg RecaptchaConfig) *RecaptchaVerifier {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultVerifyURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &RecaptchaVerifier{
		config:     cfg,
		httpClient: commonhttp.NewClient(cfg.Timeout),
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

func (r *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (ChallengeResult, error) {
	if strings.TrimSpace(token) == "" {
		return ChallengeResult{Reason: ReasonMissingToken}, nil
	}

	form := url.Values{}
	form.Set("secret", r.config.SecretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	resp, err := r.httpClient.PostForm(ctx, r.config.VerifyURL, form)
	if err != nil {
		return ChallengeResult{}, errors.NewChallengeVerificationFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ChallengeResult{}, errors.NewChallengeVerificationFailedError(
			fmt.Errorf("siteverify returned status %d: %s", resp.StatusCode, string(body)))
	}

	var sv siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&sv); err != nil {
		return ChallengeResult{}, errors.NewChallengeVerificationFailedError(
			fmt.Errorf("failed to decode siteverify response: %w", err))
	}

	result := ChallengeResult{Hostname: sv.Hostname, Codes: sv.ErrorCodes}
	if sv.Score != nil {
		result.Score = *sv.Score
	}

	switch {
	case !sv.Success:
		result.Reason = ReasonRejected
	case sv.Score != nil && *sv.Score < r.config.MinScore:
		result.Reason = ReasonLowScore
	default:
		result.Valid = true
		result.Reason = ReasonSuccess
	}
	return result, nil
}
