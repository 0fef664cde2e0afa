package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "driveup-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifier(t *testing.T, reply string, status int) *RecaptchaVerifier {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.PostForm.Get("secret"))
		assert.Equal(t, "tok-1", r.PostForm.Get("response"))
		assert.Equal(t, "203.0.113.9", r.PostForm.Get("remoteip"))
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	return NewRecaptchaVerifier(RecaptchaConfig{
		SecretKey: "secret-key",
		VerifyURL: server.URL,
		MinScore:  0.5,
		Timeout:   time.Second,
	})
}

func TestRecaptchaVerifier_Verify(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		valid  bool
		reason string
	}{
		{"accepted v2", `{"success":true,"hostname":"driveup.in"}`, true, ReasonSuccess},
		{"accepted v3 score", `{"success":true,"score":0.9}`, true, ReasonSuccess},
		{"low score", `{"success":true,"score":0.2}`, false, ReasonLowScore},
		{"rejected", `{"success":false,"error-codes":["timeout-or-duplicate"]}`, false, ReasonRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVerifier(t, tt.reply, http.StatusOK)
			res, err := v.Verify(context.Background(), "tok-1", "203.0.113.9")
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestRecaptchaVerifier_MissingToken(t *testing.T) {
	v := NewRecaptchaVerifier(RecaptchaConfig{VerifyURL: "http://127.0.0.1:1"})
	res, err := v.Verify(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonMissingToken, res.Reason)
}

func TestRecaptchaVerifier_ProviderDown(t *testing.T) {
	v := newVerifier(t, "upstream", http.StatusBadGateway)
	_, err := v.Verify(context.Background(), "tok-1", "203.0.113.9")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeChallengeVerificationFailed, apperrors.CodeOf(err))
}
