package api

import (
	"errors"
	"net/http"

	apperrors "driveup-workers/internal/common/errors"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError maps a worker error onto an HTTP status. Details are only
// exposed for client errors.
func RespondAppError(c *gin.Context, err error) {
	std := apperrors.Normalize(err)
	status := statusFor(std.Code)

	body := APIError{Message: std.Message, Code: string(std.Code)}
	if status < http.StatusInternalServerError {
		body.Details = std.Details
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidQueryType,
		apperrors.ErrCodeMissingModelID,
		apperrors.ErrCodeInvalidConsultation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnsafeSQL:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeChallengeRejected:
		return http.StatusForbidden
	case apperrors.ErrCodeQuestionQuotaExceeded:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeQueryTimeout,
		apperrors.ErrCodeGenAITimeout,
		apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

var errBadBody = errors.New("request body must be a JSON object")
