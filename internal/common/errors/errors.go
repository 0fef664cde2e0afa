package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"

	ErrCodeCandidateQueryFailed ErrorCode = "CANDIDATE_QUERY_FAILED"

	ErrCodeCatalogueQueryFailed ErrorCode = "CATALOGUE_QUERY_FAILED"
	ErrCodeInvalidQueryType     ErrorCode = "INVALID_QUERY_TYPE"
	ErrCodeMissingModelID       ErrorCode = "MISSING_MODEL_ID"
	ErrCodeQueryTimeout         ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"

	ErrCodeQuotaCheckFailed      ErrorCode = "QUOTA_CHECK_FAILED"
	ErrCodeQuestionQuotaExceeded ErrorCode = "QUESTION_QUOTA_EXCEEDED"
	ErrCodeSQLGenerationFailed   ErrorCode = "SQL_GENERATION_FAILED"
	ErrCodeUnsafeSQL             ErrorCode = "UNSAFE_SQL"
	ErrCodeGenAITimeout          ErrorCode = "GENAI_TIMEOUT"
	ErrCodeDriveBotQueryFailed   ErrorCode = "DRIVEBOT_QUERY_FAILED"
	ErrCodeSummaryFailed         ErrorCode = "SUMMARY_FAILED"

	ErrCodeChallengeVerificationFailed ErrorCode = "CHALLENGE_VERIFICATION_FAILED"
	ErrCodeChallengeRejected           ErrorCode = "CHALLENGE_REJECTED"

	ErrCodeConsultationBookingFailed ErrorCode = "CONSULTATION_BOOKING_FAILED"
	ErrCodeInvalidConsultation       ErrorCode = "INVALID_CONSULTATION"
	ErrCodeNotificationSendFailed    ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeFuelPriceQueryFailed ErrorCode = "FUEL_PRICE_QUERY_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeNotFound        ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthentication  ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeBusinessRule    ErrorCode = "BUSINESS_RULE_VIOLATION"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// New builds a StandardError whose retryability follows the retry table.
func New(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: GetRetryCount(code) > 0,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap is New with err kept as the cause so errors.Is still matches sentinels.
func Wrap(code ErrorCode, message string, err error) *StandardError {
	e := New(code, message, "")
	if err != nil {
		e.Details = err.Error()
		e.cause = err
	}
	return e
}

// As extracts the first StandardError in err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the StandardError code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := As(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func NewInvalidInputError(details string) *StandardError {
	return New(ErrCodeInvalidInput, "Invalid job input", details)
}

func NewCandidateQueryFailedError(err error) *StandardError {
	return Wrap(ErrCodeCandidateQueryFailed, "Failed to load candidate variants", err)
}

func NewCatalogueQueryFailedError(queryType string, err error) *StandardError {
	return Wrap(ErrCodeCatalogueQueryFailed, "Catalogue query failed", err).
		WithMetadata("queryType", queryType)
}

func NewInvalidQueryTypeError(queryType string) *StandardError {
	return New(ErrCodeInvalidQueryType, "Unsupported query type", fmt.Sprintf("queryType: %s", queryType))
}

func NewMissingModelIDError() *StandardError {
	return New(ErrCodeMissingModelID, "model_id is required", "")
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return New(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("queryType: %s", queryType))
}

func NewSearchQueryFailedError(err error) *StandardError {
	return Wrap(ErrCodeSearchQueryFailed, "Car model search failed", err)
}

func NewQuotaCheckFailedError(err error) *StandardError {
	return Wrap(ErrCodeQuotaCheckFailed, "Question quota check failed", err)
}

func NewQuestionQuotaExceededError(limit int) *StandardError {
	return New(ErrCodeQuestionQuotaExceeded, "Question limit reached for this session", fmt.Sprintf("limit: %d", limit))
}

func NewSQLGenerationFailedError(err error) *StandardError {
	return Wrap(ErrCodeSQLGenerationFailed, "Could not translate the question into a query", err)
}

func NewUnsafeSQLError(reason string) *StandardError {
	return New(ErrCodeUnsafeSQL, "Generated query was rejected", reason)
}

func NewGenAITimeoutError() *StandardError {
	return New(ErrCodeGenAITimeout, "Completion service timeout", "")
}

func NewDriveBotQueryFailedError(err error) *StandardError {
	return Wrap(ErrCodeDriveBotQueryFailed, "DriveBot query failed", err)
}

func NewSummaryFailedError(err error) *StandardError {
	return Wrap(ErrCodeSummaryFailed, "Answer summary failed", err)
}

func NewChallengeVerificationFailedError(err error) *StandardError {
	return Wrap(ErrCodeChallengeVerificationFailed, "Auth challenge verification failed", err)
}

func NewChallengeRejectedError(reason string) *StandardError {
	return New(ErrCodeChallengeRejected, "Auth challenge rejected", reason)
}

func NewConsultationBookingFailedError(err error) *StandardError {
	return Wrap(ErrCodeConsultationBookingFailed, "Consultation booking failed", err)
}

func NewInvalidConsultationError(details string) *StandardError {
	return New(ErrCodeInvalidConsultation, "Consultation request is invalid", details)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return Wrap(ErrCodeNotificationSendFailed, "Notification delivery failed", err).
		WithMetadata("channel", channel)
}

func NewFuelPriceQueryFailedError(err error) *StandardError {
	return Wrap(ErrCodeFuelPriceQueryFailed, "Fuel price query failed", err)
}

func NewBusinessRuleError(message, details string) *StandardError {
	return New(ErrCodeBusinessRule, message, details)
}

func NewExternalServiceError(service string, err error) *StandardError {
	e := Wrap(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err)
	e.Retryable = true
	return e
}

func NewTimeoutError(service string, err error) *StandardError {
	e := Wrap(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err)
	e.Retryable = true
	return e
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return New(ErrCodeNotFound, fmt.Sprintf("Resource not found in %s", service), details)
}

func NewAuthenticationError(details string) *StandardError {
	return New(ErrCodeAuthentication, "Authentication failed", details)
}

// GetRetryCount is the number of job retries granted per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCandidateQueryFailed,
		ErrCodeCatalogueQueryFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeConsultationBookingFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeFuelPriceQueryFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeQuotaCheckFailed,
		ErrCodeSQLGenerationFailed,
		ErrCodeDriveBotQueryFailed,
		ErrCodeSummaryFailed,
		ErrCodeChallengeVerificationFailed,
		ErrCodeTimeout:
		return 2

	case ErrCodeGenAITimeout:
		return 1

	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func GetErrorCategory(code ErrorCode) string {
	c := string(code)
	switch {
	case strings.Contains(c, "CANDIDATE") || strings.Contains(c, "CATALOGUE") ||
		strings.Contains(c, "FUEL_PRICE") || strings.Contains(c, "QUERY_TIMEOUT"):
		return "DATABASE"
	case strings.Contains(c, "SEARCH"):
		return "SEARCH"
	case strings.Contains(c, "SQL") || strings.Contains(c, "GENAI") ||
		strings.Contains(c, "DRIVEBOT") || strings.Contains(c, "SUMMARY") || strings.Contains(c, "QUOTA"):
		return "AI"
	case strings.Contains(c, "CHALLENGE") || strings.Contains(c, "AUTHENTICATION"):
		return "AUTH"
	case strings.Contains(c, "CONSULTATION") || strings.Contains(c, "NOTIFICATION"):
		return "CONSULTATION"
	case strings.Contains(c, "INVALID") || strings.Contains(c, "MISSING"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
