// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Scoring configuration / analysis errors
	ErrCodeConfigMalformed    ErrorCode = "CONFIG_MALFORMED"
	ErrCodeAnalysisParseError ErrorCode = "ANALYSIS_PARSE_ERROR"
	ErrCodeMissingCredential  ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeCompletionFailed   ErrorCode = "COMPLETION_UNAVAILABLE"
	ErrCodeBatchItemFailed    ErrorCode = "BATCH_ITEM_FAILED"

	// Access control
	ErrCodeAccessDenied ErrorCode = "ACCESS_DENIED"
	ErrCodeAuthFailed   ErrorCode = "AUTHENTICATION_ERROR"

	// Resource / persistence errors
	ErrCodeResourceNotFound         ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	// Search errors
	ErrCodeSearchIndexFailed ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"

	// Ingestion errors
	ErrCodeUnsupportedContentType ErrorCode = "UNSUPPORTED_CONTENT_TYPE"
	ErrCodeExtractionFailed       ErrorCode = "EXTRACTION_FAILED"
	ErrCodeStorageFetchFailed     ErrorCode = "STORAGE_FETCH_FAILED"

	// Outbound integrations
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeATSPushFailed          ErrorCode = "ATS_PUSH_FAILED"

	// Generic infrastructure
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewConfigMalformedError creates a non-retryable scoring-configuration error.
// Malformed rules are rendered verbatim rather than rejected, so this only
// fires when the standards cannot be loaded at all.
func NewConfigMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigMalformed,
		Message:   "Scoring configuration is malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisParseError creates a non-retryable parse error. The completion
// response is attempted exactly once; an unparseable body fails the job.
func NewAnalysisParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisParseError,
		Message:   "Completion response could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingCredentialError creates a non-retryable credential error.
func NewMissingCredentialError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCredential,
		Message:   "Completion service credential is missing",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionFailedError creates a retryable completion transport error.
func NewCompletionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionFailed,
		Message:   "Completion service call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBatchItemFailedError records a single failed item inside a batch rescore.
// The batch itself continues; this error is collected, not thrown.
func NewBatchItemFailedError(candidateID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBatchItemFailed,
		Message:   "Batch rescore item failed",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"candidateId": candidateID},
		Timestamp: time.Now().UTC(),
	}
}

// NewAccessDeniedError creates a non-retryable authorization error.
func NewAccessDeniedError(userID, operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAccessDenied,
		Message:   "User is not authorized for this operation",
		Details:   fmt.Sprintf("userId: %s, operation: %s", userID, operation),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable authentication error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthFailed,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResourceNotFoundError creates a non-retryable not-found error.
func NewResourceNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResourceNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexFailedError creates a retryable index write error.
func NewSearchIndexFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Search index write failed",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedContentTypeError creates a non-retryable ingestion error.
func NewUnsupportedContentTypeError(contentType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedContentType,
		Message:   "Resume content type has no extractor",
		Details:   fmt.Sprintf("contentType: %s", contentType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionFailedError creates a non-retryable extraction error. The same
// bytes will fail the same way on redelivery.
func NewExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Resume text extraction failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFetchFailedError creates a retryable object-store error.
func NewStorageFetchFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFetchFailed,
		Message:   "Resume object fetch failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewATSPushFailedError creates a retryable ATS push-back error.
func NewATSPushFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeATSPushFailed,
		Message:   "ATS status push failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the retry budget for an error code. Infrastructure
// errors retry; semantic errors never do — re-running a parse or an
// authorization check on the same input cannot change the outcome.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeStorageFetchFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeATSPushFailed,
		ErrCodeExternalService,
		ErrCodeTimeout:
		return 3

	case ErrCodeCompletionFailed:
		return 2 // transport retries only; the analysis itself is one-shot

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIG") || strings.Contains(codeStr, "ANALYSIS") ||
		strings.Contains(codeStr, "COMPLETION") || strings.Contains(codeStr, "BATCH"):
		return "SCORING"
	case strings.Contains(codeStr, "ACCESS") || strings.Contains(codeStr, "AUTH") ||
		strings.Contains(codeStr, "CREDENTIAL"):
		return "AUTH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") ||
		strings.Contains(codeStr, "RESOURCE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "CONTENT_TYPE") || strings.Contains(codeStr, "EXTRACTION") ||
		strings.Contains(codeStr, "STORAGE"):
		return "INGESTION"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "ATS"):
		return "OUTBOUND"
	default:
		return "OTHER"
	}
}
