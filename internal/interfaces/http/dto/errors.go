package dto

import (
	"net/http"
	"time"

	"github.com/ecommerce/product-service/internal/domain/shared"
)

// Error codes of failures raised outside the domain taxonomy
const (
	ErrCodeMissingParameter   = "MissingParameter"
	ErrCodeArgument           = "ArgumentError"
	ErrCodeInvalidOperation   = "InvalidOperation"
	ErrCodeAccessDenied       = "AccessDenied"
	ErrCodeTimeout            = "Timeout"
	ErrCodeOperationCancelled = "OperationCancelled"
	ErrCodeInternal           = "InternalError"
)

// ExceptionTypeSystem marks envelopes produced for non-domain failures
const ExceptionTypeSystem = "SystemError"

// ErrorCodeHTTPStatus maps the non-domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeMissingParameter:   http.StatusBadRequest,
	ErrCodeArgument:           http.StatusBadRequest,
	ErrCodeInvalidOperation:   http.StatusBadRequest,
	ErrCodeAccessDenied:       http.StatusForbidden,
	ErrCodeTimeout:            http.StatusRequestTimeout,
	ErrCodeOperationCancelled: http.StatusRequestTimeout,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a non-domain error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message       string         `json:"message"`
	ErrorCode     string         `json:"errorCode"`
	ExceptionType string         `json:"exceptionType"`
	StatusCode    int            `json:"statusCode"`
	Details       map[string]any `json:"details,omitempty"`
	TraceID       string         `json:"traceId"`
	Timestamp     time.Time      `json:"timestamp"`
}

// ValidationErrorResponse is the error body of a rejected request payload
type ValidationErrorResponse struct {
	ErrorResponse
	ValidationErrors map[string][]string `json:"validationErrors"`
}

// NewErrorResponse builds the envelope of a domain error. Validation
// failures get the validation variant.
func NewErrorResponse(err *shared.DomainError, traceID string, at time.Time) any {
	resp := ErrorResponse{
		Message:       err.Message(),
		ErrorCode:     err.Code(),
		ExceptionType: err.Kind().ExceptionType(),
		StatusCode:    err.StatusCode(),
		Details:       err.Details(),
		TraceID:       traceID,
		Timestamp:     at.UTC(),
	}
	if err.Kind() == shared.KindValidation {
		return ValidationErrorResponse{
			ErrorResponse:    resp,
			ValidationErrors: err.ValidationErrors(),
		}
	}
	return resp
}

// NewFaultResponse builds the envelope of a failure outside the taxonomy
func NewFaultResponse(code, message, traceID string, at time.Time) ErrorResponse {
	return ErrorResponse{
		Message:       message,
		ErrorCode:     code,
		ExceptionType: ExceptionTypeSystem,
		StatusCode:    GetHTTPStatus(code),
		TraceID:       traceID,
		Timestamp:     at.UTC(),
	}
}
