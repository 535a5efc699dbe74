package shared

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// Category separates failures caused by the client from failures of the service.
type Category string

const (
	CategoryClient Category = "ClientError"
	CategoryServer Category = "ServerError"
)

// Kind identifies a variant of the error taxonomy.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindBusinessRule
	KindConfiguration
	KindDatabase
	KindExternalDependency
	KindServiceUnavailable
	KindInternal
)

// kindInfo is the fixed classification of a Kind.
type kindInfo struct {
	category      Category
	status        int
	code          string
	exceptionType string
}

// kindTable is the single source of error codes. Codes are part of the wire
// contract and must not change when Go identifiers are renamed.
var kindTable = map[Kind]kindInfo{
	KindBadRequest:         {CategoryClient, http.StatusBadRequest, "BadRequest", "BadRequestError"},
	KindValidation:         {CategoryClient, http.StatusBadRequest, "ValidationError", "ValidationError"},
	KindUnauthorized:       {CategoryClient, http.StatusUnauthorized, "Unauthorized", "UnauthorizedError"},
	KindForbidden:          {CategoryClient, http.StatusForbidden, "Forbidden", "ForbiddenError"},
	KindNotFound:           {CategoryClient, http.StatusNotFound, "NotFound", "NotFoundError"},
	KindConflict:           {CategoryClient, http.StatusConflict, "Conflict", "ConflictError"},
	KindBusinessRule:       {CategoryClient, http.StatusBadRequest, "BusinessRule", "BusinessRuleError"},
	KindConfiguration:      {CategoryServer, http.StatusInternalServerError, "Configuration", "ConfigurationError"},
	KindDatabase:           {CategoryServer, http.StatusInternalServerError, "Database", "DatabaseError"},
	KindExternalDependency: {CategoryServer, http.StatusBadGateway, "ExternalDependency", "ExternalDependencyError"},
	KindServiceUnavailable: {CategoryServer, http.StatusServiceUnavailable, "ServiceUnavailable", "ServiceUnavailableError"},
	KindInternal:           {CategoryServer, http.StatusInternalServerError, "InternalError", "SystemError"},
}

func (k Kind) info() kindInfo {
	if info, ok := kindTable[k]; ok {
		return info
	}
	return kindTable[KindInternal]
}

// String returns the stable error code of the kind.
func (k Kind) String() string {
	return k.info().code
}

// Category returns whether the kind is client or server caused.
func (k Kind) Category() Category {
	return k.info().category
}

// StatusCode returns the HTTP status fixed for the kind.
func (k Kind) StatusCode() int {
	return k.info().status
}

// Code returns the stable error code of the kind.
func (k Kind) Code() string {
	return k.info().code
}

// ExceptionType returns the wire name of the variant.
func (k Kind) ExceptionType() string {
	return k.info().exceptionType
}

// DomainError represents a classified business-rule or system failure.
// Values are immutable once constructed.
type DomainError struct {
	kind    Kind
	code    string
	message string
	details map[string]any
	fields  map[string][]string
	cause   error
}

// NewDomainError creates a domain error of the given kind.
func NewDomainError(kind Kind, message string) *DomainError {
	return &DomainError{kind: kind, message: message}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap exposes the inner cause for diagnostics.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a domain error of the same kind. Sentinels
// such as ErrNotFound therefore match every NotFound error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.kind == e.kind
}

func (e *DomainError) Kind() Kind         { return e.kind }
func (e *DomainError) Category() Category { return e.kind.Category() }
func (e *DomainError) StatusCode() int    { return e.kind.StatusCode() }
func (e *DomainError) Message() string    { return e.message }

// Code returns the error code, honouring an override set with WithCode.
func (e *DomainError) Code() string {
	if e.code != "" {
		return e.code
	}
	return e.kind.Code()
}

// Details returns a copy of the structured payload, or nil.
func (e *DomainError) Details() map[string]any {
	if len(e.details) == 0 {
		return nil
	}
	return maps.Clone(e.details)
}

// WithCode returns a copy of the error carrying a custom error code.
func (e *DomainError) WithCode(code string) *DomainError {
	c := e.clone()
	c.code = code
	return c
}

// WithDetail returns a copy of the error with one more detail entry.
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	c := e.clone()
	if c.details == nil {
		c.details = make(map[string]any, 1)
	}
	c.details[key] = value
	return c
}

// WithCause returns a copy of the error wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := e.clone()
	c.cause = cause
	return c
}

func (e *DomainError) clone() *DomainError {
	c := *e
	c.details = maps.Clone(e.details)
	c.fields = cloneFields(e.fields)
	return &c
}

// Kind sentinels for errors.Is checks.
var (
	ErrBadRequest         = NewDomainError(KindBadRequest, "Bad request")
	ErrValidation         = NewDomainError(KindValidation, "One or more validation errors occurred.")
	ErrUnauthorized       = NewDomainError(KindUnauthorized, "Not authorized to perform this action")
	ErrForbidden          = NewDomainError(KindForbidden, "Access to this resource is forbidden")
	ErrNotFound           = NewDomainError(KindNotFound, "Resource not found")
	ErrConflict           = NewDomainError(KindConflict, "Resource already exists")
	ErrBusinessRule       = NewDomainError(KindBusinessRule, "Business rule violated")
	ErrConfiguration      = NewDomainError(KindConfiguration, "Configuration error")
	ErrDatabase           = NewDomainError(KindDatabase, "Database operation failed")
	ErrExternalDependency = NewDomainError(KindExternalDependency, "External dependency failed")
	ErrServiceUnavailable = NewDomainError(KindServiceUnavailable, "Service unavailable")
)

// BadRequest creates a generic client error.
func BadRequest(message string) *DomainError {
	return NewDomainError(KindBadRequest, message)
}

// Unauthorized creates an authentication failure.
func Unauthorized(message string) *DomainError {
	return NewDomainError(KindUnauthorized, message)
}

// Forbidden creates an authorization failure.
func Forbidden(message string) *DomainError {
	return NewDomainError(KindForbidden, message)
}

// NotFound reports a missing entity identified by key.
func NotFound(entityName string, key any) *DomainError {
	return &DomainError{
		kind:    KindNotFound,
		message: fmt.Sprintf("%s with identifier '%v' was not found.", entityName, key),
		details: map[string]any{"entityName": entityName, "key": key},
	}
}

// Conflict reports that an entity with key already exists.
func Conflict(entityName string, key any) *DomainError {
	return &DomainError{
		kind:    KindConflict,
		message: fmt.Sprintf("The %s with the '%v' already exists.", entityName, key),
		details: map[string]any{"entityName": entityName, "key": key},
	}
}

// BusinessRuleViolation reports a broken business rule.
func BusinessRuleViolation(rule, violation string) *DomainError {
	return &DomainError{
		kind:    KindBusinessRule,
		message: fmt.Sprintf("The business rule '%s' was violated: %s.", rule, violation),
		details: map[string]any{"rule": rule, "violation": violation},
	}
}

// ConfigurationError reports invalid or missing configuration.
func ConfigurationError(message string) *DomainError {
	return NewDomainError(KindConfiguration, message)
}

// DatabaseFailure wraps a storage fault raised while performing operation.
func DatabaseFailure(operation string, cause error) *DomainError {
	return &DomainError{
		kind:    KindDatabase,
		message: fmt.Sprintf("Database operation '%s' failed.", operation),
		details: map[string]any{"operation": operation},
		cause:   cause,
	}
}

// ExternalDependencyFailure reports a failing downstream service.
func ExternalDependencyFailure(dependency string, cause error) *DomainError {
	return &DomainError{
		kind:    KindExternalDependency,
		message: fmt.Sprintf("External dependency '%s' failed.", dependency),
		details: map[string]any{"dependency": dependency},
		cause:   cause,
	}
}

// ServiceUnavailable reports that serviceName cannot serve the request.
func ServiceUnavailable(serviceName string) *DomainError {
	return &DomainError{
		kind:    KindServiceUnavailable,
		message: fmt.Sprintf("Service '%s' is currently unavailable.", serviceName),
		details: map[string]any{"serviceName": serviceName},
	}
}

// AsDomainError extracts the first DomainError in err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a domain error of kind.
func IsKind(err error, kind Kind) bool {
	de, ok := AsDomainError(err)
	return ok && de.kind == kind
}
