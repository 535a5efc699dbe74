package shared

import (
	"errors"
	"fmt"
)

// Low-level faults raised outside the taxonomy, typically while decoding a
// request. The HTTP boundary maps each of them to a fixed response.
var (
	ErrMissingParameter = errors.New("required parameter is missing")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrAccessDenied     = errors.New("access denied")
)

// ArgumentError describes a bad or absent input parameter.
type ArgumentError struct {
	Param   string
	Reason  string
	missing bool
}

// MissingParameter reports that param was not supplied.
func MissingParameter(param string) *ArgumentError {
	return &ArgumentError{Param: param, Reason: "is required", missing: true}
}

// InvalidArgument reports that param has an unusable value.
func InvalidArgument(param, reason string) *ArgumentError {
	return &ArgumentError{Param: param, Reason: reason}
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("Parameter '%s' %s.", e.Param, e.Reason)
}

// Is matches ErrMissingParameter or ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	if e.missing {
		return target == ErrMissingParameter
	}
	return target == ErrInvalidArgument
}

// fault carries a client-facing message for one of the sentinels above.
type fault struct {
	kind    error
	message string
}

func (f *fault) Error() string        { return f.message }
func (f *fault) Is(target error) bool { return target == f.kind }

// InvalidOperation reports an operation attempted in an illegal state.
func InvalidOperation(message string) error {
	return &fault{kind: ErrInvalidOperation, message: message}
}

// AccessDenied reports a refused access to a resource.
func AccessDenied(message string) error {
	return &fault{kind: ErrAccessDenied, message: message}
}
