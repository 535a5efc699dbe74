package shared

import (
	"fmt"
	"slices"
)

// FieldErrors maps a field name to its violation messages in rule order.
type FieldErrors map[string][]string

// Add appends a violation message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Empty reports whether no violation was recorded.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Validation creates a validation failure from the collected field errors.
// Fields without messages are dropped.
func Validation(fields FieldErrors) *DomainError {
	cleaned := make(map[string][]string, len(fields))
	details := make(map[string]any, len(fields))
	for field, messages := range fields {
		if len(messages) == 0 {
			continue
		}
		cleaned[field] = slices.Clone(messages)
		details[field] = slices.Clone(messages)
	}
	return &DomainError{
		kind:    KindValidation,
		message: "One or more validation errors occurred.",
		details: details,
		fields:  cleaned,
	}
}

// FieldValidation creates a validation failure for a single field.
func FieldValidation(field, message string) *DomainError {
	e := Validation(FieldErrors{field: {message}})
	e.message = fmt.Sprintf("Validation failed for %s", field)
	return e
}

// ValidationErrors returns a copy of the field violations, or nil when the
// error is not a validation failure.
func (e *DomainError) ValidationErrors() map[string][]string {
	if e.kind != KindValidation {
		return nil
	}
	fields := cloneFields(e.fields)
	if fields == nil {
		fields = map[string][]string{}
	}
	return fields
}

func cloneFields(fields map[string][]string) map[string][]string {
	if fields == nil {
		return nil
	}
	out := make(map[string][]string, len(fields))
	for k, v := range fields {
		out[k] = slices.Clone(v)
	}
	return out
}
