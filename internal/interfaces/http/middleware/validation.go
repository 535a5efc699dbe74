package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validatedRequestKey is the gin context key of the decoded request body
const validatedRequestKey = "validated_request"

// RequestValidator checks a decoded request and returns a Validation domain
// error listing every violation.
type RequestValidator interface {
	Validate(req any) error
}

// SetupValidator configures the gin binding validator to report JSON field
// names and returns it so that custom tags can be registered on it.
func SetupValidator() (*validator.Validate, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, errors.New("gin binding validator is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	return v, nil
}

// ValidateJSON decodes the request body into T and runs the validator
// registered for T. Rejected requests are aborted with the failure recorded
// for the error translator; the handler chain never sees them.
func ValidateJSON[T any](validators RequestValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := new(T)
		if err := c.ShouldBindJSON(req); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				_ = c.Error(verrs)
			} else {
				_ = c.Error(shared.BadRequest("The request body is invalid.").WithCause(err))
			}
			c.Abort()
			return
		}

		if err := validators.Validate(req); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(validatedRequestKey, req)
		c.Next()
	}
}

// ValidatedRequest returns the body decoded by ValidateJSON
func ValidatedRequest[T any](c *gin.Context) (*T, bool) {
	v, exists := c.Get(validatedRequestKey)
	if !exists {
		return nil, false
	}
	req, ok := v.(*T)
	return req, ok
}

// fieldErrorsFrom normalizes binding validation errors into field messages
func fieldErrorsFrom(verrs validator.ValidationErrors) shared.FieldErrors {
	fields := shared.FieldErrors{}
	for _, e := range verrs {
		fields.Add(e.Field(), getValidationMessage(e))
	}
	return fields
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters."
		}
		return "Must be at least " + e.Param() + "."
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters."
		}
		return "Must be at most " + e.Param() + "."
	case "uuid":
		return "Invalid UUID format."
	case "oneof":
		return "Must be one of: " + e.Param() + "."
	case "gte":
		return "Must be greater than or equal to " + e.Param() + "."
	case "lte":
		return "Must be less than or equal to " + e.Param() + "."
	case "gt":
		return "Must be greater than " + e.Param() + "."
	case "lt":
		return "Must be less than " + e.Param() + "."
	case "numeric":
		return "Must be numeric."
	default:
		return "Invalid value."
	}
}
