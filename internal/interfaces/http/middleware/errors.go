package middleware

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/ecommerce/product-service/internal/infrastructure/logger"
	"github.com/ecommerce/product-service/internal/infrastructure/telemetry"
	"github.com/ecommerce/product-service/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Translation is the classified form of a failure
type Translation struct {
	Status int
	Code   string
	Body   any
	// Domain is set when the failure was (or was normalized to) a domain error
	Domain *shared.DomainError
}

// ErrorTranslator turns the last error recorded on a request into the wire
// envelope. It is the only place that writes error responses.
type ErrorTranslator struct {
	logger *zap.Logger
	errors *telemetry.Counter
	now    func() time.Time
}

// NewErrorTranslator creates a translator counting translated errors on meter
func NewErrorTranslator(log *zap.Logger, meter metric.Meter) (*ErrorTranslator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	counter, err := telemetry.NewCounter(meter, "catalog.errors", "Errors translated into HTTP responses", "{error}")
	if err != nil {
		return nil, err
	}
	return &ErrorTranslator{
		logger: log,
		errors: counter,
		now:    time.Now,
	}, nil
}

// Middleware returns the gin middleware. It must be registered once, before
// any middleware that can record errors.
func (t *ErrorTranslator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				_ = c.Error(fmt.Errorf("panic recovered: %v", rec))
				c.Abort()
				t.respond(c)
			}
		}()
		c.Next()
		t.respond(c)
	}
}

func (t *ErrorTranslator) respond(c *gin.Context) {
	if len(c.Errors) == 0 {
		return
	}
	err := c.Errors.Last().Err
	ctx := c.Request.Context()
	traceID := TraceID(c)

	tr := Translate(err, traceID, t.now())
	t.errors.Inc(ctx, telemetry.AttrErrorCode.String(tr.Code), telemetry.AttrStatusCode.Int(tr.Status))
	t.log(c, err, tr, traceID)

	if c.Writer.Written() {
		return
	}
	c.AbortWithStatusJSON(tr.Status, tr.Body)
}

func (t *ErrorTranslator) log(c *gin.Context, err error, tr Translation, traceID string) {
	fields := []zap.Field{
		zap.String("trace_id", traceID),
		zap.String("request_id", c.GetString(logger.GinRequestIDKey)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("error_code", tr.Code),
		zap.Int("status_code", tr.Status),
		zap.Error(err),
	}
	if tr.Domain != nil && tr.Domain.Kind() == shared.KindValidation {
		fields = append(fields, zap.Any("validation_errors", tr.Domain.ValidationErrors()))
	}
	if c.Writer.Written() {
		fields = append(fields, zap.Bool("response_already_written", true))
	}

	if tr.Status >= 500 {
		t.logger.Error("Request failed", fields...)
	} else {
		t.logger.Warn("Request rejected", fields...)
	}
}

// Translate classifies err. The first matching rule wins: domain errors,
// binding validation errors, low-level faults, then the internal catch-all.
func Translate(err error, traceID string, at time.Time) Translation {
	if de, ok := shared.AsDomainError(err); ok {
		return domainTranslation(de, traceID, at)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return domainTranslation(shared.Validation(fieldErrorsFrom(verrs)), traceID, at)
	}

	code, message := classifyFault(err)
	body := dto.NewFaultResponse(code, message, traceID, at)
	return Translation{Status: body.StatusCode, Code: code, Body: body}
}

func domainTranslation(de *shared.DomainError, traceID string, at time.Time) Translation {
	return Translation{
		Status: de.StatusCode(),
		Code:   de.Code(),
		Body:   dto.NewErrorResponse(de, traceID, at),
		Domain: de,
	}
}

// classifyFault maps errors raised outside the taxonomy
func classifyFault(err error) (code, message string) {
	var argErr *shared.ArgumentError
	var numErr *strconv.NumError
	var netErr net.Error

	switch {
	case errors.Is(err, shared.ErrMissingParameter):
		return dto.ErrCodeMissingParameter, "Required parameter is missing."
	case errors.As(err, &argErr):
		return dto.ErrCodeArgument, argErr.Error()
	case errors.Is(err, shared.ErrInvalidArgument):
		return dto.ErrCodeArgument, err.Error()
	case errors.As(err, &numErr):
		return dto.ErrCodeArgument, fmt.Sprintf("The value '%s' is not a valid number.", numErr.Num)
	case uuid.IsInvalidLengthError(err):
		return dto.ErrCodeArgument, "The value is not a valid identifier."
	case errors.Is(err, shared.ErrInvalidOperation):
		return dto.ErrCodeInvalidOperation, err.Error()
	case errors.Is(err, shared.ErrAccessDenied):
		return dto.ErrCodeAccessDenied, err.Error()
	case errors.Is(err, fs.ErrPermission):
		return dto.ErrCodeAccessDenied, "Access to the resource is denied."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return dto.ErrCodeTimeout, "The operation timed out."
	case errors.As(err, &netErr) && netErr.Timeout():
		return dto.ErrCodeTimeout, "The operation timed out."
	case errors.Is(err, context.Canceled):
		return dto.ErrCodeOperationCancelled, "The operation was cancelled."
	default:
		return dto.ErrCodeInternal, "An unexpected error occurred."
	}
}

// TraceID returns the active span's trace id, falling back to the request id
// and finally to a fresh random id.
func TraceID(c *gin.Context) string {
	if id := logger.GetTraceID(c.Request.Context()); id != "" {
		return id
	}
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return uuid.NewString()
}
