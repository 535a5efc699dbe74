package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	testTraceID = trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36}
	testSpanID  = trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7}
)

// contextWithSpan returns a context carrying a valid remote span context
func contextWithSpan() context.Context {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    testTraceID,
		SpanID:     testSpanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return zap.New(core), recorded
}

func TestFromContext(t *testing.T) {
	l, _ := observedLogger()

	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
	assert.NotNil(t, FromContext(context.Background()), "falls back to a no-op logger")
}

func TestWithRequestID(t *testing.T) {
	l, recorded := observedLogger()

	ctx, enriched := WithRequestID(context.Background(), l, "req-42")

	assert.Equal(t, "req-42", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))

	enriched.Info("hello")
	FromContext(ctx).Info("from context")

	entries := recorded.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "req-42", e.ContextMap()["request_id"])
	}
}

func TestTraceIDs(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))

	ctx := contextWithSpan()
	assert.Equal(t, testTraceID.String(), GetTraceID(ctx))
	assert.Equal(t, testSpanID.String(), GetSpanID(ctx))
}

func TestWithTraceContext(t *testing.T) {
	l, recorded := observedLogger()

	assert.Same(t, l, WithTraceContext(context.Background(), l), "unchanged without a span")

	WithTraceContext(contextWithSpan(), l).Info("traced")

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, testTraceID.String(), fields["trace_id"])
	assert.Equal(t, testSpanID.String(), fields["span_id"])
}

func TestContextLogger(t *testing.T) {
	l, recorded := observedLogger()
	ctx, _ := WithRequestID(contextWithSpan(), l, "req-1")

	cl := L(ctx).With(zap.String("component", "test"))
	cl.Debug("debug")
	cl.Info("info")
	cl.Warn("warn")
	cl.Error("error")

	entries := recorded.All()
	require.Len(t, entries, 4)
	for _, e := range entries {
		fields := e.ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, testTraceID.String(), fields["trace_id"])
		assert.Equal(t, "test", fields["component"])
	}
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestContextLogger_WithoutLoggerInContext(t *testing.T) {
	assert.NotPanics(t, func() {
		L(context.Background()).Info("dropped")
		WithLogger(context.Background(), nil).Info("dropped")
	})
}
