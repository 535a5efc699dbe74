package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// newTestMeter returns a meter backed by a manual reader
func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

// collect returns the metrics gathered by reader keyed by name
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

// sumByAttr totals an int64 sum per value of the attribute key
func sumByAttr(t *testing.T, m metricdata.Metrics, key string) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)

	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attributeKey(key))
		out[v.Emit()] += dp.Value
	}
	return out
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("catalog"))
	assert.NoError(t, mp.Shutdown(context.Background()))

	var nilProvider *MeterProvider
	assert.NotNil(t, nilProvider.Meter("catalog"))
}

func TestCounter(t *testing.T) {
	reader, provider := newTestMeter(t)

	c, err := NewCounter(provider.Meter("test"), "catalog.errors", "Translated errors", "{error}")
	require.NoError(t, err)

	ctx := context.Background()
	c.Inc(ctx, AttrErrorCode.String("NotFound"))
	c.Inc(ctx, AttrErrorCode.String("NotFound"))
	c.Inc(ctx, AttrErrorCode.String("Conflict"))

	totals := sumByAttr(t, collect(t, reader)["catalog.errors"], "error_code")
	assert.Equal(t, int64(2), totals["NotFound"])
	assert.Equal(t, int64(1), totals["Conflict"])
}

func TestHistogram(t *testing.T) {
	reader, provider := newTestMeter(t)

	h, err := NewHistogram(provider.Meter("test"), HistogramOpts{
		Name:       "http_server_request_duration_seconds",
		Unit:       "s",
		Boundaries: HTTPDurationBuckets,
	})
	require.NoError(t, err)

	h.RecordDuration(context.Background(), 20*time.Millisecond)
	h.RecordDuration(context.Background(), 2*time.Second)

	m := collect(t, reader)["http_server_request_duration_seconds"]
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, HTTPDurationBuckets, hist.DataPoints[0].Bounds)
}
