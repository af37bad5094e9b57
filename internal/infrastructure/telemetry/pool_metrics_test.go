package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func gaugeValue(t *testing.T, rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	require.True(t, ok, "metric %s not recorded", name)
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	want := attribute.NewSet(attrs...)
	for _, dp := range gauge.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	t.Fatalf("no data point for %s with %v", name, attrs)
	return 0
}

func TestRegisterPoolMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	stats := PoolStats{MaxOpen: 10, Open: 3, InUse: 1, Idle: 2}
	reg, err := RegisterPoolMetrics(provider.Meter("test"), func() (PoolStats, error) { return stats, nil })
	require.NoError(t, err)

	rm := collect(t, reader)
	assert.Equal(t, int64(10), gaugeValue(t, rm, "library_db_pool_connections_max"))
	assert.Equal(t, int64(2), gaugeValue(t, rm, "library_db_pool_connections", AttrPoolState.String("idle")))
	assert.Equal(t, int64(1), gaugeValue(t, rm, "library_db_pool_connections", AttrPoolState.String("in_use")))
	assert.Equal(t, int64(3), gaugeValue(t, rm, "library_db_pool_connections", AttrPoolState.String("open")))

	stats.InUse = 4
	rm = collect(t, reader)
	assert.Equal(t, int64(4), gaugeValue(t, rm, "library_db_pool_connections", AttrPoolState.String("in_use")))

	require.NoError(t, reg.Unregister())
}

func TestRegisterPoolMetrics_NilMeter(t *testing.T) {
	_, err := RegisterPoolMetrics(nil, func() (PoolStats, error) { return PoolStats{}, nil })
	assert.ErrorIs(t, err, ErrMeterNil)
}
