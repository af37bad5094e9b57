package telemetry

import (
	"context"
	"testing"

	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *LendingMetrics) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewLendingMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return reader, m
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

// intSum returns the counter value recorded with attrs
func intSum(t *testing.T, rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	require.True(t, ok, "metric %s not recorded", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, MetricsConfig{Collector: Collector{ServiceName: "library-test"}}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewLendingMetrics_NilMeter(t *testing.T) {
	_, err := NewLendingMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestLendingMetrics_Counts(t *testing.T) {
	reader, m := newManualMeter(t)
	ctx := context.Background()

	m.LoanCreated(ctx)
	m.LoanCreated(ctx)
	m.LoanRejected(ctx, "ITEM_UNAVAILABLE")
	m.LoanReturned(ctx, false)
	m.LoanReturned(ctx, true)
	m.LoanReturned(ctx, true)
	m.LoanDeleted(ctx)
	m.FineIssued(ctx, valueobject.MustNewMoneyFromString("10.50", valueobject.USD))
	m.FineIssued(ctx, valueobject.MustNewMoneyFromString("10.50", valueobject.USD))

	rm := collect(t, reader)
	assert.Equal(t, int64(2), intSum(t, rm, "library_loans_created_total"))
	assert.Equal(t, int64(1), intSum(t, rm, "library_loans_rejected_total", AttrErrorCode.String("ITEM_UNAVAILABLE")))
	assert.Equal(t, int64(1), intSum(t, rm, "library_loans_returned_total", AttrDamaged.Bool(false)))
	assert.Equal(t, int64(2), intSum(t, rm, "library_loans_returned_total", AttrDamaged.Bool(true)))
	assert.Equal(t, int64(1), intSum(t, rm, "library_loans_deleted_total"))
	assert.Equal(t, int64(2), intSum(t, rm, "library_fines_issued_total", AttrCurrency.String("USD")))

	amount, ok := findMetric(rm, "library_fine_amount_total")
	require.True(t, ok)
	sum, ok := amount.Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.InDelta(t, 21.0, sum.DataPoints[0].Value, 0.0001)
}
