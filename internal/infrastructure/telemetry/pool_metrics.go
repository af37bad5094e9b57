package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AttrPoolState labels a connection count by its state.
var AttrPoolState = attribute.Key("state")

// PoolStats is a snapshot of a database connection pool.
type PoolStats struct {
	MaxOpen int
	Open    int
	InUse   int
	Idle    int
}

// RegisterPoolMetrics observes the pool through stats on every collection.
// Unregister the returned registration before closing the pool.
func RegisterPoolMetrics(meter metric.Meter, stats func() (PoolStats, error)) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	connections, err := meter.Int64ObservableGauge("library_db_pool_connections",
		metric.WithDescription("Database connections by state"), metric.WithUnit("{connections}"))
	if err != nil {
		return nil, fmt.Errorf("register library_db_pool_connections: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("library_db_pool_connections_max",
		metric.WithDescription("Maximum open database connections"), metric.WithUnit("{connections}"))
	if err != nil {
		return nil, fmt.Errorf("register library_db_pool_connections_max: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s, err := stats()
		if err != nil {
			return err
		}
		o.ObserveInt64(maxOpen, int64(s.MaxOpen))
		o.ObserveInt64(connections, int64(s.Idle), metric.WithAttributes(AttrPoolState.String("idle")))
		o.ObserveInt64(connections, int64(s.InUse), metric.WithAttributes(AttrPoolState.String("in_use")))
		o.ObserveInt64(connections, int64(s.Open), metric.WithAttributes(AttrPoolState.String("open")))
		return nil
	}, connections, maxOpen)
}
