// Package otel records cache events as OpenTelemetry metrics.
package otel

import (
	"context"
	"fmt"

	retrycache "github.com/probablyarth/retrycache-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Observer counts every event on retrycache/events, labelled by event and
// cache name, and records throttling waits on retrycache/throttle_seconds.
type Observer struct {
	events   metric.Int64Counter
	throttle metric.Float64Histogram
}

var _ retrycache.Observer = (*Observer)(nil)

// New registers the instruments on meter.
func New(meter metric.Meter) (*Observer, error) {
	events, err := meter.Int64Counter(
		"retrycache/events",
		metric.WithDescription("Cache events by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event count metric: %w", err)
	}

	throttle, err := meter.Float64Histogram(
		"retrycache/throttle_seconds",
		metric.WithDescription("Time an attempt waited for the minimum retry interval"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create throttle metric: %w", err)
	}

	return &Observer{events: events, throttle: throttle}, nil
}

// On records eventData.
func (o *Observer) On(e retrycache.EventData) {
	ctx := context.Background()
	cache := attribute.String("cache", e.Name)

	o.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", e.Event.String()),
		cache,
	))
	if e.Event == retrycache.EventThrottled {
		o.throttle.Record(ctx, e.Delay.Seconds(), metric.WithAttributes(cache))
	}
}
