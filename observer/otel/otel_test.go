package otel_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	retrycache "github.com/probablyarth/retrycache-go"
	otelobserver "github.com/probablyarth/retrycache-go/observer/otel"
)

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

func TestObserverRecordsEvents(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	o, err := otelobserver.New(provider.Meter("retrycache-test"))
	require.NoError(t, err)

	o.On(retrycache.EventData{Event: retrycache.EventMiss, Name: "cfg"})
	o.On(retrycache.EventData{Event: retrycache.EventFailure, Name: "cfg"})
	o.On(retrycache.EventData{Event: retrycache.EventFailure, Name: "cfg"})
	o.On(retrycache.EventData{Event: retrycache.EventThrottled, Name: "cfg", Delay: 1500 * time.Millisecond})

	metrics := collect(t, reader)

	events, ok := metrics["retrycache/events"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range events.DataPoints {
		name, _ := dp.Attributes.Value(attribute.Key("event"))
		cache, _ := dp.Attributes.Value(attribute.Key("cache"))
		assert.Equal(t, "cfg", cache.AsString())
		counts[name.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{"miss": 1, "failure": 2, "throttled": 1}, counts)

	throttle, ok := metrics["retrycache/throttle_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, throttle.DataPoints, 1)
	assert.Equal(t, uint64(1), throttle.DataPoints[0].Count)
	assert.InDelta(t, 1.5, throttle.DataPoints[0].Sum, 1e-9)
}
