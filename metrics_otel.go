package calendar

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/schuna/calendar-client"

// otelInstruments contains a set of OpenTelemetry instruments.
type otelInstruments struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	inflight     metric.Int64UpDownCounter
	pollAttempts metric.Int64Counter
}

var (
	otelInstrumentsMu sync.Mutex
	// otelInstrumentsByProvider caches instruments by MeterProvider.
	otelInstrumentsByProvider = map[any]*otelInstruments{}
)

// OpenTelemetryMetricsProvider collects metrics via OpenTelemetry.
type OpenTelemetryMetricsProvider struct {
	clientName string
	inst       *otelInstruments
}

// NewOpenTelemetryMetricsProvider creates a provider; a nil mp means the global MeterProvider.
func NewOpenTelemetryMetricsProvider(clientName string, mp metric.MeterProvider) *OpenTelemetryMetricsProvider {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	return &OpenTelemetryMetricsProvider{
		clientName: clientName,
		inst:       otelInstrumentsFor(mp),
	}
}

func otelInstrumentsFor(mp metric.MeterProvider) *otelInstruments {
	otelInstrumentsMu.Lock()
	defer otelInstrumentsMu.Unlock()

	key, cacheable := metricsCacheKey(mp)
	if cacheable {
		if inst, ok := otelInstrumentsByProvider[key]; ok {
			return inst
		}
	}

	meter := mp.Meter(instrumentationName)
	inst := &otelInstruments{}
	var err error

	inst.requests, err = meter.Int64Counter(
		MetricRequestsTotal,
		metric.WithDescription("Total number of holiday service requests"),
	)
	handleInstrumentErr(err)

	inst.duration, err = meter.Float64Histogram(
		MetricRequestDuration,
		metric.WithDescription("Holiday service request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultDurationBuckets...),
	)
	handleInstrumentErr(err)

	inst.inflight, err = meter.Int64UpDownCounter(
		MetricInflightRequests,
		metric.WithDescription("Number of holiday service requests currently in-flight"),
	)
	handleInstrumentErr(err)

	inst.pollAttempts, err = meter.Int64Counter(
		MetricPollAttemptsTotal,
		metric.WithDescription("Total number of status polls grouped by outcome"),
	)
	handleInstrumentErr(err)

	if cacheable {
		otelInstrumentsByProvider[key] = inst
	}
	return inst
}

// handleInstrumentErr forwards creation errors to the global OTel handler;
// the SDK still returns a usable no-op instrument in that case.
func handleInstrumentErr(err error) {
	if err != nil {
		otel.Handle(err)
	}
}

// RecordRequest records a request metric.
func (o *OpenTelemetryMetricsProvider) RecordRequest(ctx context.Context, method, host, status string, hasError bool) {
	o.inst.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client_name", o.clientName),
		attribute.String("method", method),
		attribute.String("host", host),
		attribute.String("status", status),
		attribute.Bool("error", hasError),
	))
}

// RecordDuration records request duration.
func (o *OpenTelemetryMetricsProvider) RecordDuration(ctx context.Context, seconds float64, method, host, status string) {
	o.inst.duration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("client_name", o.clientName),
		attribute.String("method", method),
		attribute.String("host", host),
		attribute.String("status", status),
	))
}

// RecordPollAttempt records a status poll.
func (o *OpenTelemetryMetricsProvider) RecordPollAttempt(ctx context.Context, outcome string) {
	o.inst.pollAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client_name", o.clientName),
		attribute.String("outcome", outcome),
	))
}

// InflightInc increments the active requests counter.
func (o *OpenTelemetryMetricsProvider) InflightInc(ctx context.Context, method, host string) {
	o.inst.inflight.Add(ctx, 1, metric.WithAttributes(o.hostAttrs(method, host)...))
}

// InflightDec decrements the active requests counter.
func (o *OpenTelemetryMetricsProvider) InflightDec(ctx context.Context, method, host string) {
	o.inst.inflight.Add(ctx, -1, metric.WithAttributes(o.hostAttrs(method, host)...))
}

func (o *OpenTelemetryMetricsProvider) hostAttrs(method, host string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("client_name", o.clientName),
		attribute.String("method", method),
		attribute.String("host", host),
	}
}

// Close releases resources.
func (o *OpenTelemetryMetricsProvider) Close() error {
	return nil
}
