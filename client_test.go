package calendar_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	calendar "github.com/schuna/calendar-client"
	"github.com/schuna/calendar-client/mock"
)

const holidaysJSON = `{"12/25": "Christmas", "5/5": "Children's Day"}`

func serverConfig(ts *mock.TestServer) calendar.Config {
	cfg := quietConfig()
	cfg.Endpoint = ts.URLFor("/api/holidays")
	return cfg
}

func TestHTTPRequestClient_Get(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(mock.ServerResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       holidaysJSON,
	})
	defer ts.Close()

	cfg := serverConfig(ts)
	cfg.Transport.Headers = map[string]string{"Accept": "application/json"}
	client := calendar.NewHTTPRequestClient(cfg)

	resp, err := client.Get(context.Background(), cfg.Endpoint)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, holidaysJSON, resp.Text())

	last := ts.LastRequest()
	require.NotNil(t, last)
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/api/holidays", last.Path)
	assert.Equal(t, "application/json", last.Headers.Get("Accept"))
}

func TestHTTPRequestClient_ResponseTooLarge(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(mock.ServerResponse{
		StatusCode: http.StatusOK,
		Body:       strings.Repeat("x", 100),
	})
	defer ts.Close()

	cfg := serverConfig(ts)
	cfg.Transport.MaxResponseBytes = 8

	_, err := calendar.NewHTTPRequestClient(cfg).Get(context.Background(), cfg.Endpoint)

	assert.ErrorIs(t, err, calendar.ErrResponseTooLarge)
}

func TestHTTPRequestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer()
	endpoint := ts.URLFor("/api/holidays")
	ts.Close()

	_, err := calendar.NewHTTPRequestClient(quietConfig()).Get(context.Background(), endpoint)

	require.Error(t, err)
	assert.True(t, calendar.IsTransportError(err))
	assert.Equal(t, calendar.ErrorClassNetwork, calendar.ClassifyError(err))
}

func TestClient_GetHolidays(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(mock.ServerResponse{StatusCode: http.StatusOK, Body: holidaysJSON})
	defer ts.Close()

	client := calendar.New(serverConfig(ts))
	defer client.Close()

	holidays, err := client.GetHolidays(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Christmas", holidays["12/25"])
	assert.Equal(t, 1, ts.RequestCount())
}

func TestClient_GetHolidays_NotFound(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(mock.ServerResponse{StatusCode: http.StatusNotFound, Body: "Not Found"})
	defer ts.Close()

	client := calendar.New(serverConfig(ts))

	holidays, err := client.GetHolidays(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, holidays)
}

func TestClient_GetHolidays_ManualRetryAfterTimeout(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(
		mock.ServerResponse{StatusCode: http.StatusOK, Body: holidaysJSON, Delay: 500 * time.Millisecond},
		mock.ServerResponse{StatusCode: http.StatusOK, Body: holidaysJSON},
	)
	defer ts.Close()

	cfg := serverConfig(ts)
	cfg.Transport.Timeout = 50 * time.Millisecond
	client := calendar.New(cfg)

	_, err := client.GetHolidays(context.Background())
	require.Error(t, err)
	assert.True(t, calendar.IsTimeoutError(err))

	holidays, err := client.GetHolidays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Christmas", holidays["12/25"])

	assert.Equal(t, 2, ts.RequestCount())
}

func TestClient_RunProtocol(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(
		mock.ServerResponse{StatusCode: http.StatusOK, Body: "start"},
		mock.ServerResponse{StatusCode: http.StatusOK, Body: "busy"},
		mock.ServerResponse{StatusCode: http.StatusOK, Body: "completed"},
		mock.ServerResponse{StatusCode: http.StatusOK, Body: "idle"},
	)
	defer ts.Close()

	client := calendar.New(serverConfig(ts))

	resp, err := client.RunProtocol(context.Background())

	require.NoError(t, err)
	assert.Equal(t, calendar.StatusCompleted, resp.Text())
	assert.Equal(t, 3, ts.RequestCount())
}

func TestClient_PrometheusRequestMetrics(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(mock.ServerResponse{StatusCode: http.StatusOK, Body: holidaysJSON})
	defer ts.Close()

	reg := prometheus.NewRegistry()
	cfg := calendar.Config{
		Endpoint:             ts.URLFor("/api/holidays"),
		ClientName:           "prom-test",
		PrometheusRegisterer: reg,
	}
	client := calendar.New(cfg)

	_, err := client.GetHolidays(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, reg, calendar.MetricRequestsTotal, map[string]string{
		"client_name": "prom-test",
		"method":      http.MethodGet,
		"status":      "200",
		"error":       "false",
	}))
}

func TestClient_OpenTelemetryPollMetrics(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(
		mock.ServerResponse{StatusCode: http.StatusOK, Body: "busy"},
		mock.ServerResponse{StatusCode: http.StatusOK, Body: "completed"},
	)
	defer ts.Close()

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer meterProvider.Shutdown(context.Background())

	client := calendar.New(calendar.Config{
		Endpoint:       ts.URLFor("/api/holidays"),
		MetricsBackend: calendar.MetricsBackendOpenTelemetry,
		MeterProvider:  meterProvider,
	})

	_, err := client.RunProtocol(context.Background())
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.EqualValues(t, 2, sumInt64(rm, calendar.MetricPollAttemptsTotal))
	assert.EqualValues(t, 2, sumInt64(rm, calendar.MetricRequestsTotal))
}

func TestClient_Tracing(t *testing.T) {
	t.Parallel()

	ts := mock.NewTestServer(mock.ServerResponse{StatusCode: http.StatusOK, Body: holidaysJSON})
	defer ts.Close()

	recorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tracerProvider.Shutdown(context.Background())

	cfg := serverConfig(ts)
	cfg.Transport.TracingEnabled = true
	cfg.Transport.TracerProvider = tracerProvider
	client := calendar.New(cfg)

	_, err := client.GetHolidays(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP GET", spans[0].Name())
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.status_code", http.StatusOK))
}

func sumInt64(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}
