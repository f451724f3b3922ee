package calendar

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RoundTripper реализует http.RoundTripper с метриками и трассировкой.
// Каждый вызов RoundTrip делает ровно один запрос к базовому транспорту.
type RoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
	metrics *Metrics
	tracer  *Tracer
}

// NewRoundTripper оборачивает base; tracer может быть nil.
func NewRoundTripper(base http.RoundTripper, headers map[string]string, metrics *Metrics, tracer *Tracer) *RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if metrics == nil {
		metrics = NewDisabledMetrics(DefaultClientName)
	}
	return &RoundTripper{
		base:    base,
		headers: headers,
		metrics: metrics,
		tracer:  tracer,
	}
}

// RoundTrip выполняет HTTP запрос
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var span trace.Span
	if rt.tracer != nil {
		ctx, span = rt.tracer.StartSpan(ctx, "HTTP "+req.Method, trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("http.host", req.URL.Host),
		)
	}

	// RoundTripper не должен изменять исходный запрос
	req = req.Clone(ctx)
	for key, value := range rt.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	host := getHost(req.URL)
	rt.metrics.IncrementInflight(ctx, req.Method, host)
	defer rt.metrics.DecrementInflight(ctx, req.Method, host)

	start := time.Now()
	resp, err := rt.base.RoundTrip(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	status := strconv.Itoa(statusCode)
	rt.metrics.RecordRequest(ctx, req.Method, host, status, err != nil)
	rt.metrics.RecordDuration(ctx, duration.Seconds(), req.Method, host, status)

	if span != nil {
		span.SetAttributes(
			attribute.Int("http.status_code", statusCode),
			attribute.Float64("http.duration_seconds", duration.Seconds()),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}

	return resp, err
}

// getHost извлекает хост из URL для метрик
func getHost(u *url.URL) string {
	if u.Port() != "" {
		return u.Hostname()
	}
	return u.Host
}
