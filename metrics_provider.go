package calendar

import "context"

// Константы для имен метрик, унифицированные для всех провайдеров.
const (
	MetricRequestsTotal     = "calendar_client_requests_total"
	MetricRequestDuration   = "calendar_client_request_duration_seconds"
	MetricInflightRequests  = "calendar_client_inflight_requests"
	MetricPollAttemptsTotal = "calendar_client_poll_attempts_total"
)

// Исходы попытки протокола опроса (метка outcome).
const (
	PollOutcomePending   = "pending"
	PollOutcomeCompleted = "completed"
	PollOutcomeError     = "error"
)

// DefaultDurationBuckets содержит бакеты гистограммы длительности запросов (в секундах).
var DefaultDurationBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10,
}

// MetricsProvider определяет интерфейс для различных бэкендов метрик.
type MetricsProvider interface {
	// RecordRequest записывает метрику запроса
	RecordRequest(ctx context.Context, method, host, status string, hasError bool)

	// RecordDuration записывает длительность запроса в секундах
	RecordDuration(ctx context.Context, seconds float64, method, host, status string)

	// RecordPollAttempt записывает попытку протокола опроса
	RecordPollAttempt(ctx context.Context, outcome string)

	// InflightInc увеличивает счетчик активных запросов
	InflightInc(ctx context.Context, method, host string)

	// InflightDec уменьшает счетчик активных запросов
	InflightDec(ctx context.Context, method, host string)

	// Close освобождает ресурсы провайдера
	Close() error
}

// MetricsBackend определяет тип бэкенда метрик.
type MetricsBackend string

const (
	MetricsBackendPrometheus    MetricsBackend = "prometheus"
	MetricsBackendOpenTelemetry MetricsBackend = "otel"
)
