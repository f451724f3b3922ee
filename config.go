package calendar

import (
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultEndpoint адрес сервиса праздников, используемый обеими операциями
	DefaultEndpoint = "http://localhost/api/holidays"

	// DefaultClientName имя клиента в метриках
	DefaultClientName = "calendar-client"

	// StatusCompleted терминальное значение протокола опроса
	StatusCompleted = "completed"

	defaultTimeout          = 5 * time.Second
	defaultMaxIntervalShift = 5
	defaultMaxResponseBytes = 1 << 20
)

// Config содержит конфигурацию клиента календаря
type Config struct {
	// Endpoint адрес сервиса праздников
	Endpoint string

	// ClientName имя клиента для метрик
	ClientName string

	// Logger структурированный логгер (по умолчанию zap.NewNop)
	Logger *zap.Logger

	// MetricsEnabled включает/выключает метрики (nil означает включено)
	MetricsEnabled *bool

	// MetricsBackend выбирает бэкенд метрик
	MetricsBackend MetricsBackend

	// PrometheusRegisterer регистратор для Prometheus бэкенда (по умолчанию DefaultRegisterer)
	PrometheusRegisterer prometheus.Registerer

	// MeterProvider провайдер для OpenTelemetry бэкенда (по умолчанию глобальный)
	MeterProvider metric.MeterProvider

	// Transport настройки HTTP транспорта
	Transport TransportConfig

	// Poll настройки протокола опроса
	Poll PollConfig
}

// TransportConfig содержит настройки HTTPRequestClient
type TransportConfig struct {
	// Timeout таймаут одного запроса
	Timeout time.Duration

	// RoundTripper базовый HTTP транспорт (опционально)
	RoundTripper http.RoundTripper

	// MaxResponseBytes ограничивает размер читаемого тела ответа
	MaxResponseBytes int64

	// TracingEnabled включает OpenTelemetry трассировку
	TracingEnabled bool

	// TracerProvider провайдер трассировки (по умолчанию глобальный)
	TracerProvider trace.TracerProvider

	// Headers добавляются к каждому запросу
	Headers map[string]string
}

// PollConfig ограничивает протокол опроса. Нулевое значение означает
// неограниченное число попыток без задержки.
type PollConfig struct {
	// MaxAttempts максимальное количество запросов (0 без ограничения)
	MaxAttempts int

	// Interval задержка перед второй попыткой
	Interval time.Duration

	// MaxInterval верхняя граница задержки (по умолчанию Interval*32).
	// При MaxInterval == Interval джиттер может только уменьшить задержку
	MaxInterval time.Duration

	// Jitter коэффициент джиттера (0.0 - 1.0)
	Jitter float64
}

// withDefaults применяет значения по умолчанию к конфигурации
func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}

	if c.ClientName == "" {
		c.ClientName = DefaultClientName
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	if c.MetricsBackend == "" {
		c.MetricsBackend = MetricsBackendPrometheus
	}

	c.Transport = c.Transport.withDefaults()
	c.Poll = c.Poll.withDefaults()

	return c
}

func (tc TransportConfig) withDefaults() TransportConfig {
	if tc.Timeout == 0 {
		tc.Timeout = defaultTimeout
	}

	if tc.RoundTripper == nil {
		tc.RoundTripper = http.DefaultTransport
	}

	if tc.MaxResponseBytes == 0 {
		tc.MaxResponseBytes = defaultMaxResponseBytes
	}

	return tc
}

func (pc PollConfig) withDefaults() PollConfig {
	if pc.Interval > 0 {
		switch {
		case pc.MaxInterval == 0:
			pc.MaxInterval = pc.Interval << defaultMaxIntervalShift
		case pc.MaxInterval < pc.Interval:
			pc.MaxInterval = pc.Interval
		}
	}

	return pc
}

// metricsEnabled сообщает, включены ли метрики
func (c Config) metricsEnabled() bool {
	return c.MetricsEnabled == nil || *c.MetricsEnabled
}

// Validate проверяет конфигурацию и возвращает *ConfigurationError
func (c Config) Validate() error {
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return NewConfigurationError("Endpoint", c.Endpoint, "must be an absolute URL")
		}
	}

	switch c.MetricsBackend {
	case "", MetricsBackendPrometheus, MetricsBackendOpenTelemetry:
	default:
		return NewConfigurationError("MetricsBackend", c.MetricsBackend, "unknown metrics backend")
	}

	if c.Transport.Timeout < 0 {
		return NewConfigurationError("Transport.Timeout", c.Transport.Timeout, "must not be negative")
	}

	if c.Transport.MaxResponseBytes < 0 {
		return NewConfigurationError("Transport.MaxResponseBytes", c.Transport.MaxResponseBytes, "must not be negative")
	}

	return c.Poll.Validate()
}

// Validate проверяет настройки опроса
func (pc PollConfig) Validate() error {
	if pc.MaxAttempts < 0 {
		return NewConfigurationError("Poll.MaxAttempts", pc.MaxAttempts, "must not be negative")
	}

	if pc.Interval < 0 {
		return NewConfigurationError("Poll.Interval", pc.Interval, "must not be negative")
	}

	if pc.MaxInterval < 0 {
		return NewConfigurationError("Poll.MaxInterval", pc.MaxInterval, "must not be negative")
	}

	if pc.Jitter < 0 || pc.Jitter > 1 {
		return NewConfigurationError("Poll.Jitter", pc.Jitter, "must be within [0, 1]")
	}

	return nil
}
