package calendar

import "context"

// Metrics связывает имя клиента с выбранным провайдером метрик.
type Metrics struct {
	clientName string
	enabled    bool
	provider   MetricsProvider
}

// NewMetricsFromConfig выбирает провайдер согласно конфигурации.
func NewMetricsFromConfig(cfg Config) *Metrics {
	cfg = cfg.withDefaults()
	if !cfg.metricsEnabled() {
		return NewDisabledMetrics(cfg.ClientName)
	}

	var provider MetricsProvider
	switch cfg.MetricsBackend {
	case MetricsBackendOpenTelemetry:
		provider = NewOpenTelemetryMetricsProvider(cfg.ClientName, cfg.MeterProvider)
	default:
		provider = NewPrometheusMetricsProvider(cfg.ClientName, cfg.PrometheusRegisterer)
	}

	return NewMetricsWithProvider(cfg.ClientName, provider)
}

// NewDisabledMetrics создаёт экземпляр метрик с выключенным сбором.
func NewDisabledMetrics(clientName string) *Metrics {
	return &Metrics{
		clientName: clientName,
		enabled:    false,
		provider:   NewNoopMetricsProvider(),
	}
}

// NewMetricsWithProvider создаёт экземпляр метрик с указанным провайдером.
func NewMetricsWithProvider(clientName string, provider MetricsProvider) *Metrics {
	enabled := provider != nil
	if _, ok := provider.(*NoopMetricsProvider); ok {
		enabled = false
	}
	return &Metrics{
		clientName: clientName,
		enabled:    enabled,
		provider:   provider,
	}
}

// RecordRequest записывает метрики для запроса.
func (m *Metrics) RecordRequest(ctx context.Context, method, host, status string, hasError bool) {
	if !m.enabled {
		return
	}
	m.provider.RecordRequest(ctx, method, host, status, hasError)
}

// RecordDuration записывает длительность запроса.
func (m *Metrics) RecordDuration(ctx context.Context, seconds float64, method, host, status string) {
	if !m.enabled {
		return
	}
	m.provider.RecordDuration(ctx, seconds, method, host, status)
}

// RecordPollAttempt записывает попытку протокола опроса.
func (m *Metrics) RecordPollAttempt(ctx context.Context, outcome string) {
	if !m.enabled {
		return
	}
	m.provider.RecordPollAttempt(ctx, outcome)
}

// IncrementInflight увеличивает счётчик активных запросов.
func (m *Metrics) IncrementInflight(ctx context.Context, method, host string) {
	if !m.enabled {
		return
	}
	m.provider.InflightInc(ctx, method, host)
}

// DecrementInflight уменьшает счётчик активных запросов.
func (m *Metrics) DecrementInflight(ctx context.Context, method, host string) {
	if !m.enabled {
		return
	}
	m.provider.InflightDec(ctx, method, host)
}

// Close освобождает ресурсы метрик.
func (m *Metrics) Close() error {
	if m.provider != nil {
		return m.provider.Close()
	}
	return nil
}
