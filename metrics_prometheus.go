package calendar

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// prometheusCollectors содержит векторы метрик, зарегистрированные в одном регистраторе.
type prometheusCollectors struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	InflightRequests  *prometheus.GaugeVec
	PollAttemptsTotal *prometheus.CounterVec
}

var (
	prometheusCollectorsMu sync.Mutex
	// prometheusCollectorsByRegisterer кеширует коллекторы, чтобы не регистрировать их повторно
	prometheusCollectorsByRegisterer = map[any]*prometheusCollectors{}
)

// PrometheusMetricsProvider собирает метрики через Prometheus.
type PrometheusMetricsProvider struct {
	clientName string
	metrics    *prometheusCollectors
}

// NewPrometheusMetricsProvider создает провайдер; nil reg означает prometheus.DefaultRegisterer.
func NewPrometheusMetricsProvider(clientName string, reg prometheus.Registerer) *PrometheusMetricsProvider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &PrometheusMetricsProvider{
		clientName: clientName,
		metrics:    prometheusCollectorsFor(reg),
	}
}

func prometheusCollectorsFor(reg prometheus.Registerer) *prometheusCollectors {
	prometheusCollectorsMu.Lock()
	defer prometheusCollectorsMu.Unlock()

	key, cacheable := metricsCacheKey(reg)
	if cacheable {
		if existing, ok := prometheusCollectorsByRegisterer[key]; ok {
			return existing
		}
	}

	c := &prometheusCollectors{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRequestsTotal,
				Help: "Total number of holiday service requests",
			},
			[]string{"client_name", "method", "host", "status", "error"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRequestDuration,
				Help:    "Holiday service request duration in seconds",
				Buckets: DefaultDurationBuckets,
			},
			[]string{"client_name", "method", "host", "status"},
		),
		InflightRequests: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricInflightRequests,
				Help: "Number of holiday service requests currently in-flight",
			},
			[]string{"client_name", "method", "host"},
		),
		PollAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricPollAttemptsTotal,
				Help: "Total number of status polls grouped by outcome",
			},
			[]string{"client_name", "outcome"},
		),
	}

	// Регистратор без кеша мог уже получить коллекторы: берём существующие
	c.RequestsTotal = registerCollector(reg, c.RequestsTotal)
	c.RequestDuration = registerCollector(reg, c.RequestDuration)
	c.InflightRequests = registerCollector(reg, c.InflightRequests)
	c.PollAttemptsTotal = registerCollector(reg, c.PollAttemptsTotal)

	if cacheable {
		prometheusCollectorsByRegisterer[key] = c
	}
	return c
}

// registerCollector регистрирует c или возвращает ранее зарегистрированный
// коллектор того же типа. Прочие ошибки приводят к панике, как MustRegister.
func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(err)
}

// RecordRequest записывает метрику запроса.
func (p *PrometheusMetricsProvider) RecordRequest(_ context.Context, method, host, status string, hasError bool) {
	p.metrics.RequestsTotal.WithLabelValues(p.clientName, method, host, status, strconv.FormatBool(hasError)).Inc()
}

// RecordDuration записывает длительность запроса.
func (p *PrometheusMetricsProvider) RecordDuration(_ context.Context, seconds float64, method, host, status string) {
	p.metrics.RequestDuration.WithLabelValues(p.clientName, method, host, status).Observe(seconds)
}

// RecordPollAttempt записывает попытку опроса.
func (p *PrometheusMetricsProvider) RecordPollAttempt(_ context.Context, outcome string) {
	p.metrics.PollAttemptsTotal.WithLabelValues(p.clientName, outcome).Inc()
}

// InflightInc увеличивает счетчик активных запросов.
func (p *PrometheusMetricsProvider) InflightInc(_ context.Context, method, host string) {
	p.metrics.InflightRequests.WithLabelValues(p.clientName, method, host).Inc()
}

// InflightDec уменьшает счетчик активных запросов.
func (p *PrometheusMetricsProvider) InflightDec(_ context.Context, method, host string) {
	p.metrics.InflightRequests.WithLabelValues(p.clientName, method, host).Dec()
}

// Close освобождает ресурсы.
func (p *PrometheusMetricsProvider) Close() error {
	return nil
}
