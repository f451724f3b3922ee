// Package calendar предоставляет клиент сервиса праздников: однократное
// получение карты праздников и протокол опроса статуса до значения "completed".
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPRequestClient реализует RequestClient поверх net/http с метриками и трассировкой.
type HTTPRequestClient struct {
	httpClient       *http.Client
	maxResponseBytes int64
}

// NewHTTPRequestClient создаёт RequestClient с указанной конфигурацией.
func NewHTTPRequestClient(config Config) *HTTPRequestClient {
	config = config.withDefaults()
	return newHTTPRequestClient(config, NewMetricsFromConfig(config))
}

func newHTTPRequestClient(config Config, metrics *Metrics) *HTTPRequestClient {
	var tracer *Tracer
	if config.Transport.TracingEnabled {
		tracer = NewTracer(config.Transport.TracerProvider)
	}

	rt := NewRoundTripper(config.Transport.RoundTripper, config.Transport.Headers, metrics, tracer)

	return &HTTPRequestClient{
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   config.Transport.Timeout,
		},
		maxResponseBytes: config.Transport.MaxResponseBytes,
	}
}

// Get выполняет GET запрос и полностью читает тело ответа.
func (c *HTTPRequestClient) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > c.maxResponseBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrResponseTooLarge, c.maxResponseBytes)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Client объединяет HTTPRequestClient, HolidayFetcher и PollingProtocol
// с общими метриками.
type Client struct {
	requests *HTTPRequestClient
	holidays *HolidayFetcher
	protocol *PollingProtocol
	metrics  *Metrics
	config   Config
}

// New создаёт клиент календаря поверх HTTP.
func New(config Config) *Client {
	config = config.withDefaults()
	metrics := NewMetricsFromConfig(config)
	requests := newHTTPRequestClient(config, metrics)

	return &Client{
		requests: requests,
		holidays: newHolidayFetcher(requests, config),
		protocol: newPollingProtocol(requests, config, metrics),
		metrics:  metrics,
		config:   config,
	}
}

// GetHolidays выполняет один запрос карты праздников.
func (c *Client) GetHolidays(ctx context.Context) (HolidayMap, error) {
	return c.holidays.GetHolidays(ctx)
}

// RunProtocol опрашивает сервис до получения значения "completed".
func (c *Client) RunProtocol(ctx context.Context) (*Response, error) {
	return c.protocol.Run(ctx)
}

// GetConfig возвращает конфигурацию клиента.
func (c *Client) GetConfig() Config {
	return c.config
}

// Close освобождает ресурсы клиента.
func (c *Client) Close() error {
	if c.metrics != nil {
		return c.metrics.Close()
	}
	return nil
}
