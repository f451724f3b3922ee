package calendar

import (
	"context"
	"errors"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// errStillPolling marks an attempt that did not observe the sentinel.
var errStillPolling = errors.New("status is not completed")

// PollingProtocol опрашивает сервис, пока тело ответа не станет равно
// StatusCompleted. Без PollConfig число попыток не ограничено, а задержки нет.
type PollingProtocol struct {
	client   RequestClient
	endpoint string
	poll     PollConfig
	metrics  *Metrics
	logger   *zap.Logger
}

// NewPollingProtocol создаёт PollingProtocol поверх client.
func NewPollingProtocol(client RequestClient, config Config) *PollingProtocol {
	config = config.withDefaults()
	return newPollingProtocol(client, config, NewMetricsFromConfig(config))
}

func newPollingProtocol(client RequestClient, config Config, metrics *Metrics) *PollingProtocol {
	return &PollingProtocol{
		client:   client,
		endpoint: config.Endpoint,
		poll:     config.Poll,
		metrics:  metrics,
		logger:   config.Logger.With(zap.String("component", "protocol")),
	}
}

// Run выполняет запросы до терминального ответа и возвращает его.
// Ошибка транспорта прерывает опрос сразу и возвращается без изменений.
// При исчерпании PollConfig.MaxAttempts возвращается *MaxAttemptsExceededError,
// при отмене ctx - ctx.Err().
func (p *PollingProtocol) Run(ctx context.Context) (*Response, error) {
	var (
		terminal *Response
		attempt  int
		lastBody string
	)

	err := retry.Do(ctx, newPollBackoff(p.poll), func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		attempt++

		resp, err := p.client.Get(ctx, p.endpoint)
		if err != nil {
			p.metrics.RecordPollAttempt(ctx, PollOutcomeError)
			p.logger.Warn("status request failed",
				zap.Int("attempt", attempt),
				zap.String("error_class", ClassifyError(err)),
				zap.Error(err),
			)
			return err
		}

		lastBody = resp.Text()
		if lastBody == StatusCompleted {
			p.metrics.RecordPollAttempt(ctx, PollOutcomeCompleted)
			terminal = resp
			return nil
		}

		p.metrics.RecordPollAttempt(ctx, PollOutcomePending)
		p.logger.Debug("status not completed",
			zap.Int("attempt", attempt),
			zap.String("status", lastBody),
		)
		return retry.RetryableError(errStillPolling)
	})
	if err != nil {
		if errors.Is(err, errStillPolling) {
			return nil, &MaxAttemptsExceededError{
				MaxAttempts: p.poll.MaxAttempts,
				LastBody:    lastBody,
			}
		}
		return nil, err
	}

	p.logger.Debug("protocol completed", zap.Int("attempts", attempt))
	return terminal, nil
}
