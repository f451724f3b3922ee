package calendar

import (
	"math"
	"math/rand"
	"time"

	"github.com/sethvargo/go-retry"
)

// CalculateBackoffDelay вычисляет задержку перед попыткой attempt
// (exponential backoff с симметричным джиттером). Первая попытка не ждёт.
func CalculateBackoffDelay(attempt int, baseDelay, maxDelay time.Duration, jitter float64) time.Duration {
	if attempt <= 1 || baseDelay <= 0 {
		return 0
	}

	// baseDelay * 2^(attempt-2)
	delay := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt-2)))
	if delay > maxDelay || delay < 0 {
		delay = maxDelay
	}

	if jitter > 0 && jitter <= 1 && delay > 0 {
		if jitterRange := int64(float64(delay) * jitter); jitterRange > 0 {
			offset := time.Duration(rand.Int63n(jitterRange))
			if rand.Intn(2) == 0 {
				delay += offset
			} else {
				delay -= offset
			}
		}
	}

	if delay < 0 {
		delay = baseDelay
	}
	if delay > maxDelay {
		delay = maxDelay
	}

	return delay
}

// newPollBackoff строит политику ожидания между запросами протокола.
// Политика хранит состояние, поэтому создаётся на каждый запуск.
func newPollBackoff(cfg PollConfig) retry.Backoff {
	attempt := 1
	var b retry.Backoff = retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return CalculateBackoffDelay(attempt, cfg.Interval, cfg.MaxInterval, cfg.Jitter), false
	})

	if cfg.MaxAttempts > 0 {
		b = retry.WithMaxRetries(uint64(cfg.MaxAttempts-1), b)
	}

	return b
}
