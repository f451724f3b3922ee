package calendar

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HolidayFetcher получает карту праздников одним запросом.
// Повторы после сбоя транспорта выполняет вызывающий код.
type HolidayFetcher struct {
	client   RequestClient
	endpoint string
	logger   *zap.Logger
}

// NewHolidayFetcher создаёт HolidayFetcher поверх client.
func NewHolidayFetcher(client RequestClient, config Config) *HolidayFetcher {
	return newHolidayFetcher(client, config.withDefaults())
}

func newHolidayFetcher(client RequestClient, config Config) *HolidayFetcher {
	return &HolidayFetcher{
		client:   client,
		endpoint: config.Endpoint,
		logger:   config.Logger.With(zap.String("component", "holidays")),
	}
}

// GetHolidays возвращает карту праздников при статусе 200 и nil при любом
// другом статусе. Ошибка транспорта возвращается без изменений.
func (f *HolidayFetcher) GetHolidays(ctx context.Context) (HolidayMap, error) {
	f.logger.Debug("making a request", zap.String("url", f.endpoint))

	start := time.Now()
	resp, err := f.client.Get(ctx, f.endpoint)
	if err != nil {
		f.logger.Warn("holiday request failed",
			zap.String("url", f.endpoint),
			zap.String("error_class", ClassifyError(err)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	if resp == nil {
		return nil, ErrNilResponse
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Debug("holidays unavailable",
			zap.Int("status_code", resp.StatusCode),
			zap.Error(NewHTTPError(resp, f.endpoint)),
		)
		return nil, nil
	}

	var holidays HolidayMap
	if err := resp.DecodeJSON(&holidays); err != nil {
		return nil, &DecodeError{URL: f.endpoint, Err: err}
	}
	// JSON null
	if holidays == nil {
		holidays = HolidayMap{}
	}

	f.logger.Debug("request received",
		zap.Int("status_code", resp.StatusCode),
		zap.Int("holidays", len(holidays)),
		zap.Duration("duration", time.Since(start)),
	)

	return holidays, nil
}
