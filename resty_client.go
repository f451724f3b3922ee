package calendar

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// RestyRequestClient реализует RequestClient поверх существующего resty клиента.
// Повторы resty остаются на совести владельца клиента (по умолчанию выключены).
type RestyRequestClient struct {
	client *resty.Client
}

// NewRestyRequestClient оборачивает client; nil означает resty.New().
func NewRestyRequestClient(client *resty.Client) *RestyRequestClient {
	if client == nil {
		client = resty.New()
	}
	return &RestyRequestClient{client: client}
}

// Get выполняет GET запрос через resty.
func (c *RestyRequestClient) Get(ctx context.Context, url string) (*Response, error) {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
