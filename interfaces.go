package calendar

import (
	"context"
	"encoding/json"
	"net/http"
)

// RequestClient is the capability used by HolidayFetcher and PollingProtocol
// to reach the holiday service. Implementations return transport failures as
// errors; the callers never recover from them.
type RequestClient interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// RequestClientFunc adapts an ordinary function to the RequestClient interface.
type RequestClientFunc func(ctx context.Context, url string) (*Response, error)

// Get calls f(ctx, url).
func (f RequestClientFunc) Get(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// Response is a fully read reply of the holiday service.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewResponse builds a Response with an empty header set.
func NewResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Header:     make(http.Header),
		Body:       body,
	}
}

// Text returns the body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// DecodeJSON decodes the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// HolidayMap maps a calendar date ("12/25", "5/5") to the holiday name.
type HolidayMap map[string]string
