// Package mock provides test doubles for the calendar RequestClient.
package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	calendar "github.com/schuna/calendar-client"
)

// ErrTimeout is a net.Error reporting a timeout, the usual transport failure in tests.
var ErrTimeout error = &timeoutError{}

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "mock: request timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

// Step is one scripted outcome of RequestClient.Get.
type Step struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Err        error
}

// Respond returns a step replying with status and body.
func Respond(status int, body string) Step {
	return Step{StatusCode: status, Body: []byte(body)}
}

// RespondText returns a 200 step with a plain body, e.g. a protocol status.
func RespondText(body string) Step {
	return Respond(http.StatusOK, body)
}

// RespondJSON returns a step with v encoded as JSON.
func RespondJSON(status int, v any) Step {
	data, err := json.Marshal(v)
	if err != nil {
		return Fail(err)
	}
	return Step{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       data,
	}
}

// Fail returns a step failing with err.
func Fail(err error) Step {
	return Step{Err: err}
}

// RequestClient replays scripted steps in order. When the queue is empty it
// uses the default step, or replies 404 if none is set.
type RequestClient struct {
	mu          sync.Mutex
	steps       []Step
	defaultStep *Step
	requests    []string
}

// NewRequestClient creates a RequestClient with the given script.
func NewRequestClient(steps ...Step) *RequestClient {
	return &RequestClient{steps: steps}
}

// Enqueue appends steps to the script.
func (c *RequestClient) Enqueue(steps ...Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = append(c.steps, steps...)
}

// SetDefault sets the step used once the script is exhausted.
func (c *RequestClient) SetDefault(step Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultStep = &step
}

// Get implements calendar.RequestClient.
func (c *RequestClient) Get(_ context.Context, url string) (*calendar.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, url)

	var step Step
	switch {
	case len(c.steps) > 0:
		step = c.steps[0]
		c.steps = c.steps[1:]
	case c.defaultStep != nil:
		step = *c.defaultStep
	default:
		step = Respond(http.StatusNotFound, "Not Found")
	}

	if step.Err != nil {
		return nil, step.Err
	}

	resp := calendar.NewResponse(step.StatusCode, append([]byte(nil), step.Body...))
	for key, values := range step.Header {
		resp.Header[key] = append([]string(nil), values...)
	}
	return resp, nil
}

// CallCount returns the number of Get calls.
func (c *RequestClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Requests returns the requested URLs in call order.
func (c *RequestClient) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

// Remaining returns the number of scripted steps not consumed yet.
func (c *RequestClient) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.steps)
}

// AssertCallCount asserts the number of Get calls.
func (c *RequestClient) AssertCallCount(t testing.TB, expected int) bool {
	t.Helper()
	return assert.Equal(t, expected, c.CallCount(), "unexpected number of requests")
}

// Reset clears the script, the default step and the history.
func (c *RequestClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = nil
	c.defaultStep = nil
	c.requests = nil
}
