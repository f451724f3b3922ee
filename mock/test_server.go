package mock

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// ServerResponse описывает ответ тестового сервера
type ServerResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       string
	Delay      time.Duration
}

// ServerRequest логирует информацию о запросе
type ServerRequest struct {
	Method    string
	Path      string
	Headers   http.Header
	Timestamp time.Time
}

// TestServer отвечает заготовленными ответами по порядку; после их исчерпания
// повторяет последний. Без заготовок отвечает пустой картой праздников.
type TestServer struct {
	*httptest.Server
	mu        sync.Mutex
	responses []ServerResponse
	next      int
	requests  []ServerRequest
}

// NewTestServer создаёт и запускает тестовый сервер
func NewTestServer(responses ...ServerResponse) *TestServer {
	ts := &TestServer{responses: responses}
	ts.Server = httptest.NewServer(http.HandlerFunc(ts.handle))
	return ts
}

func (ts *TestServer) handle(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	ts.requests = append(ts.requests, ServerRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		Headers:   r.Header.Clone(),
		Timestamp: time.Now(),
	})

	response := ServerResponse{StatusCode: http.StatusOK, Body: `{}`}
	if len(ts.responses) > 0 {
		idx := min(ts.next, len(ts.responses)-1)
		response = ts.responses[idx]
		ts.next++
	}
	ts.mu.Unlock()

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for k, v := range response.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(response.StatusCode)
	if response.Body != "" {
		_, _ = w.Write([]byte(response.Body))
	}
}

// URLFor возвращает абсолютный адрес пути на сервере
func (ts *TestServer) URLFor(path string) string {
	return ts.URL + path
}

// RequestCount возвращает количество полученных запросов
func (ts *TestServer) RequestCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.requests)
}

// LastRequest возвращает последний полученный запрос
func (ts *TestServer) LastRequest() *ServerRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.requests) == 0 {
		return nil
	}
	last := ts.requests[len(ts.requests)-1]
	return &last
}

// Reset сбрасывает состояние сервера
func (ts *TestServer) Reset() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.next = 0
	ts.requests = nil
}
