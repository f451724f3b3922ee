package mock

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestClient_ReplaysStepsInOrder(t *testing.T) {
	t.Parallel()

	failure := errors.New("boom")
	client := NewRequestClient(RespondText("start"), Fail(failure), Respond(http.StatusAccepted, "busy"))
	ctx := context.Background()

	resp, err := client.Get(ctx, "http://localhost/a")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "start", resp.Text())

	_, err = client.Get(ctx, "http://localhost/b")
	assert.Same(t, failure, err)

	resp, err = client.Get(ctx, "http://localhost/c")
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.Equal(t, 3, client.CallCount())
	assert.Equal(t, []string{"http://localhost/a", "http://localhost/b", "http://localhost/c"}, client.Requests())
	assert.Zero(t, client.Remaining())
}

func TestRequestClient_FallbackWithoutScript(t *testing.T) {
	t.Parallel()

	client := NewRequestClient()

	resp, err := client.Get(context.Background(), "http://localhost/api/holidays")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	client.SetDefault(RespondText("idle"))
	for i := 0; i < 3; i++ {
		resp, err = client.Get(context.Background(), "http://localhost/api/holidays")
		require.NoError(t, err)
		assert.Equal(t, "idle", resp.Text())
	}
	client.AssertCallCount(t, 4)
}

func TestRequestClient_ResponsesAreIndependent(t *testing.T) {
	t.Parallel()

	client := NewRequestClient()
	client.SetDefault(RespondJSON(http.StatusOK, map[string]string{"12/25": "Christmas"}))

	first, err := client.Get(context.Background(), "u")
	require.NoError(t, err)
	first.Body[0] = 'X'
	first.Header.Set("Content-Type", "text/plain")

	second, err := client.Get(context.Background(), "u")
	require.NoError(t, err)
	assert.JSONEq(t, `{"12/25":"Christmas"}`, second.Text())
	assert.Equal(t, "application/json", second.Header.Get("Content-Type"))
}

func TestRequestClient_EnqueueAndReset(t *testing.T) {
	t.Parallel()

	client := NewRequestClient(RespondText("a"))
	client.Enqueue(RespondText("b"))
	assert.Equal(t, 2, client.Remaining())

	_, _ = client.Get(context.Background(), "u")
	client.Reset()

	assert.Zero(t, client.CallCount())
	assert.Zero(t, client.Remaining())
	assert.Empty(t, client.Requests())
}

func TestRespondJSON_MarshalFailure(t *testing.T) {
	t.Parallel()

	step := RespondJSON(http.StatusOK, make(chan int))
	assert.Error(t, step.Err)
}

func TestErrTimeout(t *testing.T) {
	t.Parallel()

	var netErr net.Error
	require.ErrorAs(t, ErrTimeout, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestTestServer_ReplaysAndRepeatsLast(t *testing.T) {
	t.Parallel()

	ts := NewTestServer(
		ServerResponse{StatusCode: http.StatusOK, Body: "start"},
		ServerResponse{StatusCode: http.StatusOK, Body: "completed"},
	)
	defer ts.Close()

	var bodies []string
	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URLFor("/api/holidays"))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		bodies = append(bodies, string(body))
	}

	assert.Equal(t, []string{"start", "completed", "completed"}, bodies)
	assert.Equal(t, 3, ts.RequestCount())
	assert.Equal(t, "/api/holidays", ts.LastRequest().Path)

	ts.Reset()
	assert.Zero(t, ts.RequestCount())
	assert.Nil(t, ts.LastRequest())
}
