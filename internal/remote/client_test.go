package remote

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcalc/internal/api"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/sheet"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func startServer(t *testing.T) string {
	t.Helper()
	srv := api.New(api.Options{Limits: sheet.DefaultLimits, Workers: 2, CORSOrigins: []string{"*"}, SocketIO: true})
	ts := httptest.NewServer(srv.Handler(testContext()))
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return ts.URL
}

func TestClient_Evaluate(t *testing.T) {
	// --- Arrange ---
	client := &Client{URL: startServer(t), Timeout: 5 * time.Second}
	matrix := [][]string{{"2", "=A1*3"}, {"=1/0", "=A2+B1"}}

	// --- Act ---
	resp, err := client.Evaluate(testContext(), matrix)

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, resp.Success)
	require.Len(t, resp.Result, 2)
	require.NotNil(t, resp.Result[0][1])
	assert.Equal(t, 6.0, *resp.Result[0][1])
	assert.Nil(t, resp.Result[1][0])
	require.NotNil(t, resp.Errors[1][1])
	assert.Equal(t, "#DEP!", resp.Errors[1][1].Code)
	assert.Equal(t, matrix, resp.Original)
}

func TestClient_RequestErrorIsReported(t *testing.T) {
	client := &Client{URL: startServer(t), Timeout: 5 * time.Second}

	resp, err := client.Evaluate(testContext(), [][]string{})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Empty matrix provided", resp.Error)
}

func TestClient_InvalidURL(t *testing.T) {
	t.Parallel()

	client := &Client{URL: "localhost:5000"}
	_, err := client.Evaluate(testContext(), [][]string{{"1"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme and host")
}

func TestClient_ConnectionTimeout(t *testing.T) {
	t.Parallel()

	// Port 1 is never served.
	client := &Client{URL: "http://127.0.0.1:1", Timeout: 300 * time.Millisecond}
	_, err := client.Evaluate(testContext(), [][]string{{"1"}})

	require.Error(t, err)
}
