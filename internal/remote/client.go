// Package remote evaluates grids on a running gridcalc server over socket.io.
package remote

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/gridcalc/internal/api"
	"github.com/vk/gridcalc/internal/ctxlog"
)

const defaultTimeout = 10 * time.Second

// Client talks to one server.
type Client struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// opResult carries the outcome through the done channel.
type opResult struct {
	value *api.EvaluateResponse
	err   error
}

// Evaluate sends matrix as an evaluate event and waits for the evaluated
// reply.
func (c *Client) Evaluate(ctx context.Context, matrix [][]string) (*api.EvaluateResponse, error) {
	logger := ctxlog.FromContext(ctx).With("component", "remote", "url", c.URL)
	logger.Debug("Remote evaluation started.")
	defer logger.Debug("Remote evaluation finished.")

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("server URL %q must include a scheme and host", c.URL)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if p := strings.TrimSuffix(parsedURL.Path, "/"); p != "" {
		opts.SetPath(p + "/")
	}
	if c.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	namespace := c.Namespace
	if namespace == "" {
		namespace = "/"
	}

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	finish := func(res opResult) {
		select {
		case done <- res:
		default:
		}
	}

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected.", "sid", io.Id())
		if err := io.Emit(api.EventEvaluate, map[string]any{"matrix": matrix}); err != nil {
			finish(opResult{err: fmt.Errorf("failed to emit %s: %w", api.EventEvaluate, err)})
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("connection failed: %w", e)
			}
		}
		finish(opResult{err: err})
	})
	io.On(types.EventName(api.EventEvaluated), func(data ...any) {
		if len(data) == 0 {
			finish(opResult{err: fmt.Errorf("%s event carried no payload", api.EventEvaluated)})
			return
		}
		resp, err := decodeResponse(data[0])
		finish(opResult{value: resp, err: err})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", api.EventEvaluated)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

func decodeResponse(payload any) (*api.EvaluateResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode response: %w", err)
	}
	var resp api.EvaluateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}
