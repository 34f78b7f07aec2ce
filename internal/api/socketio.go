package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/vk/gridcalc/internal/ctxlog"
)

// Socket.io event names.
const (
	EventEvaluate  = "evaluate"
	EventEvaluated = "evaluated"
)

func (s *Server) newSocketServer(ctx context.Context) *socket.Server {
	logger := ctxlog.FromContext(ctx)

	opts := socket.DefaultServerOptions()
	opts.SetCors(&types.Cors{Origin: s.corsOrigin(), Credentials: false})
	io := socket.NewServer(nil, opts)

	io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		connLogger := logger.With("socket_id", string(client.Id()))
		connLogger.Debug("socket.io client connected.")

		client.On(EventEvaluate, func(args ...any) {
			reqCtx := ctxlog.WithLogger(ctx, connLogger)
			resp := s.socketEvaluate(reqCtx, args)
			if err := client.Emit(EventEvaluated, resp); err != nil {
				connLogger.Warn("Failed to emit evaluation result.", "error", err)
			}
			if ack := ackOf(args); ack != nil {
				ack([]any{resp}, nil)
			}
		})
		client.On("disconnect", func(reason ...any) {
			connLogger.Debug("socket.io client disconnected.", "reason", reason)
		})
	})
	return io
}

func (s *Server) corsOrigin() any {
	origins := make([]any, 0, len(s.opts.CORSOrigins))
	for _, o := range s.opts.CORSOrigins {
		if o == "*" {
			return "*"
		}
		origins = append(origins, o)
	}
	return origins
}

// socketEvaluate answers an evaluate event. Request errors are reported in
// the response body rather than as a status.
func (s *Server) socketEvaluate(ctx context.Context, args []any) *EvaluateResponse {
	req, err := decodeSocketRequest(args)
	if err != nil {
		return &EvaluateResponse{Error: err.Error()}
	}
	resp, err := s.evaluate(ctx, req.Matrix.Strings())
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			return &EvaluateResponse{Error: reqErr.msg}
		}
		ctxlog.FromContext(ctx).Error("socket.io evaluation failed.", "error", err)
		return &EvaluateResponse{Error: "internal error"}
	}
	return resp
}

// decodeSocketRequest accepts either {"matrix": [...]} or a bare matrix as
// the first event argument.
func decodeSocketRequest(args []any) (*EvaluateRequest, error) {
	if len(args) == 0 {
		return nil, badRequest("evaluate event carries no payload")
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return nil, badRequest("invalid payload: %v", err)
	}
	var req EvaluateRequest
	if _, isList := args[0].([]any); isList {
		err = json.Unmarshal(raw, &req.Matrix)
	} else {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return nil, badRequest("invalid payload: %v", err)
	}
	return &req, nil
}

func ackOf(args []any) socket.Ack {
	if len(args) == 0 {
		return nil
	}
	if ack, ok := args[len(args)-1].(socket.Ack); ok {
		return ack
	}
	return nil
}
