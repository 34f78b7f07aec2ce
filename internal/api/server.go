package api

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/evaluator"
	"github.com/vk/gridcalc/internal/sheet"
)

const requestIDHeader = "X-Request-ID"

// Options configures a Server.
type Options struct {
	Limits      sheet.Limits
	Workers     int
	CORSOrigins []string
	SocketIO    bool
}

// Server serves the evaluation API.
type Server struct {
	opts Options
	eval *evaluator.Evaluator
	io   *socket.Server
}

// New returns a Server. The socket.io endpoint is created lazily by Handler.
func New(opts Options) *Server {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Server{opts: opts, eval: evaluator.New(opts.Workers)}
}

// Handler builds the routing tree. ctx must carry a logger; request loggers
// derive from it.
func (s *Server) Handler(ctx context.Context) http.Handler {
	logger := ctxlog.FromContext(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("POST /api/parse_cell", s.handleParseCell)
	mux.HandleFunc("POST /api/cell_to_index", s.handleCellToIndex)
	mux.HandleFunc("POST /api/read_cell", s.handleReadCell)
	mux.HandleFunc("GET /health", s.handleHealth)

	api := s.withCORS(s.withRequestContext(ctx, mux))

	if !s.opts.SocketIO {
		return api
	}
	root := http.NewServeMux()
	s.io = s.newSocketServer(ctx)
	root.Handle("/socket.io/", s.io.ServeHandler(nil))
	root.Handle("/", api)
	logger.Debug("socket.io endpoint mounted.", "path", "/socket.io/")
	return root
}

// Close releases the socket.io server, if one was created.
func (s *Server) Close() {
	if s.io == nil {
		return
	}
	s.io.Close(nil)
	s.io = nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestContext tags every request with an id and a logger carrying it.
func (s *Server) withRequestContext(base context.Context, next http.Handler) http.Handler {
	baseLogger := ctxlog.FromContext(base)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := baseLogger.With("request_id", id)
		ctx := ctxlog.WithLogger(r.Context(), logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		logger.Debug("Request served.",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// withCORS answers preflight requests and stamps CORS headers on the rest.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed := s.allowOrigin(origin); allowed != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Expose-Headers", requestIDHeader)
			if allowed != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			reqHeaders := r.Header.Get("Access-Control-Request-Headers")
			if reqHeaders == "" {
				reqHeaders = "Content-Type, " + requestIDHeader
			}
			h.Set("Access-Control-Allow-Headers", reqHeaders)
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) string {
	if slices.Contains(s.opts.CORSOrigins, "*") {
		return "*"
	}
	if origin == "" {
		return ""
	}
	for _, o := range s.opts.CORSOrigins {
		if strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}
