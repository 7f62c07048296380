// Package api exposes the collision-risk engine over HTTP/JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/signalsfoundry/collision-sentinel/internal/logging"
	"github.com/signalsfoundry/collision-sentinel/internal/observability"
)

// Server wraps the HTTP server and its routes.
type Server struct {
	httpServer *http.Server
	log        logging.Logger
}

// NewServer assembles the route table and middleware chain. collector may be
// nil when metrics are disabled.
func NewServer(addr string, h *Handlers, collector *observability.Collector, log logging.Logger) *Server {
	if log == nil {
		log = logging.Noop()
	}
	if h.Log == nil {
		h.Log = log
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /api/v1/satellites", h.handleSatellites)
	mux.HandleFunc("GET /api/v1/predict", h.handlePredict)
	mux.HandleFunc("POST /api/v1/refresh", h.handleRefresh)
	mux.HandleFunc("GET /api/v1/history", h.handleHistory)
	mux.HandleFunc("GET /api/v1/report", h.handleReport)
	if collector != nil {
		mux.Handle("GET /metrics", collector.Handler())
	}

	var handler http.Handler = mux
	if collector != nil {
		handler = collector.Middleware(handler)
	}
	handler = requestLogging(handler, log)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		log: log,
	}
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.log.Info(context.Background(), "http server listening", logging.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestLogging attaches a request-scoped logger with a request_id and
// emits one access line per request.
func requestLogging(next http.Handler, base logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, log := logging.WithRequestLogger(r.Context(), base)

		rec := &accessRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.Info(ctx, "http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Duration("elapsed", time.Since(start)),
		)
	})
}

type accessRecorder struct {
	http.ResponseWriter
	status int
}

func (r *accessRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
