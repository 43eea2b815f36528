package proxy

import (
	"context"
	"net/http"
	"time"

	"github.com/skysurvey/ssc-view/internal/logging"
	"github.com/skysurvey/ssc-view/internal/metrics"
	"github.com/skysurvey/ssc-view/internal/version"
)

// Server wraps the HTTP server and its route table.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// NewServer builds the server with its full middleware chain:
// metrics, then request logging, then the router.
func NewServer(addr string, handler *Handler, logger *logging.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "ssc-proxy",
			"version": version.Version,
		})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/get-satellite-locations", handler.Locations)
	mux.HandleFunc("GET /api/observatories", handler.Observatories)

	chain := metrics.Middleware(loggingMiddleware(logger, mux))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      chain,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the composed handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		// Health probes are noisy at info level.
		log := logger.Info
		if r.URL.Path == "/healthz" {
			log = logger.Debug
		}
		log("%s %s status=%d duration=%s remote=%s",
			r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), r.RemoteAddr)
	})
}
