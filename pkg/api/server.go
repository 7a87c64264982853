// Package api serves the annotated Mapper graph for interactive exploration:
// the rendered page, the renderer JSON, and ad-hoc recoloring queries.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/enrichment"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/graph"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/metrics"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/visualization"
)

// Server serves an annotated graph. Recolor queries mutate node color
// properties, so all graph access goes through the mutex.
type Server struct {
	graph     *graph.Graph
	results   *enrichment.Results
	positions map[uint64]visualization.Position
	pageTitle string

	metrics   *metrics.Registry
	logger    logging.Logger
	startTime time.Time
	port      int

	mu sync.RWMutex
}

// Options configures a Server.
type Options struct {
	Results   *enrichment.Results // nil disables term queries
	Positions map[uint64]visualization.Position
	PageTitle string
	Metrics   *metrics.Registry
	Logger    logging.Logger
	Port      int
}

// NewServer creates an API server over an annotated graph.
func NewServer(g *graph.Graph, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if opts.PageTitle == "" {
		opts.PageTitle = "Mapper enrichment"
	}

	stats := g.GetStatistics()
	opts.Metrics.SetGraphSize(stats.NodeCount, stats.LinkCount)

	return &Server{
		graph:     g,
		results:   opts.Results,
		positions: opts.Positions,
		pageTitle: opts.PageTitle,
		metrics:   opts.Metrics,
		logger:    opts.Logger.With(logging.Component("api")),
		startTime: time.Now(),
		port:      opts.Port,
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/graph", s.handleGraph)
	mux.HandleFunc("/api/color", s.handleColor)
	mux.HandleFunc("/api/terms", s.handleTerms)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	return s.loggingMiddleware(mux)
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.Int("port", s.port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}

// loggingMiddleware logs every request with its latency and status.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		elapsed := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Method, r.URL.Path, fmt.Sprintf("%d", recorder.status), elapsed)
		s.logger.Debug("request",
			logging.String("method", r.Method),
			logging.Path(r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Latency(elapsed),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
