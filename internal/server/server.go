// Package server exposes the factorial strategies over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/logging"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

var tracer = otel.Tracer("github.com/agbru/factcalc/internal/server")

// FactorialResponse is the body of a successful /factorial request. Result is
// a decimal string so exact values of any size survive JSON.
type FactorialResponse struct {
	N          uint64  `json:"n"`
	Workers    int     `json:"workers"`
	Algorithm  string  `json:"algorithm"`
	Result     string  `json:"result"`
	DurationMs float64 `json:"duration_ms"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves /factorial, /health and /metrics.
type Server struct {
	factory  factorial.CalculatorFactory
	cfg      config.AppConfig
	security SecurityConfig
	metrics  *Metrics
	logger   logging.Logger
	http     *http.Server
}

// NewServer builds a server listening on cfg.ServerAddr. cfg supplies the
// default worker count, strategy and per-request timeout.
func NewServer(factory factorial.CalculatorFactory, cfg config.AppConfig, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Server{
		factory:  factory,
		cfg:      cfg,
		security: DefaultSecurityConfig(),
		metrics:  NewMetrics(),
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return SecurityMiddleware(s.security, s.metricsMiddleware(h))
	}
	mux.HandleFunc("/factorial", wrap(s.handleFactorial))
	mux.HandleFunc("/health", wrap(s.handleHealth))
	mux.HandleFunc("/metrics", wrap(s.handleMetrics))
	return mux
}

// Start serves until ctx is canceled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.http.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.metrics.RecordRequest(r.URL.Path, rec.code)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// factorialRequest is a validated /factorial query.
type factorialRequest struct {
	n       uint64
	workers int
	algo    string
}

func (s *Server) parseFactorialRequest(r *http.Request) (factorialRequest, error) {
	q := r.URL.Query()
	req := factorialRequest{workers: s.cfg.Workers, algo: s.cfg.Algo}

	raw := q.Get("n")
	if raw == "" {
		return req, apperrors.ValidationError{Field: "n", Message: "missing query parameter n"}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	switch {
	case err != nil:
		return req, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("invalid value %q", raw)}
	case n < 0:
		return req, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("negative integer value entered (%d)", n)}
	case uint64(n) > s.security.MaxNValue:
		return req, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("n exceeds the limit of %d", s.security.MaxNValue)}
	}
	req.n = uint64(n)

	if raw := q.Get("workers"); raw != "" {
		t, err := strconv.Atoi(raw)
		if err != nil || t < 1 || t > s.security.MaxWorkers {
			return req, apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("invalid number of threads (%s)", raw)}
		}
		req.workers = t
	}
	if req.workers < 1 {
		req.workers = config.EstimateOptimalWorkers()
	}

	if raw := q.Get("algo"); raw != "" {
		req.algo = raw
	}
	if req.algo == "" || req.algo == "all" {
		req.algo = factorial.DefaultAlgorithm
	}
	if req.algo == factorial.ExactAlgorithm && req.n > s.security.MaxExactNValue {
		return req, apperrors.ValidationError{
			Field:   "n",
			Message: fmt.Sprintf("n exceeds the limit of %d for algorithm %s", s.security.MaxExactNValue, req.algo),
		}
	}
	return req, nil
}

func (s *Server) handleFactorial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, err := s.parseFactorialRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	calc, err := s.factory.Get(req.algo)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := tracer.Start(r.Context(), "server.factorial")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("factorial.n", int64(req.n)),
		attribute.Int("factorial.workers", req.workers),
		attribute.String("factorial.algorithm", req.algo),
	)
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := calc.Calculate(ctx, nil, 0, req.n, factorial.Options{Workers: req.workers, Logger: s.logger})
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		s.logger.Error("calculation failed", err, logging.Uint64("n", req.n), logging.String("algo", req.algo))
		s.writeError(w, status, err.Error())
		return
	}
	s.metrics.ObserveCalculation(req.algo, duration)
	s.logger.Debug("calculation served",
		logging.Uint64("n", req.n),
		logging.Int("workers", req.workers),
		logging.String("algo", req.algo),
		logging.Float64("duration_ms", durationMs(duration)))

	writeJSON(w, http.StatusOK, FactorialResponse{
		N:          req.n,
		Workers:    req.workers,
		Algorithm:  req.algo,
		Result:     result.String(),
		DurationMs: durationMs(duration),
	})
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", errors.New(msg), logging.Int("status", status))
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
