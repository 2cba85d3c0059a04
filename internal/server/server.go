// Package server exposes the PDF parsing handler over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/handler"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/logger"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

// MsgBodyTooLarge is returned with 413 when the body exceeds MaxRequestBytes.
const MsgBodyTooLarge = "Request body too large"

// RequestIDHeader carries the per-request id in responses.
const RequestIDHeader = "X-Request-ID"

// Parser handles a raw request body.
type Parser interface {
	Handle(ctx context.Context, body []byte) handler.Response
}

// Availability reports whether OCR is usable.
type Availability interface {
	Available() bool
}

// Config holds server settings.
type Config struct {
	Addr            string
	MaxRequestBytes int64
	OCREngine       string
	ShutdownTimeout time.Duration
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	OCREngine    string `json:"ocr_engine"`
	OCRAvailable bool   `json:"ocr_available"`
}

// Server routes HTTP requests to the parser.
type Server struct {
	cfg    Config
	parser Parser
	ocr    Availability
	router chi.Router
	log    zerolog.Logger
}

// New creates a Server and registers its routes.
func New(cfg Config, parser Parser, ocr Availability, log zerolog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	s := &Server{cfg: cfg, parser: parser, ocr: ocr, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Post("/", s.handleParse)
	r.Post("/parse", s.handleParse)

	s.router = r
	return s
}

// Handler returns the routed http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger assigns a request id and attaches a request logger to the
// context.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		reqLog := logger.WithRequestID(s.log, requestID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(reqLog.WithContext(r.Context())))

		reqLog.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		OCREngine:    s.cfg.OCREngine,
		OCRAvailable: s.ocr.Available(),
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: MsgBodyTooLarge})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: handler.FunctionErrorPrefix + err.Error()})
		return
	}

	resp := s.parser.Handle(r.Context(), body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		reqLog := logger.FromContext(r.Context(), s.log)
		reqLog.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
