// Package server provides the HTTP API for candidate analysis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/SomeshSampat2/AgentHire/internal/analysis"
	"github.com/SomeshSampat2/AgentHire/internal/enrichment"
	"github.com/SomeshSampat2/AgentHire/internal/logger"
	"github.com/SomeshSampat2/AgentHire/internal/server/ratelimit"
	"github.com/SomeshSampat2/AgentHire/internal/types"
)

// Service is the analysis functionality the handlers expose.
type Service interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error)
	UploadResume(ctx context.Context, filename string, content []byte) (*analysis.UploadResult, error)
	ExtractJob(ctx context.Context, jobURL string) (*types.JobDescriptionRecord, error)
	ValidateJob(job *types.JobDescriptionRecord) (*analysis.ValidationReport, error)
	Cleanup(fileID string) error
	BulkCleanup(maxAgeHours float64) int
	Enrich(ctx context.Context, req enrichment.Request) (types.ProfileEnrichment, error)
}

// Config holds the HTTP settings.
type Config struct {
	Port        int
	APIPrefix   string
	CORSOrigins []string
	MaxFileSize int64
	RateLimit   *ratelimit.Config
}

// Server serves the API.
type Server struct {
	httpServer  *http.Server
	svc         Service
	cfg         Config
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	origins     map[string]bool
	allOrigins  bool
	now         func() time.Time
}

// New builds a Server around svc.
func New(cfg Config, svc Service, log *zap.Logger) *Server {
	s := &Server{
		svc:         svc,
		cfg:         cfg,
		logger:      logger.OrNop(log).Named("http"),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		origins:     make(map[string]bool, len(cfg.CORSOrigins)),
		now:         time.Now,
	}
	for _, o := range cfg.CORSOrigins {
		if o == "*" {
			s.allOrigins = true
		}
		s.origins[o] = true
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      300 * time.Second, // analysis makes several LLM calls
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed API with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	p := s.cfg.APIPrefix

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	if p != "" {
		mux.HandleFunc("GET "+p+"/{$}", s.handleRoot)
		mux.HandleFunc("GET "+p+"/health", s.handleHealth)
	}

	mux.HandleFunc("POST "+p+"/comprehensive-analysis", s.handleComprehensiveAnalysis)
	mux.HandleFunc("POST "+p+"/upload-resume", s.handleUploadResume)
	mux.HandleFunc("POST "+p+"/extract-job-from-url", s.handleExtractJob)
	mux.HandleFunc("POST "+p+"/validate-job-description", s.handleValidateJob)
	mux.HandleFunc("DELETE "+p+"/cleanup-file/{file_id}", s.handleCleanupFile)
	mux.HandleFunc("POST "+p+"/bulk-cleanup", s.handleBulkCleanup)
	mux.HandleFunc("POST "+p+"/enrich-profile", s.handleEnrichProfile)

	return s.withCORS(s.withLogging(s.withRateLimit(mux)))
}

// Start serves until ctx ends, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr), zap.String("api_prefix", s.cfg.APIPrefix))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS answers preflight requests and tags responses for allowed origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (s.allOrigins || s.origins[origin]) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs each request once it completes.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client", clientID(r)),
		)
	})
}

// withRateLimit rejects clients that exceeded their budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientID(r)
		allowed, info := s.rateLimiter.Allow(client, r.URL.Path, r.Method)

		if info.Limit > 0 {
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds()+0.5)))
			}
			s.logger.Warn("rate limit exceeded",
				zap.String("client", client),
				zap.String("path", r.URL.Path),
				zap.Int("limit", info.Limit),
			)
			s.jsonResponse(w, http.StatusTooManyRequests, ErrorResponse{
				Error:      "Rate limit exceeded. Please try again later.",
				StatusCode: http.StatusTooManyRequests,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes the error envelope for err.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Warn("request rejected", fields...)
	}
	s.jsonResponse(w, status, ErrorResponse{Error: message, StatusCode: status})
}
