package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"stocksy/internal/interfaces"
	"stocksy/internal/logger"
	"stocksy/internal/store"
	"stocksy/internal/types"
)

const maxBodyBytes = 1 << 16

type Server struct {
	advisor         interfaces.Advisor
	addr            string
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	allowOrigin     string
}

func New(advisor interfaces.Advisor, cfg *store.Config) *Server {
	return &Server{
		advisor:         advisor,
		addr:            cfg.Server.Addr,
		requestTimeout:  cfg.Server.RequestTimeout,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		allowOrigin:     cfg.Server.AllowOrigin,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.health)
	mux.HandleFunc("/api/sentiment", s.handleSentiment)
	mux.HandleFunc("/api/backtest", s.handleBacktest)
	return mux
}

// Handler is Routes with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.withMiddleware(s.Routes())
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", s.addr)
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

	logger.Info(ctx, "Shutting down HTTP server", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	prompt, ok := s.readPrompt(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	report, err := s.advisor.Analyze(ctx, prompt)
	if err != nil {
		s.writeError(w, types.StatusCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	prompt, ok := s.readPrompt(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	report, err := s.advisor.Backtest(ctx, prompt)
	if err != nil {
		s.writeError(w, types.StatusCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// readPrompt enforces POST and decodes {"prompt": ...}. It writes the error response itself.
func (s *Server) readPrompt(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return "", false
	}

	var req promptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return "", false
	}
	return req.Prompt, true
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
