// Package logserver serves agent log tails and accepts ideas over the same
// plain-text contract as the orchestration back end, for local runs.
package logserver

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"idea-dashboard/internal/client"
	"idea-dashboard/internal/config"
	"idea-dashboard/pkg/logger"
	"idea-dashboard/pkg/models"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	OrchestrationAgent = "orchestration-service"
	logSuffix          = ".out"
	// MaxLines bounds the lines query; larger requests are clamped.
	MaxLines = 10000
)

type Server struct {
	server  *http.Server
	dir     string
	marker  string
	allowed map[string]struct{}
	mu      sync.Mutex // serialises appends to the orchestration log
}

// New serves the logs of the given agents plus the orchestration service.
func New(cfg config.LogServerConfig, agents []string) *Server {
	s := &Server{
		dir:     cfg.Dir,
		marker:  cfg.Marker,
		allowed: map[string]struct{}{OrchestrationAgent: {}},
	}
	for _, a := range agents {
		s.allowed[a] = struct{}{}
	}

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(logger.HTTPMiddleware())
	r.Get("/api/logs/{agent}", s.getAgentLog)
	r.Post("/api/product-ideas/orchestrate", s.orchestrate)
	return r
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Str("dir", s.dir).Msg("log server listening")
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) getAgentLog(w http.ResponseWriter, r *http.Request) {
	agent := chi.URLParam(r, "agent")
	if _, ok := s.allowed[agent]; !ok {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "Unknown agent: "+agent)
		return
	}

	lines := models.LogWindow
	if v := r.URL.Query().Get("lines"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			render.Status(r, http.StatusBadRequest)
			render.PlainText(w, r, "Invalid lines: "+v)
			return
		}
		lines = min(n, MaxLines)
	}

	name := agent + logSuffix
	collected, err := tail(filepath.Join(s.dir, name), lines, s.marker)
	switch {
	case errors.Is(err, os.ErrNotExist):
		render.PlainText(w, r, "Log file not found: "+name)
	case err != nil:
		render.PlainText(w, r, "Failed to read log: "+err.Error())
	default:
		render.PlainText(w, r, strings.Join(collected, "\n"))
	}
}

func (s *Server) orchestrate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "unable to read body")
		return
	}
	idea, err := models.ValidateIdea(string(body))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, err.Error())
		return
	}

	corr := correlationID(r.Header.Get(client.CorrelationHeader))
	l := log.With().Str(logger.CorrelationField, corr).Logger()
	l.Info().Msg("received product development request")

	if err := s.record(corr, idea); err != nil {
		l.Error().Err(err).Msg("product development orchestration failed")
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "Orchestration failed: "+err.Error())
		return
	}
	render.PlainText(w, r, fmt.Sprintf("Accepted product idea [%s]", corr))
}

// record appends the idea to the orchestration service log so it shows up
// in that agent's tail.
func (s *Server) record(corr, idea string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.dir, OrchestrationAgent+logSuffix), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s INFO %s.orchestration [%s] Received product development request: %s\n",
		time.Now().UTC().Format(time.RFC3339), s.marker, corr, strings.ReplaceAll(idea, "\n", " "))
	_, err = f.WriteString(line)
	return err
}

// correlationID shortens the caller's id, or makes a new one.
func correlationID(header string) string {
	id, err := uuid.Parse(header)
	if err != nil {
		id = uuid.New()
	}
	return id.String()[:8]
}
