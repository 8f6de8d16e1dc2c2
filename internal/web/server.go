// Package web serves the environment protocol over HTTP.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"sync"

	"github.com/metalagman/flowdebug/internal/cases"
	"github.com/metalagman/flowdebug/internal/env"
	"github.com/rs/zerolog/log"
)

const maxActionBytes = 64 << 10

// Server provides the HTTP handlers around one engine.
type Server struct {
	store *cases.Store

	mu     sync.Mutex
	engine *env.Engine
}

// NewServer creates a new HTTP server.
func NewServer(store *cases.Store, engine *env.Engine) *Server {
	return &Server{store: store, engine: engine}
}

//go:embed templates/*.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Routes returns the router for the environment API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /step", s.handleStep)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	if err := indexTmpl.Execute(w, s.store.All()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	obs := s.engine.Reset()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, obs)
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleStep scores malformed actions like any other invalid action,
// so only protocol misuse is reported as an HTTP error.
// Oversized bodies are rejected without consuming an attempt.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	action, err := env.ParseAction(body)
	if err != nil {
		log.Debug().Err(err).Msg("http: malformed action")
	}

	s.mu.Lock()
	res, err := s.engine.Step(action)
	s.mu.Unlock()
	if errors.Is(err, env.ErrNotReset) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("http: write response")
	}
}
