// Package server provides the HTTP API for seidoku.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hyperjump/seidoku/internal/config"
	"github.com/hyperjump/seidoku/internal/evidence"
	"github.com/hyperjump/seidoku/internal/models"
	"github.com/hyperjump/seidoku/internal/search"
	"github.com/hyperjump/seidoku/internal/speech"
	"github.com/hyperjump/seidoku/internal/storage"
)

// Server is the HTTP server for the seidoku API.
type Server struct {
	storage   storage.Storage
	evidence  *evidence.Service
	speech    *speech.Service
	searchIdx *search.Index
	glossary  []models.GlossaryEntry
	claims    []models.VerifiableClaim
	serverCfg *config.ServerConfig
	searchCfg *config.SearchConfig
	validate  *validator.Validate
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	store storage.Storage,
	evidenceSvc *evidence.Service,
	speechSvc *speech.Service,
	searchIdx *search.Index,
	glossary []models.GlossaryEntry,
	claims []models.VerifiableClaim,
	serverCfg *config.ServerConfig,
	searchCfg *config.SearchConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		storage:   store,
		evidence:  evidenceSvc,
		speech:    speechSvc,
		searchIdx: searchIdx,
		glossary:  glossary,
		claims:    claims,
		serverCfg: serverCfg,
		searchCfg: searchCfg,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/api/sections", s.handleListSections)
	r.Get("/api/sections/{slug}", s.handleGetSection)
	r.Get("/api/sections/{slug}/annotated", s.handleAnnotateSection)
	r.Get("/api/glossary", s.handleGlossary)
	r.Get("/api/claims", s.handleClaims)
	r.Post("/api/evidence", s.handleEvidence)
	r.Post("/api/tts", s.handleTTS)
	r.Get("/api/tts/voices", s.handleVoices)
	r.Get("/api/search", s.handleSearch)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.serverCfg.Host, s.serverCfg.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
