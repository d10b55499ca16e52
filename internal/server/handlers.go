package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hyperjump/seidoku/internal/annotate"
	"github.com/hyperjump/seidoku/internal/evidence"
	"github.com/hyperjump/seidoku/internal/speech"
	"github.com/hyperjump/seidoku/internal/storage"
)

type evidenceRequest struct {
	Query   string `json:"query" validate:"required,max=500"`
	ClaimID string `json:"claimId" validate:"required"`
}

type ttsRequest struct {
	Slug string `json:"slug" validate:"required"`
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.storage.GetSections(r.Context())
	if err != nil {
		s.logger.Error("list sections failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load sections")
		return
	}
	s.respondJSON(w, http.StatusOK, sections)
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	section, err := s.storage.GetSectionBySlug(r.Context(), slug)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Section not found")
		return
	}
	if err != nil {
		s.logger.Error("get section failed", zap.String("slug", slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load section")
		return
	}
	s.respondJSON(w, http.StatusOK, section)
}

func (s *Server) handleAnnotateSection(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	section, err := s.storage.GetSectionBySlug(r.Context(), slug)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Section not found")
		return
	}
	if err != nil {
		s.logger.Error("annotate section failed", zap.String("slug", slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load section")
		return
	}
	segments := annotate.Annotate(section.Content, s.glossary, s.claims)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"slug":     section.Slug,
		"title":    section.Title,
		"segments": segments,
	})
}

func (s *Server) handleGlossary(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.glossary)
}

func (s *Server) handleClaims(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.claims)
}

func (s *Server) handleEvidence(w http.ResponseWriter, r *http.Request) {
	var req evidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := s.validationErrors(req); len(errs) > 0 {
		s.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid request",
			"errors":  errs,
		})
		return
	}

	s.logger.Debug("evidence request", zap.String("claim_id", req.ClaimID))
	result, err := s.evidence.Verify(r.Context(), req.Query, req.ClaimID)
	status := http.StatusOK
	switch {
	case errors.Is(err, evidence.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, evidence.ErrUpstream):
		status = http.StatusBadGateway
	case err != nil:
		status = http.StatusInternalServerError
	}
	s.respondJSON(w, status, result)
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := s.validationErrors(req); len(errs) > 0 {
		s.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid request",
			"errors":  errs,
		})
		return
	}

	result, err := s.speech.Synthesize(r.Context(), req.Slug)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "Section not found")
		return
	case errors.Is(err, speech.ErrNotConfigured):
		s.respondError(w, http.StatusServiceUnavailable, "Speech synthesis not configured")
		return
	case errors.Is(err, speech.ErrUpstream):
		s.respondError(w, http.StatusBadGateway, "Speech synthesis failed")
		return
	case err != nil:
		s.logger.Error("tts failed", zap.String("slug", req.Slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Speech synthesis error")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	if result.Cached {
		w.Header().Set("X-Audio-Cache", "hit")
	} else {
		w.Header().Set("X-Audio-Cache", "miss")
	}
	if result.Partial {
		w.Header().Set("X-Audio-Partial", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Audio)
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"voices":  speech.Voices(),
		"default": speech.DefaultVoice,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := s.searchCfg.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	if limit > s.searchCfg.MaxLimit {
		limit = s.searchCfg.MaxLimit
	}

	results, err := s.searchIdx.Search(query, limit)
	if err != nil {
		s.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// validationErrors runs struct validation and renders each failure as a
// readable field message.
func (s *Server) validationErrors(req interface{}) []string {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", field))
		case "max":
			out = append(out, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", field))
		}
	}
	return out
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"message": message})
}
