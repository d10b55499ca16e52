// Package speech implements the text-to-speech gateway: it strips a section's
// markdown to prose, chunks it, synthesizes each chunk through an OpenAI-style
// speech API, and caches the concatenated audio per slug.
package speech

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/hyperjump/seidoku/internal/config"
	"github.com/hyperjump/seidoku/internal/storage"
)

// ErrNotConfigured indicates no TTS credential is set. Unlike the evidence
// gateway there is no degraded content to offer, so this is a hard stop.
var ErrNotConfigured = errors.New("speech backend not configured")

// ErrUpstream indicates every attempted chunk failed (or there was nothing to
// synthesize), so no audio could be produced.
var ErrUpstream = errors.New("speech synthesis failed")

// Result is a completed synthesis. Partial is set when at least one chunk
// failed but others succeeded; the audio is still playable.
type Result struct {
	Audio   []byte
	Cached  bool
	Partial bool
	Chunks  int
	Failed  int
}

// Voice describes one selectable TTS voice.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultVoice is used when the config does not pick one.
const DefaultVoice = "alloy"

// Voices returns the static capability listing for the voices endpoint.
func Voices() []Voice {
	return []Voice{
		{ID: "alloy", Name: "Alloy", Description: "Neutral, balanced narrator"},
		{ID: "echo", Name: "Echo", Description: "Calm, measured male voice"},
		{ID: "fable", Name: "Fable", Description: "Warm, expressive storyteller"},
		{ID: "onyx", Name: "Onyx", Description: "Deep, authoritative male voice"},
		{ID: "nova", Name: "Nova", Description: "Bright, energetic female voice"},
		{ID: "shimmer", Name: "Shimmer", Description: "Soft, soothing female voice"},
	}
}

// Service is the speech gateway.
type Service struct {
	client     *openai.Client
	store      storage.Storage
	cache      *AudioCache
	voice      openai.SpeechVoice
	model      openai.SpeechModel
	maxInput   int
	chunkChars int
	logger     *zap.Logger
}

// NewService creates a speech gateway from config. With no API key the client
// stays nil and Synthesize reports ErrNotConfigured (cached audio is still
// served).
func NewService(cfg config.SpeechConfig, store storage.Storage, logger *zap.Logger) *Service {
	var client *openai.Client
	if cfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		if cfg.TimeoutSeconds > 0 {
			clientConfig.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
		}
		client = openai.NewClientWithConfig(clientConfig)
	}
	return &Service{
		client:     client,
		store:      store,
		cache:      NewAudioCache(time.Duration(cfg.CacheTTLMinutes) * time.Minute),
		voice:      openai.SpeechVoice(cfg.Voice),
		model:      openai.SpeechModel(cfg.Model),
		maxInput:   cfg.MaxInputChars,
		chunkChars: cfg.ChunkChars,
		logger:     logger,
	}
}

// Synthesize returns MP3 audio for the section with the given slug.
//
// The cache is consulted before the credential check, so previously
// synthesized sections keep playing even if the key is later removed. Chunks
// are synthesized sequentially; a failed chunk is logged and skipped so
// partial audio still reaches the listener. Error classes: ErrNotConfigured,
// storage.ErrNotFound, ErrUpstream.
func (s *Service) Synthesize(ctx context.Context, slug string) (*Result, error) {
	if data, ok := s.cache.Get(slug); ok {
		return &Result{Audio: data, Cached: true}, nil
	}

	if s.client == nil {
		return nil, ErrNotConfigured
	}

	section, err := s.store.GetSectionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	plain := StripMarkdown(section.Content)
	if s.maxInput > 0 && len(plain) > s.maxInput {
		cut := s.maxInput
		for cut > 0 && !utf8.RuneStart(plain[cut]) {
			cut--
		}
		plain = plain[:cut]
	}
	chunks := ChunkText(plain, s.chunkChars)

	jobID := uuid.New().String()[:8]
	var buf bytes.Buffer
	attempted, failed := 0, 0
	for i, chunk := range chunks {
		if len(bytes.TrimSpace([]byte(chunk))) == 0 {
			continue
		}
		attempted++
		data, err := s.synthesizeChunk(ctx, chunk)
		if err != nil {
			failed++
			s.logger.Warn("chunk synthesis failed",
				zap.String("job_id", jobID),
				zap.String("slug", slug),
				zap.Int("chunk", i),
				zap.Error(err),
			)
			continue
		}
		buf.Write(data)
	}

	if attempted == 0 || failed == attempted {
		s.logger.Error("synthesis produced no audio",
			zap.String("job_id", jobID),
			zap.String("slug", slug),
			zap.Int("chunks", attempted),
		)
		return nil, ErrUpstream
	}

	audio := buf.Bytes()
	s.cache.Set(slug, audio)
	s.logger.Info("section synthesized",
		zap.String("job_id", jobID),
		zap.String("slug", slug),
		zap.Int("chunks", attempted),
		zap.Int("failed", failed),
		zap.Int("bytes", len(audio)),
	)
	return &Result{Audio: audio, Partial: failed > 0, Chunks: attempted, Failed: failed}, nil
}

func (s *Service) synthesizeChunk(ctx context.Context, chunk string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          chunk,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	return io.ReadAll(resp)
}
