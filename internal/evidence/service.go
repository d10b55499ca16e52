// Package evidence implements the claim-verification gateway: it proxies a
// Perplexity-style chat-completions API and degrades to a manual search link
// whenever the backend is unconfigured or fails.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/hyperjump/seidoku/internal/config"
	"github.com/hyperjump/seidoku/internal/models"
	"github.com/hyperjump/seidoku/pkg/utils"
)

// ErrNotConfigured indicates no API credential is set; the returned result is
// the degraded fallback, not an empty response.
var ErrNotConfigured = errors.New("evidence backend not configured")

// ErrUpstream indicates the backend answered with a non-success status.
var ErrUpstream = errors.New("evidence backend returned an error")

const systemPrompt = "You are a research verification assistant. Provide concise, factual evidence " +
	"with specific data points, dates, and sources. Focus on verifiable facts. Keep responses under " +
	"200 words. If you find evidence that contradicts the claim, state that clearly."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model                  string        `json:"model"`
	Messages               []chatMessage `json:"messages"`
	Temperature            float64       `json:"temperature"`
	TopP                   float64       `json:"top_p"`
	ReturnImages           bool          `json:"return_images"`
	ReturnRelatedQuestions bool          `json:"return_related_questions"`
	Stream                 bool          `json:"stream"`
	FrequencyPenalty       float64       `json:"frequency_penalty"`
}

type chatResponse struct {
	Model     string   `json:"model"`
	Citations []string `json:"citations"`
	Choices   []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Service is the evidence gateway. Stateless across calls except for a short
// TTL cache of successful upstream answers, so repeated clicks on the same
// claim do not re-query the backend.
type Service struct {
	client *resty.Client
	apiKey string
	model  string
	cache  *gocache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates an evidence gateway from config.
func NewService(cfg config.EvidenceConfig, logger *zap.Logger) *Service {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return &Service{
		client: client,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		cache:  gocache.New(ttl, 2*ttl),
		ttl:    ttl,
		logger: logger,
	}
}

// SearchURL returns the manual-verification link for a query. It is attached
// to every response, success or failure.
func SearchURL(query string) string {
	return "https://duckduckgo.com/?q=" + url.QueryEscape(query)
}

// Verify looks up evidence for a claim. It always returns a usable
// EvidenceResult; a non-nil error classifies why the result is a fallback
// (ErrNotConfigured, ErrUpstream, or a wrapped network error) so the handler
// can pick a status code. It never propagates a raw upstream failure.
func (s *Service) Verify(ctx context.Context, query, claimID string) (*models.EvidenceResult, error) {
	searchURL := SearchURL(query)

	if s.apiKey == "" {
		return &models.EvidenceResult{
			ClaimID:   claimID,
			Message:   "Evidence search not configured",
			Fallback:  true,
			SearchURL: searchURL,
		}, ErrNotConfigured
	}

	cacheKey := claimID + "|" + query
	if cached, found := s.cache.Get(cacheKey); found {
		result := *cached.(*models.EvidenceResult)
		return &result, nil
	}

	body := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Verify this claim with evidence: %s", query)},
		},
		Temperature:      0.1,
		TopP:             0.9,
		FrequencyPenalty: 1,
	}

	var out chatResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		s.logger.Error("evidence request failed", zap.String("claim_id", claimID), zap.Error(err))
		return &models.EvidenceResult{
			ClaimID:   claimID,
			Message:   "Evidence search error",
			Fallback:  true,
			SearchURL: searchURL,
		}, fmt.Errorf("evidence request failed: %w", err)
	}
	if resp.IsError() {
		s.logger.Error("evidence backend error",
			zap.String("claim_id", claimID),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", utils.Truncate(resp.String(), 500)),
		)
		return &models.EvidenceResult{
			ClaimID:   claimID,
			Message:   "Evidence search failed",
			Fallback:  true,
			SearchURL: searchURL,
		}, ErrUpstream
	}

	answer := "No evidence found."
	if len(out.Choices) > 0 && out.Choices[0].Message.Content != "" {
		answer = out.Choices[0].Message.Content
	}
	result := &models.EvidenceResult{
		ClaimID:   claimID,
		Evidence:  answer,
		Citations: out.Citations,
		Model:     out.Model,
		SearchURL: searchURL,
	}
	s.cache.Set(cacheKey, result, s.ttl)

	resultCopy := *result
	return &resultCopy, nil
}
