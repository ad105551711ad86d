// Package insight drives the generative-text gateway: per-session summaries,
// practice-wide trend analysis, and per-patient outcome predictions. Gateway
// output is treated as opaque text; failures degrade to fixed fallback
// strings and never take the rest of the system down.
package insight

import (
	"context"
	"sort"
	"time"

	"github.com/manas360/practice-api/internal/domain"
	"github.com/manas360/practice-api/internal/llm"
	"github.com/rs/zerolog/log"
)

// Fallback strings returned alongside ErrGatewayUnavailable. Callers display
// these verbatim instead of surfacing a raw error.
const (
	FallbackSummary    = "An error occurred while generating the summary."
	FallbackTrends     = "Failed to analyze trends."
	FallbackPrediction = "Error generating predictive model."
)

// Cache key prefixes per insight kind. Summaries and predictions key on the
// entity they describe; the trend analysis covers the whole roster.
const (
	SummaryKeyPrefix    = "insight:summary:"
	PredictionKeyPrefix = "insight:prediction:"
	TrendsKey           = "insight:trends"
)

// Cache stores generated insight text between gateway calls. A miss returns
// ok=false, never an error.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, text string) error
	Invalidate(ctx context.Context, key string) error
}

const defaultRequestTimeout = 30 * time.Second

// predictionTemperature keeps prognosis output analytical and conservative
const predictionTemperature float32 = 0.3

// Service orchestrates insight generation. The cache is optional; when nil
// every call goes straight to the gateway.
type Service struct {
	repo    domain.SessionRepository
	router  *llm.Router
	cache   Cache
	timeout time.Duration
}

// NewService creates an insight service
func NewService(repo domain.SessionRepository, router *llm.Router, cache Cache, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Service{
		repo:    repo,
		router:  router,
		cache:   cache,
		timeout: timeout,
	}
}

// SessionSummary generates a clinical summary for one session and stores it
// on the session. On gateway failure the session is left untouched and the
// fallback text is returned with ErrGatewayUnavailable.
func (s *Service) SessionSummary(ctx context.Context, sessionID string) (string, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	cacheKey := SummaryKeyPrefix + sessionID
	if text, ok := s.cacheGet(ctx, cacheKey); ok {
		// The store stays authoritative even when the text came from cache
		if session.AISummary != text {
			if _, err := s.repo.SetSummary(ctx, sessionID, text); err != nil {
				return "", err
			}
		}
		return text, nil
	}

	text, err := s.generate(ctx, llm.BuildSummaryPrompt(session), nil)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("summary generation failed")
		return FallbackSummary, domain.ErrGatewayUnavailable
	}

	if _, err := s.repo.SetSummary(ctx, sessionID, text); err != nil {
		return "", err
	}
	s.cacheSet(ctx, cacheKey, text)
	return text, nil
}

// TrendAnalysis generates a short attendance/mood trend digest over the
// whole session list
func (s *Service) TrendAnalysis(ctx context.Context) (string, error) {
	if text, ok := s.cacheGet(ctx, TrendsKey); ok {
		return text, nil
	}

	text, err := s.generate(ctx, llm.BuildTrendsPrompt(s.repo.All(ctx)), nil)
	if err != nil {
		log.Error().Err(err).Msg("trend analysis failed")
		return FallbackTrends, domain.ErrGatewayUnavailable
	}

	s.cacheSet(ctx, TrendsKey, text)
	return text, nil
}

// OutcomePrediction generates a structured prognosis for one patient from
// their chronological session history
func (s *Service) OutcomePrediction(ctx context.Context, patient domain.Patient, history []domain.Session) (string, error) {
	cacheKey := PredictionKeyPrefix + patient.ID
	if text, ok := s.cacheGet(ctx, cacheKey); ok {
		return text, nil
	}

	temp := predictionTemperature
	text, err := s.generate(ctx, llm.BuildPredictionPrompt(patient, chronological(history)), &temp)
	if err != nil {
		log.Error().Err(err).Str("patient_id", patient.ID).Msg("outcome prediction failed")
		return FallbackPrediction, domain.ErrGatewayUnavailable
	}

	s.cacheSet(ctx, cacheKey, text)
	return text, nil
}

// InvalidateSession drops every cached text derived from the given session:
// its summary, its patient's prediction, and the practice-wide trends. Wired
// as a scheduling observer so mutations never serve stale insight text.
func (s *Service) InvalidateSession(session domain.Session) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	keys := []string{
		SummaryKeyPrefix + session.ID,
		PredictionKeyPrefix + session.PatientID,
		TrendsKey,
	}
	for _, key := range keys {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to invalidate insight cache")
		}
	}
}

func (s *Service) generate(ctx context.Context, prompt string, temperature *float32) (string, error) {
	provider, err := s.router.GetProvider("")
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := provider.Generate(ctx, llm.Request{Prompt: prompt, Temperature: temperature}, "")
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("tokens_used", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("insight generated")

	return resp.Text, nil
}

func (s *Service) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	return s.cache.Get(ctx, key)
}

func (s *Service) cacheSet(ctx context.Context, key, text string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, text); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache insight")
	}
}

// chronological orders history oldest first for the prediction prompt
func chronological(sessions []domain.Session) []domain.Session {
	out := make([]domain.Session, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
