// internal/service/assessment.go

// Package service orchestrates one assessment end to end: validate,
// score, assemble the prompt, generate advisory text, and shape the
// response payload.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"assessment-engine/internal/advisory"
	"assessment-engine/internal/common/database"
	apperrors "assessment-engine/internal/common/errors"
	"assessment-engine/internal/common/logger"
	"assessment-engine/internal/common/metrics"
	"assessment-engine/internal/common/observability"
	"assessment-engine/internal/models"
	"assessment-engine/internal/refdata"
	"assessment-engine/internal/scoring"
)

// TextGenerator produces advisory text from an assembled prompt.
// *advisory.Generator satisfies it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	store     *refdata.Store
	engine    *scoring.Engine
	builder   *advisory.Builder
	generator TextGenerator
	// cache is optional; nil disables caching entirely.
	cache    *database.RedisClient
	cacheTTL time.Duration
	logger   logger.Logger
	obs      *observability.Observability
}

type Options struct {
	Cache    *database.RedisClient
	CacheTTL time.Duration
}

func New(store *refdata.Store, engine *scoring.Engine, builder *advisory.Builder,
	generator TextGenerator, log logger.Logger, obs *observability.Observability,
	opts Options) *Service {
	return &Service{
		store:     store,
		engine:    engine,
		builder:   builder,
		generator: generator,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		logger:    log.WithFields(map[string]interface{}{"component": "assessment-service"}),
		obs:       obs,
	}
}

// Assess scores a submission and returns the full response payload.
// Generation failures never fail the request: the recommendations field
// carries an inline error string and everything else is intact.
func (s *Service) Assess(ctx context.Context, sub models.Submission) (*models.AssessResponse, error) {
	start := time.Now()

	if err := s.validate(sub); err != nil {
		s.obs.RecordRequest(ctx, "rejected")
		return nil, err
	}

	scoreStart := time.Now()
	report := s.engine.Calculate(sub)
	metrics.AssessmentDuration.WithLabelValues("scoring").Observe(time.Since(scoreStart).Seconds())

	recommendations := s.generateRecommendations(ctx, report, sub)

	details := make(map[string]models.CategoryDetail, len(report.CategoryScores))
	for area, cs := range report.CategoryScores {
		details[area] = models.CategoryDetail{
			Score:             cs.NormalizedScore,
			Tier:              cs.Tier,
			QuestionsAnswered: cs.QuestionsAnswered,
			TotalQuestions:    cs.TotalQuestions,
		}
	}

	resp := &models.AssessResponse{
		AssessmentID:       uuid.New().String(),
		OverallScore:       report.OverallScore,
		OverallTier:        report.OverallTier,
		PriorityCategories: report.PriorityCategories,
		CategoryDetails:    details,
		Recommendations:    recommendations,
		TierDistribution:   scoring.TierDistribution(report),
	}

	metrics.AssessmentsScored.WithLabelValues(report.OverallTier).Inc()
	metrics.AssessmentDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	s.obs.RecordRequest(ctx, "ok")
	s.obs.RecordDuration(ctx, time.Since(start), "ok")

	s.logger.Info("assessment completed", map[string]interface{}{
		"assessmentId": resp.AssessmentID,
		"overallTier":  resp.OverallTier,
		"overallScore": resp.OverallScore,
		"catalyst":     sub.Catalyst,
		"answers":      len(sub.Answers),
	})

	return resp, nil
}

// validate re-checks what the transport schema already enforced, so the
// service stays safe when called from other entry points.
func (s *Service) validate(sub models.Submission) error {
	if !models.IsKnownCatalyst(sub.Catalyst) {
		return apperrors.NewUnknownCatalystError(sub.Catalyst)
	}
	for _, answer := range sub.Answers {
		if answer.Score < 0 || answer.Score > 4 {
			return apperrors.NewScoreOutOfRangeError(answer.QuestionID, answer.Score)
		}
	}
	return nil
}

// generateRecommendations builds the prompt, consults the cache, and
// calls the generator. Every failure path degrades to an inline error
// string so the scored report still reaches the caller.
func (s *Service) generateRecommendations(ctx context.Context, report models.Report, sub models.Submission) string {
	prompt, err := s.builder.Build(report, sub.Catalyst)
	if err != nil {
		metrics.GenerationCalls.WithLabelValues("prompt_error").Inc()
		s.logger.WithError(err).Error("prompt assembly failed", nil)
		return fmt.Sprintf("Error generating recommendations: %s", err.Error())
	}

	key := s.cacheKey(sub)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached
	}

	genStart := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	metrics.AssessmentDuration.WithLabelValues("generation").Observe(time.Since(genStart).Seconds())
	if err != nil {
		metrics.GenerationCalls.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("generation failed", map[string]interface{}{
			"catalyst": sub.Catalyst,
		})
		return fmt.Sprintf("Error generating recommendations: %s", err.Error())
	}
	metrics.GenerationCalls.WithLabelValues("ok").Inc()

	s.cacheSet(ctx, key, text)
	return text
}

// cacheKey hashes the scoring-relevant inputs: catalyst plus the sorted
// answered id:score pairs. Notes never affect the generated text, so
// they stay out of the key.
func (s *Service) cacheKey(sub models.Submission) string {
	pairs := make([]string, 0, len(sub.Answers))
	for _, answer := range sub.Answers {
		pairs = append(pairs, fmt.Sprintf("%s:%d", answer.QuestionID, answer.Score))
	}
	sort.Strings(pairs)

	sum := sha256.Sum256([]byte(sub.Catalyst + "|" + strings.Join(pairs, ",")))
	return "advisory:" + hex.EncodeToString(sum[:])
}

func (s *Service) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	text, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return "", false
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	s.logger.Debug("advisory cache hit", map[string]interface{}{"key": key})
	return text, true
}

func (s *Service) cacheSet(ctx context.Context, key, text string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, text, s.cacheTTL); err != nil {
		metrics.CacheRequests.WithLabelValues("write_error").Inc()
		s.logger.WithError(err).Warn("advisory cache write failed", nil)
	}
}
