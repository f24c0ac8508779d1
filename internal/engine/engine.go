// Package engine implements the online blending-and-adaptation core: it
// merges independently cached sub-model scores into one ranked,
// explained recommendation list per user and adapts the per-user signal
// weights from implicit feedback.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/config"
	"github.com/arxrec/arxrec/internal/store"
	"github.com/arxrec/arxrec/pkg/arxiv"
	"github.com/arxrec/arxrec/pkg/models"
)

// Engine owns the immutable signal mappings, the mutable weight store and
// the library filter for the lifetime of a process run. It replaces the
// old pattern of process-global score caches with one explicit context
// object handed to every operation.
type Engine struct {
	signals   *store.SignalStore
	weights   *store.WeightStore
	library   store.LibraryStore
	followees FolloweeScoreProvider
	redis     *redis.Client // optional result cache, nil disables caching
	cfg       *config.EngineConfig
	logger    *logrus.Logger
}

func New(
	signals *store.SignalStore,
	weights *store.WeightStore,
	library store.LibraryStore,
	followees FolloweeScoreProvider,
	redisClient *redis.Client,
	cfg *config.EngineConfig,
	logger *logrus.Logger,
) *Engine {
	return &Engine{
		signals:   signals,
		weights:   weights,
		library:   library,
		followees: followees,
		redis:     redisClient,
		cfg:       cfg,
		logger:    logger,
	}
}

// Recommend returns the top-N ranked, explained recommendations for a
// user. topN <= 0 falls back to the configured default. A user with no
// signals, no registered weights or an empty candidate set gets an empty
// list, never an error.
func (e *Engine) Recommend(ctx context.Context, userID string, topN int) ([]models.Recommendation, error) {
	startTime := time.Now()

	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}

	if cached, err := e.cachedRecommendations(ctx, userID, topN); err == nil && cached != nil {
		recommendationCacheHits.Inc()
		e.logger.WithField("user_id", userID).Debug("Recommendation cache hit")
		return cached, nil
	}

	candidates, view, err := e.assemble(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble candidates: %w", err)
	}

	weights := e.weights.Weights(userID)
	ranked := e.blend(candidates, view, weights)

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	recommendations := make([]models.Recommendation, 0, len(ranked))
	for i, paper := range ranked {
		recommendations = append(recommendations, models.Recommendation{
			PaperID:     paper.PaperID,
			Score:       paper.Score,
			Explanation: e.explain(paper.PaperID, view),
			Position:    i + 1,
		})
	}

	recommendationsServed.Inc()
	blendDuration.Observe(time.Since(startTime).Seconds())

	if err := e.cacheRecommendations(ctx, userID, topN, recommendations); err != nil {
		e.logger.WithError(err).Warn("Failed to cache recommendations")
	}

	e.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"candidates": len(candidates),
		"returned":   len(recommendations),
		"latency":    time.Since(startTime),
	}).Info("Recommendations generated")

	return recommendations, nil
}

// RecordFeedback interprets paperID as the paper the user just interacted
// with and adapts the user's signal weights. The weight mapping is
// persisted before returning; a persistence failure is surfaced as a
// retryable error and the caller must not assume durability until success.
func (e *Engine) RecordFeedback(ctx context.Context, userID, paperID string) error {
	paperID = arxiv.StripVersion(paperID)

	if err := e.adaptWeights(ctx, userID, paperID); err != nil {
		return fmt.Errorf("failed to adapt weights: %w", err)
	}

	feedbackApplied.Inc()

	if err := e.invalidateUserCache(ctx, userID); err != nil {
		e.logger.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate recommendation cache")
	}

	return nil
}

// RegisterUser creates an empty weight entry for a new user. Registering
// an existing user is an informational no-op.
func (e *Engine) RegisterUser(ctx context.Context, userID string) error {
	return e.weights.RegisterUser(userID)
}

// RegisterSignal registers a new sub-model for a user with an initial
// weight of 1.0, provided the signal is eligible. Today the only
// eligibility source is the followee provider, so with no provider wired
// every non-bootstrapped signal is ineligible and registration leaves the
// weights unchanged.
func (e *Engine) RegisterSignal(ctx context.Context, userID, signal string) error {
	eligible, err := e.signalEligible(ctx, userID, signal)
	if err != nil {
		return err
	}
	return e.weights.RegisterSignal(userID, signal, eligible)
}

func (e *Engine) signalEligible(ctx context.Context, userID, signal string) (bool, error) {
	followees, err := followeeScores(ctx, e.followees, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check signal eligibility: %w", err)
	}
	_, ok := followees[signal]
	return ok, nil
}

// ReloadSignals re-reads the score blobs after an offline producer run.
func (e *Engine) ReloadSignals() error {
	return e.signals.Reload()
}

// Cache operations. A nil redis client disables caching without changing
// any other behavior.

func (e *Engine) cachedRecommendations(ctx context.Context, userID string, topN int) ([]models.Recommendation, error) {
	if e.redis == nil {
		return nil, fmt.Errorf("cache not available")
	}

	cached := e.redis.Get(ctx, e.cacheKey(userID, topN)).Val()
	if cached == "" {
		return nil, fmt.Errorf("cache miss")
	}

	var recommendations []models.Recommendation
	if err := json.Unmarshal([]byte(cached), &recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}

func (e *Engine) cacheRecommendations(ctx context.Context, userID string, topN int, recommendations []models.Recommendation) error {
	if e.redis == nil {
		return nil
	}

	data, err := json.Marshal(recommendations)
	if err != nil {
		return err
	}
	return e.redis.Set(ctx, e.cacheKey(userID, topN), data, e.cfg.CacheTTL).Err()
}

func (e *Engine) invalidateUserCache(ctx context.Context, userID string) error {
	if e.redis == nil {
		return nil
	}

	pattern := fmt.Sprintf("recommendations:%s:*", userID)
	keys, err := e.redis.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return e.redis.Del(ctx, keys...).Err()
	}
	return nil
}

func (e *Engine) cacheKey(userID string, topN int) string {
	return fmt.Sprintf("recommendations:%s:%d", userID, topN)
}
