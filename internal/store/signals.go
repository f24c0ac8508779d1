package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/config"
	"github.com/arxrec/arxrec/pkg/arxiv"
	"github.com/arxrec/arxrec/pkg/models"
)

// SignalStore holds the three precomputed score mappings: per-user content
// similarity ("svm"), per-user collaborative filtering ("cf") and the
// global recency mapping ("time"). The mappings are immutable between
// loads; offline producers rewrite the blobs and the store reloads them as
// a unit.
type SignalStore struct {
	logger *logrus.Logger

	contentPath string
	cfPath      string
	recencyPath string

	mu      sync.RWMutex
	content models.UserScoreMap
	cf      models.UserScoreMap
	recency models.ScoreMap
}

func NewSignalStore(cfg config.StoreConfig, logger *logrus.Logger) *SignalStore {
	return &SignalStore{
		logger:      logger,
		contentPath: cfg.ContentScorePath,
		cfPath:      cfg.CFScorePath,
		recencyPath: cfg.RecencyScorePath,
	}
}

// Load reads and validates all three score blobs. Any missing or malformed
// blob is an error: the engine must refuse to serve on partial signals.
func (s *SignalStore) Load() error {
	content, err := loadUserScores(s.contentPath)
	if err != nil {
		return fmt.Errorf("content score store: %w", err)
	}

	cf, err := loadUserScores(s.cfPath)
	if err != nil {
		return fmt.Errorf("cf score store: %w", err)
	}

	recency, err := loadGlobalScores(s.recencyPath)
	if err != nil {
		return fmt.Errorf("recency score store: %w", err)
	}

	s.mu.Lock()
	s.content = content
	s.cf = cf
	s.recency = recency
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"content_users": len(content),
		"cf_users":      len(cf),
		"recent_papers": len(recency),
	}).Info("Signal score stores loaded")

	return nil
}

// Reload re-reads the blobs after an offline producer run. Readers holding
// a previously returned map keep a consistent snapshot; the swap replaces
// whole maps, never mutates them.
func (s *SignalStore) Reload() error {
	return s.Load()
}

// ContentScores returns the content-similarity scores for a user. An
// unknown user yields an empty map, never an error (cold start).
func (s *SignalStore) ContentScores(userID string) models.ScoreMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if scores, ok := s.content[userID]; ok {
		return scores
	}
	return models.ScoreMap{}
}

// CFScores returns the collaborative-filtering scores for a user, empty
// for an unknown user.
func (s *SignalStore) CFScores(userID string) models.ScoreMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if scores, ok := s.cf[userID]; ok {
		return scores
	}
	return models.ScoreMap{}
}

// RecencyScores returns the global recency mapping shared by all users.
func (s *SignalStore) RecencyScores() models.ScoreMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.recency == nil {
		return models.ScoreMap{}
	}
	return s.recency
}

func loadUserScores(path string) (models.UserScoreMap, error) {
	data, err := readBlob(path)
	if err != nil {
		return nil, err
	}
	if err := validateBlob(userScoreValidator, data, path); err != nil {
		return nil, err
	}

	var raw map[string]map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode blob %s: %w", path, err)
	}

	scores := make(models.UserScoreMap, len(raw))
	for userID, papers := range raw {
		userScores := make(models.ScoreMap, len(papers))
		for paperID, score := range papers {
			userScores[arxiv.StripVersion(paperID)] = score
		}
		scores[userID] = userScores
	}
	return scores, nil
}

func loadGlobalScores(path string) (models.ScoreMap, error) {
	data, err := readBlob(path)
	if err != nil {
		return nil, err
	}
	if err := validateBlob(globalScoreValidator, data, path); err != nil {
		return nil, err
	}

	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode blob %s: %w", path, err)
	}

	scores := make(models.ScoreMap, len(raw))
	for paperID, score := range raw {
		scores[arxiv.StripVersion(paperID)] = score
	}
	return scores, nil
}
