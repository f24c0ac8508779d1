// Package producers implements the offline score-generation jobs. Each
// producer reads the library store and the corpus and emits one score
// blob; the serving engine never calls into this package.
package producers

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/arxrec/arxrec/internal/store"
	"github.com/arxrec/arxrec/pkg/models"
)

// ContentProducer scores every corpus paper for each user with a linear
// decision function over the shared term vectors, separating the user's
// library (positive class) from the rest of the corpus. The top candidates
// outside the library are kept and their margins min-max normalized to
// [0,1]. Exact classifier numerics are not part of the contract; the
// linear model here is nearest-centroid.
type ContentProducer struct {
	library    store.LibraryStore
	corpus     *store.Corpus
	candidates int
	logger     *logrus.Logger
}

func NewContentProducer(library store.LibraryStore, corpus *store.Corpus, candidates int, logger *logrus.Logger) *ContentProducer {
	return &ContentProducer{
		library:    library,
		corpus:     corpus,
		candidates: candidates,
		logger:     logger,
	}
}

// Build computes content-similarity scores for every known user. A user
// with an empty library (or one fully outside the corpus) gets an empty
// score map, not an error.
func (p *ContentProducer) Build(ctx context.Context) (models.UserScoreMap, error) {
	users, err := p.library.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	scores := make(models.UserScoreMap, len(users))
	for i, userID := range users {
		p.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"progress": fmt.Sprintf("%d/%d", i+1, len(users)),
		}).Debug("Building content model")

		library, err := p.library.Library(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load library for user %s: %w", userID, err)
		}
		scores[userID] = p.scoreUser(library)
	}

	return scores, nil
}

func (p *ContentProducer) scoreUser(library map[string]struct{}) models.ScoreMap {
	dims := p.corpus.Dimensions()
	if dims == 0 {
		return models.ScoreMap{}
	}

	posCentroid := make([]float64, dims)
	negCentroid := make([]float64, dims)
	posCount, negCount := 0, 0

	for _, paperID := range p.corpus.PaperIDs {
		vector := p.corpus.Vectors[paperID]
		if _, held := library[paperID]; held {
			floats.Add(posCentroid, vector)
			posCount++
		} else {
			floats.Add(negCentroid, vector)
			negCount++
		}
	}

	if posCount == 0 || negCount == 0 {
		// Empty library for this user, or nothing left to rank.
		return models.ScoreMap{}
	}

	floats.Scale(1/float64(posCount), posCentroid)
	floats.Scale(1/float64(negCount), negCentroid)

	direction := make([]float64, dims)
	copy(direction, posCentroid)
	floats.Sub(direction, negCentroid)

	ranked := make([]scoredPaper, 0, negCount)
	for _, paperID := range p.corpus.PaperIDs {
		if _, held := library[paperID]; held {
			continue
		}
		ranked = append(ranked, scoredPaper{
			PaperID: paperID,
			Score:   floats.Dot(direction, p.corpus.Vectors[paperID]),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].PaperID < ranked[j].PaperID
	})

	keep := p.candidates
	if keep > len(ranked) {
		keep = len(ranked)
	}

	minValue := ranked[keep-1].Score
	maxValue := ranked[0].Score
	spread := maxValue - minValue

	scores := make(models.ScoreMap, keep)
	for _, paper := range ranked[:keep] {
		if spread == 0 {
			scores[paper.PaperID] = 1.0
			continue
		}
		scores[paper.PaperID] = (paper.Score - minValue) / spread
	}
	return scores
}

type scoredPaper struct {
	PaperID string
	Score   float64
}
