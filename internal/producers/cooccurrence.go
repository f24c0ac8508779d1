package producers

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/store"
	"github.com/arxrec/arxrec/pkg/models"
)

// BuildCooccurrenceScores computes the collaborative-filtering scores: for
// every user, each neighbor's library papers accumulate into the user's
// score map weighted by user-user similarity
// |L1 ∩ L2| / sqrt((|L1|+1)(|L2|+1)), over at most maxNeighbors nearest
// neighbors. The accumulation is left unnormalized.
func BuildCooccurrenceScores(ctx context.Context, library store.LibraryStore, maxNeighbors int, logger *logrus.Logger) (models.UserScoreMap, error) {
	users, err := library.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	libraries := make(map[string]map[string]struct{}, len(users))
	for _, userID := range users {
		lib, err := library.Library(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load library for user %s: %w", userID, err)
		}
		libraries[userID] = lib
	}

	scores := make(models.UserScoreMap, len(users))
	for i, current := range users {
		logger.WithFields(logrus.Fields{
			"user_id":  current,
			"progress": fmt.Sprintf("%d/%d", i+1, len(users)),
		}).Debug("Calculating co-occurrence scores")

		own := libraries[current]

		neighbors := make([]neighborSim, 0, len(users)-1)
		for _, other := range users {
			if other == current {
				continue
			}
			shared := 0
			for paperID := range libraries[other] {
				if _, ok := own[paperID]; ok {
					shared++
				}
			}
			// The +1 terms guard against empty libraries.
			sim := float64(shared) /
				math.Sqrt(float64((len(libraries[other])+1)*(len(own)+1)))
			neighbors = append(neighbors, neighborSim{UserID: other, Sim: sim})
		}

		sort.Slice(neighbors, func(a, b int) bool {
			if neighbors[a].Sim != neighbors[b].Sim {
				return neighbors[a].Sim > neighbors[b].Sim
			}
			return neighbors[a].UserID < neighbors[b].UserID
		})

		paperScores := models.ScoreMap{}
		for rank, nb := range neighbors {
			// Neighbors are sorted, so the first zero similarity means all
			// remaining ones are zero too: stop, don't skip.
			if nb.Sim == 0 || rank >= maxNeighbors {
				break
			}
			for paperID := range libraries[nb.UserID] {
				if _, held := own[paperID]; held {
					continue
				}
				paperScores[paperID] += nb.Sim
			}
		}
		scores[current] = paperScores
	}

	return scores, nil
}

type neighborSim struct {
	UserID string
	Sim    float64
}
