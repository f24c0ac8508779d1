package engine

import (
	"context"

	"github.com/arxrec/arxrec/pkg/models"
)

// FolloweeScoreProvider supplies per-followee score maps for a user. The
// social graph does not exist yet, so there are no implementations; the
// engine treats a nil provider exactly like one that returns no followees,
// which keeps the assembler, blender and explainer ready for the signal
// without changing today's behavior.
type FolloweeScoreProvider interface {
	// FolloweeScores returns score maps keyed by followee identifier for
	// every followee of the user.
	FolloweeScores(ctx context.Context, userID string) (map[string]models.ScoreMap, error)
}

// followeeScores is the nil-tolerant accessor the engine uses internally.
func followeeScores(ctx context.Context, provider FolloweeScoreProvider, userID string) (map[string]models.ScoreMap, error) {
	if provider == nil {
		return map[string]models.ScoreMap{}, nil
	}
	return provider.FolloweeScores(ctx, userID)
}
