package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/arxrec/arxrec/pkg/models"
)

// signalView is the per-request snapshot of every signal's scores for one
// user. The blender, explainer and adapter all read the same view so their
// positive/negative signal detection stays in lockstep.
type signalView struct {
	content   models.ScoreMap
	cf        models.ScoreMap
	recency   models.ScoreMap
	followees map[string]models.ScoreMap
}

// assemble gathers the signal view for a user and derives the candidate
// set: every paper appearing in any signal, minus the user's library.
// Unknown users get empty maps and an empty candidate list; cold start is
// never an error.
func (e *Engine) assemble(ctx context.Context, userID string) ([]string, signalView, error) {
	view := signalView{
		content: e.signals.ContentScores(userID),
		cf:      e.signals.CFScores(userID),
		recency: e.signals.RecencyScores(),
	}

	followees, err := followeeScores(ctx, e.followees, userID)
	if err != nil {
		return nil, signalView{}, fmt.Errorf("failed to fetch followee scores: %w", err)
	}
	view.followees = followees

	merged := make(map[string]struct{},
		len(view.content)+len(view.cf)+len(view.recency))
	for paperID := range view.content {
		merged[paperID] = struct{}{}
	}
	for paperID := range view.cf {
		merged[paperID] = struct{}{}
	}
	for paperID := range view.recency {
		merged[paperID] = struct{}{}
	}
	for _, scores := range view.followees {
		for paperID := range scores {
			merged[paperID] = struct{}{}
		}
	}

	library, err := e.library.Library(ctx, userID)
	if err != nil {
		return nil, signalView{}, fmt.Errorf("failed to fetch library: %w", err)
	}

	candidates := make([]string, 0, len(merged))
	for paperID := range merged {
		if _, held := library[paperID]; held {
			continue
		}
		candidates = append(candidates, paperID)
	}
	sort.Strings(candidates)

	return candidates, view, nil
}
