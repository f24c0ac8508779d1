package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/store"
	"github.com/arxrec/arxrec/pkg/models"
)

// adaptWeights applies the multiplicative feedback nudge for one observed
// user-paper interaction: every signal registered for the user is boosted
// when the paper fired under it and decayed otherwise. Unregistered
// signals are untouched. The update is deliberately not idempotent;
// applying the same event twice compounds the nudge, so callers must
// deliver each feedback event at most once.
func (e *Engine) adaptWeights(ctx context.Context, userID, paperID string) error {
	_, view, err := e.assemble(ctx, userID)
	if err != nil {
		return err
	}

	err = e.weights.Update(userID, func(weights map[string]float64) {
		for signal := range weights {
			var hit bool
			switch signal {
			case models.SignalContent:
				_, hit = view.content[paperID]
			case models.SignalCF:
				_, hit = view.cf[paperID]
			case models.SignalRecency:
				// The recency nudge keys on the recent-window prefix, in
				// lockstep with the explanation text.
				hit = strings.HasPrefix(paperID, e.cfg.RecentPrefix)
			default:
				// Any other registered signal is a followee sub-model.
				if scores, ok := view.followees[signal]; ok {
					_, hit = scores[paperID]
				}
			}

			if hit {
				weights[signal] *= e.cfg.ClickBoost
			} else {
				weights[signal] *= e.cfg.Decay
			}
		}
	})

	if errors.Is(err, store.ErrUserNotRegistered) {
		// Cold start: nothing to adapt for a user with no weight entry.
		e.logger.WithField("user_id", userID).Info("Feedback for unregistered user ignored")
		return nil
	}
	if err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"paper_id": paperID,
	}).Debug("Signal weights adapted")

	return nil
}
