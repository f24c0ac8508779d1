package engine

import (
	"sort"

	"github.com/arxrec/arxrec/pkg/models"
)

type scoredPaper struct {
	PaperID string
	Score   float64
}

// blend combines per-signal scores into one scalar per candidate and ranks
// descending. A signal contributes only when the paper is present in its
// score map AND the signal has a registered weight for the user; both
// conditions must hold. Ties break on ascending paper identifier so the
// ranking is reproducible across runs.
func (e *Engine) blend(candidates []string, view signalView, weights map[string]float64) []scoredPaper {
	ranked := make([]scoredPaper, 0, len(candidates))

	for _, paperID := range candidates {
		score := 0.0

		if s, ok := view.content[paperID]; ok {
			if w, ok := weights[models.SignalContent]; ok {
				score += s * w
			}
		}

		if s, ok := view.cf[paperID]; ok {
			if w, ok := weights[models.SignalCF]; ok {
				// ContentWeightForCF reproduces the historical behavior of
				// scaling the cf contribution by the content weight.
				if e.cfg.ContentWeightForCF {
					w = weights[models.SignalContent]
				}
				score += s * w
			}
		}

		if s, ok := view.recency[paperID]; ok {
			if w, ok := weights[models.SignalRecency]; ok {
				score += s * w
			}
		}

		for followee, scores := range view.followees {
			if s, ok := scores[paperID]; ok {
				if w, ok := weights[followee]; ok {
					score += s * w
				}
			}
		}

		ranked = append(ranked, scoredPaper{PaperID: paperID, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].PaperID < ranked[j].PaperID
	})

	return ranked
}
