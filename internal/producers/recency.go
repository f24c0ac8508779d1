package producers

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/store"
	"github.com/arxrec/arxrec/pkg/models"
)

// BuildRecencyScores assigns a linearly decaying score to papers in the
// recent publication window, inferred from identifier prefixes. With the
// eligible identifiers sorted lexicographically descending, the first gets
// 1.0 and scores fall toward 0 as (n-i)/n.
func BuildRecencyScores(corpus *store.Corpus, prefixes []string, logger *logrus.Logger) models.ScoreMap {
	var recent []string
	for _, paperID := range corpus.PaperIDs {
		for _, prefix := range prefixes {
			if strings.HasPrefix(paperID, prefix) {
				recent = append(recent, paperID)
				break
			}
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(recent)))

	n := len(recent)
	scores := make(models.ScoreMap, n)
	for i, paperID := range recent {
		scores[paperID] = float64(n-i) / float64(n)
	}

	logger.WithField("recent_papers", n).Info("Recency scores built")
	return scores
}
