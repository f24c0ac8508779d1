package engine

import (
	"sort"
	"strings"
)

// Explanation fragments, in their fixed precedence order.
const (
	explainContent = "recommended based on paper content in your library"
	explainCF      = "users similar to you also read"
	explainRecent  = "recently published"
)

// explain derives the justification string for one ranked paper from the
// signals that fired for it. Fragments join with " & " and the string
// always ends with a colon. Recency here is the identifier-prefix check
// for the tracked recent window, not membership in the recency score map,
// and the same check gates the recency nudge during adaptation.
//
// Followee names concatenate with no separator; the output format is
// frozen until the social feature ships, so the missing separator stays.
func (e *Engine) explain(paperID string, view signalView) string {
	parts := make([]string, 0, 4)

	if _, ok := view.content[paperID]; ok {
		parts = append(parts, explainContent)
	}
	if _, ok := view.cf[paperID]; ok {
		parts = append(parts, explainCF)
	}
	if strings.HasPrefix(paperID, e.cfg.RecentPrefix) {
		parts = append(parts, explainRecent)
	}

	var followeesRead []string
	for followee, scores := range view.followees {
		if _, ok := scores[paperID]; ok {
			followeesRead = append(followeesRead, followee)
		}
	}
	if len(followeesRead) > 0 {
		sort.Strings(followeesRead)
		parts = append(parts, "your followee: "+strings.Join(followeesRead, "")+" also reads")
	}

	return strings.Join(parts, " & ") + ":"
}
