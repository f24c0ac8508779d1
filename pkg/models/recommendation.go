package models

// Signal names tracked in the weight store. Followee sub-models are keyed
// by the followee's user identifier rather than a fixed name.
const (
	SignalContent = "svm"
	SignalCF      = "cf"
	SignalRecency = "time"
)

// ScoreMap holds per-paper scores for a single signal. Scores are produced
// offline and treated as read-only for the lifetime of a process run.
type ScoreMap map[string]float64

// UserScoreMap holds per-user score maps for a personalized signal
// (content similarity, collaborative filtering). A user absent from the
// map is a cold start, not an error.
type UserScoreMap map[string]ScoreMap

// WeightMap is the mutable user -> signal -> weight mapping. Weights drift
// multiplicatively and are not normalized.
type WeightMap map[string]map[string]float64

// Recommendation is one entry of a ranked recommendation list.
type Recommendation struct {
	PaperID     string  `json:"paper_id"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	Position    int     `json:"position"`
}
