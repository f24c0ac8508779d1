package producers

import (
	"context"
	"sort"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxrec/arxrec/internal/store"
	"github.com/arxrec/arxrec/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type memoryLibrary struct {
	libraries map[string]map[string]struct{}
}

func (m *memoryLibrary) Library(ctx context.Context, userID string) (map[string]struct{}, error) {
	if lib, ok := m.libraries[userID]; ok {
		return lib, nil
	}
	return map[string]struct{}{}, nil
}

func (m *memoryLibrary) Users(ctx context.Context) ([]string, error) {
	users := make([]string, 0, len(m.libraries))
	for userID := range m.libraries {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

func testCorpus(vectors map[string][]float64) *store.Corpus {
	ids := make([]string, 0, len(vectors))
	for id := range vectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &store.Corpus{PaperIDs: ids, Vectors: vectors}
}

func TestBuildRecencyScores(t *testing.T) {
	corpus := testCorpus(map[string][]float64{
		"1612.00001": {0},
		"1701.00001": {0},
		"1705.00001": {0},
		"1705.00002": {0},
	})

	scores := BuildRecencyScores(corpus, []string{"170"}, testLogger())

	require.Len(t, scores, 3)
	// Sorted descending, newest first: 1705.00002, 1705.00001, 1701.00001.
	assert.InDelta(t, 1.0, scores["1705.00002"], 1e-12)
	assert.InDelta(t, 2.0/3.0, scores["1705.00001"], 1e-12)
	assert.InDelta(t, 1.0/3.0, scores["1701.00001"], 1e-12)
	_, ok := scores["1612.00001"]
	assert.False(t, ok)
}

func TestBuildRecencyScores_EmptyWindow(t *testing.T) {
	corpus := testCorpus(map[string][]float64{"1612.00001": {0}})
	scores := BuildRecencyScores(corpus, []string{"170"}, testLogger())
	assert.Empty(t, scores)
}

func TestBuildCooccurrenceScores(t *testing.T) {
	library := &memoryLibrary{libraries: map[string]map[string]struct{}{
		"u1": {"a": {}, "b": {}},
		"u2": {"a": {}, "c": {}},
		"u3": {"d": {}},
	}}

	scores, err := BuildCooccurrenceScores(context.Background(), library, 300, testLogger())
	require.NoError(t, err)

	t.Run("neighbor papers weighted by similarity", func(t *testing.T) {
		u1 := scores["u1"]
		// sim(u1,u2) = 1/sqrt((2+1)(2+1)) = 1/3; u3 shares nothing.
		require.Len(t, u1, 1)
		assert.InDelta(t, 1.0/3.0, u1["c"], 1e-12)
	})

	t.Run("own library papers excluded", func(t *testing.T) {
		_, ok := scores["u1"]["a"]
		assert.False(t, ok)
	})

	t.Run("user with no overlap gets empty map", func(t *testing.T) {
		assert.Empty(t, scores["u3"])
	})
}

func TestBuildCooccurrenceScores_NeighborCap(t *testing.T) {
	// u2 shares two papers with u1, u3 shares one; with the neighbor list
	// capped at one only u2 may contribute.
	library := &memoryLibrary{libraries: map[string]map[string]struct{}{
		"u1": {"a": {}, "b": {}},
		"u2": {"a": {}, "b": {}, "c": {}},
		"u3": {"a": {}, "d": {}},
	}}

	scores, err := BuildCooccurrenceScores(context.Background(), library, 1, testLogger())
	require.NoError(t, err)

	u1 := scores["u1"]
	require.Len(t, u1, 1)
	assert.Contains(t, u1, "c")
	assert.NotContains(t, u1, "d")
}

func TestBuildCooccurrenceScores_Accumulates(t *testing.T) {
	// Both neighbors hold paper x; its score is the sum of both
	// similarities, left unnormalized.
	library := &memoryLibrary{libraries: map[string]map[string]struct{}{
		"u1": {"a": {}},
		"u2": {"a": {}, "x": {}},
		"u3": {"a": {}, "x": {}},
	}}

	scores, err := BuildCooccurrenceScores(context.Background(), library, 300, testLogger())
	require.NoError(t, err)

	// sim(u1,u2) = sim(u1,u3) = 1/sqrt((2+1)(1+1)) = 1/sqrt(6).
	assert.InDelta(t, 2.0/2.449489742783178, scores["u1"]["x"], 1e-9)
}

func TestContentProducer(t *testing.T) {
	corpus := testCorpus(map[string][]float64{
		"p1": {1.0, 0.0},
		"p2": {0.9, 0.1},
		"p3": {0.0, 1.0},
	})
	library := &memoryLibrary{libraries: map[string]map[string]struct{}{
		"u1": {"p1": {}},
		"u2": {},
	}}

	producer := NewContentProducer(library, corpus, 200, testLogger())
	scores, err := producer.Build(context.Background())
	require.NoError(t, err)

	t.Run("margins normalized to [0,1]", func(t *testing.T) {
		u1 := scores["u1"]
		require.Len(t, u1, 2)
		// p2 sits closest to the library centroid, p3 farthest.
		assert.InDelta(t, 1.0, u1["p2"], 1e-12)
		assert.InDelta(t, 0.0, u1["p3"], 1e-12)
	})

	t.Run("library papers never scored", func(t *testing.T) {
		_, ok := scores["u1"]["p1"]
		assert.False(t, ok)
	})

	t.Run("empty library yields empty map", func(t *testing.T) {
		assert.Empty(t, scores["u2"])
	})
}

func TestContentProducer_CandidateCap(t *testing.T) {
	corpus := testCorpus(map[string][]float64{
		"p1": {1.0, 0.0},
		"p2": {0.9, 0.1},
		"p3": {0.5, 0.5},
		"p4": {0.0, 1.0},
	})
	library := &memoryLibrary{libraries: map[string]map[string]struct{}{
		"u1": {"p1": {}},
	}}

	producer := NewContentProducer(library, corpus, 2, testLogger())
	scores, err := producer.Build(context.Background())
	require.NoError(t, err)

	u1 := scores["u1"]
	require.Len(t, u1, 2)
	assert.Contains(t, u1, "p2")
	assert.Contains(t, u1, "p3")
	assert.NotContains(t, u1, "p4")
}

func TestEnsureDefaultWeights(t *testing.T) {
	library := &memoryLibrary{libraries: map[string]map[string]struct{}{
		"u1": {"a": {}},
		"u2": {"b": {}},
	}}

	dir := t.TempDir()
	ws := store.NewWeightStore(dir+"/type_weight.json", testLogger())
	require.NoError(t, ws.LoadOrInit())

	defaults := map[string]float64{
		models.SignalContent: 1.0,
		models.SignalCF:      1.0,
		models.SignalRecency: 0.1,
	}
	require.NoError(t, EnsureDefaultWeights(context.Background(), library, ws, defaults, testLogger()))

	weights := ws.Weights("u1")
	assert.InDelta(t, 1.0, weights["svm"], 1e-12)
	assert.InDelta(t, 1.0, weights["cf"], 1e-12)
	assert.InDelta(t, 0.1, weights["time"], 1e-12)

	// Adapted weights survive a re-run.
	require.NoError(t, ws.Update("u1", func(w map[string]float64) { w["svm"] = 2.5 }))
	require.NoError(t, EnsureDefaultWeights(context.Background(), library, ws, defaults, testLogger()))
	assert.InDelta(t, 2.5, ws.Weights("u1")["svm"], 1e-12)
}
