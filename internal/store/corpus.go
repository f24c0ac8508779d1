package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/arxrec/arxrec/pkg/arxiv"
)

// Corpus is the shared term-vector representation of all papers, produced
// by the offline text pipeline. The content producer trains against it;
// the recency producer only needs its identifier list.
type Corpus struct {
	// PaperIDs holds every normalized identifier in ascending order.
	PaperIDs []string
	// Vectors maps normalized identifiers to their term vectors. All
	// vectors share the same dimensionality.
	Vectors map[string][]float64
}

type corpusBlob struct {
	Papers map[string][]float64 `json:"papers"`
}

// LoadCorpus reads the corpus blob, normalizing identifiers at the
// boundary and rejecting mixed vector dimensions.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := readBlob(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}

	var blob corpusBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to decode corpus %s: %w", path, err)
	}

	corpus := &Corpus{
		PaperIDs: make([]string, 0, len(blob.Papers)),
		Vectors:  make(map[string][]float64, len(blob.Papers)),
	}

	dims := -1
	for paperID, vector := range blob.Papers {
		id := arxiv.StripVersion(paperID)
		if dims == -1 {
			dims = len(vector)
		} else if len(vector) != dims {
			return nil, fmt.Errorf("corpus %s: paper %s has %d dimensions, expected %d",
				path, id, len(vector), dims)
		}
		corpus.PaperIDs = append(corpus.PaperIDs, id)
		corpus.Vectors[id] = vector
	}
	sort.Strings(corpus.PaperIDs)

	return corpus, nil
}

// Dimensions returns the term-vector width, 0 for an empty corpus.
func (c *Corpus) Dimensions() int {
	for _, vector := range c.Vectors {
		return len(vector)
	}
	return 0
}
