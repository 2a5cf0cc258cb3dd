package memory

import (
	"errors"
	"math"
	"sort"
)

// Hit is a scored reference to an indexed vector.
type Hit struct {
	Index int
	Score float64
}

// Index is an immutable in-memory vector index using brute-force cosine
// similarity. Vectors are expected to be L2-normalised, so cosine reduces to
// a dot product; a zero vector scores 0 against everything.
type Index struct {
	dimension int
	vectors   [][]float64
}

// NewIndex copies vectors into a new index. All vectors must share one
// dimension.
func NewIndex(dimension int, vectors [][]float64) (*Index, error) {
	if dimension < 0 {
		return nil, errors.New("invalid dimension")
	}
	stored := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, errors.New("vector dimension mismatch")
		}
		stored[i] = append([]float64(nil), v...)
	}
	return &Index{dimension: dimension, vectors: stored}, nil
}

// Len returns the number of indexed vectors.
func (x *Index) Len() int { return len(x.vectors) }

// Dimension returns the dimension shared by all vectors.
func (x *Index) Dimension() int { return x.dimension }

// Scores returns the cosine similarity of vector against every indexed
// vector, in index order, clamped to [0,1].
func (x *Index) Scores(vector []float64) []float64 {
	scores := make([]float64, len(x.vectors))
	for i := range x.vectors {
		scores[i] = clamp(dot(x.vectors[i], vector))
	}
	return scores
}

// Search returns the topK best hits in descending score order. Equal scores
// keep index order, so the first occurrence wins.
func (x *Index) Search(vector []float64, topK int) []Hit {
	if topK <= 0 {
		topK = 5
	}
	scores := x.Scores(vector)
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	hits := make([]Hit, 0, topK)
	for _, j := range idxs[:topK] {
		hits = append(hits, Hit{Index: j, Score: scores[j]})
	}
	return hits
}

// Best returns the single best hit, or false when the index is empty.
func (x *Index) Best(vector []float64) (Hit, bool) {
	if len(x.vectors) == 0 {
		return Hit{}, false
	}
	best := Hit{Index: 0, Score: clamp(dot(x.vectors[0], vector))}
	for i := 1; i < len(x.vectors); i++ {
		// strict comparison keeps the lowest index on ties
		if s := clamp(dot(x.vectors[i], vector)); s > best.Score {
			best = Hit{Index: i, Score: s}
		}
	}
	return best, true
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool { return vals[idxs[i]] > vals[idxs[j]] })
	return idxs
}
