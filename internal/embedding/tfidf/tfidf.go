package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lower-cases text and returns its maximal runs of letters, digits
// and underscores. No stemming or stop-word removal is applied.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Space is a TF-IDF vector space fitted over a fixed set of items.
// The vocabulary and IDF weights never change after Fit.
type Space struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// Fit builds the vocabulary and smoothed IDF weights from corpus.
// A corpus without any tokens yields a zero-dimension space whose
// embeddings are always zero vectors.
func Fit(corpus []string) *Space {
	// Build vocabulary and document frequencies
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	s := &Space{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		s.vocabulary[term] = i
		s.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return s
}

// Dimension returns the vocabulary size.
func (s *Space) Dimension() int { return len(s.terms) }

// Vocabulary returns the sorted vocabulary.
func (s *Space) Vocabulary() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// IDF returns the weight of term and whether it is part of the vocabulary.
func (s *Space) IDF(term string) (float64, bool) {
	idx, ok := s.vocabulary[term]
	if !ok {
		return 0, false
	}
	return s.idf[idx], true
}

// Embed returns the L2-normalised TF-IDF vector of text. Tokens outside the
// vocabulary are ignored, so text sharing no terms with the corpus maps to
// the zero vector.
func (s *Space) Embed(text string) []float64 {
	vec := make([]float64, len(s.terms))
	counts := make(map[int]int)
	for _, tok := range Tokenize(text) {
		if idx, ok := s.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return vec
	}
	for idx, count := range counts {
		vec[idx] = float64(count) * s.idf[idx]
	}
	// L2 normalize
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
