package summarizer

import (
	"sort"

	"faqbot/internal/embedding/tfidf"
)

// Keywords ranks the tokens of items by how many items mention them and
// returns at most max of them. Stop words, single characters and pure numbers
// are skipped; ties are broken alphabetically.
func Keywords(items []string, max int) []string {
	if max <= 0 {
		max = 5
	}
	stop := defaultStopwords()
	freq := map[string]int{}
	for _, item := range items {
		seen := map[string]struct{}{}
		for _, tok := range tfidf.Tokenize(item) {
			if _, ok := stop[tok]; ok || len([]rune(tok)) < 2 || isNumber(tok) {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			freq[tok]++
		}
	}
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if max > len(words) {
		max = len(words)
	}
	return words[:max]
}

func isNumber(tok string) bool {
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "when", "where", "which", "who", "why", "how", "do", "does", "did", "i", "you", "your", "we", "our", "my", "me", "us", "have", "has",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
