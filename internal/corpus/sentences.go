package corpus

import (
	"strings"
)

// SplitSentences collapses whitespace and splits text after '.', '!' or '?'
// when followed by whitespace. Terminal punctuation stays with its sentence.
// It returns nil when text has no non-space characters.
func SplitSentences(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var sentences []string
	start := 0
	for i, w := range words {
		if !endsSentence(w) {
			continue
		}
		sentences = append(sentences, strings.Join(words[start:i+1], " "))
		start = i + 1
	}
	if start < len(words) {
		sentences = append(sentences, strings.Join(words[start:], " "))
	}
	return sentences
}

func endsSentence(word string) bool {
	switch word[len(word)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
