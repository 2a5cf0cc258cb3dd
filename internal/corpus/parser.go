// Package corpus turns raw knowledge-base text into matchable items.
//
// Two shapes are recognised. A Q:/A: line grammar yields aligned question and
// answer slices; anything else is treated as prose and split into sentences.
package corpus

import (
	"strings"
)

// Parse reads Q:/A: pairs from text.
//
// A "Q:" line opens a question, an "A:" line sets the answer of the open
// question, and any other non-blank line continues whichever of the two is
// open (the answer first). A pair is committed only once both parts exist,
// either when the next "Q:" arrives or at end of input. Prefixes are matched
// case-insensitively. When no complete pair is found both slices are nil.
func Parse(text string) (questions, answers []string) {
	var q, a *string
	commit := func() {
		if q != nil && a != nil {
			questions = append(questions, *q)
			answers = append(answers, *a)
		}
	}

	for _, raw := range strings.FieldsFunc(text, isLineBreak) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case hasMarker(line, "q:"):
			commit()
			rest := strings.TrimSpace(line[2:])
			q, a = &rest, nil
		case hasMarker(line, "a:"):
			rest := strings.TrimSpace(line[2:])
			a = &rest
		case a != nil:
			joined := *a + " " + line
			a = &joined
		case q != nil:
			joined := *q + " " + line
			q = &joined
		}
	}
	commit()
	return questions, answers
}

func hasMarker(line, marker string) bool {
	return len(line) >= len(marker) && strings.EqualFold(line[:len(marker)], marker)
}

// isLineBreak reports ASCII and Unicode line and record separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
