// Package matcher answers free-form utterances from a small FAQ corpus.
//
// A Matcher is built once per corpus. When the corpus parses into Q:/A: pairs
// the questions are indexed and the paired answer is returned; otherwise the
// corpus is split into sentences and the best sentence itself is returned.
// Matching is TF-IDF weighted cosine similarity with a confidence floor.
//
// A Matcher is immutable after construction and safe for concurrent use. To
// change the corpus build a new Matcher and swap the reference.
package matcher

import (
	"strings"

	"faqbot/internal/corpus"
	"faqbot/internal/embedding/tfidf"
	"faqbot/internal/vectorstore/memory"
)

// Mode tells which corpus shape a Matcher was built from.
type Mode string

const (
	ModeQA        Mode = "qa"
	ModeSentences Mode = "sentences"
)

// Outcome classifies a Result.
type Outcome int

const (
	// OutcomeMatched means Text is a stored answer or sentence.
	OutcomeMatched Outcome = iota
	// OutcomeEmpty means the utterance was blank.
	OutcomeEmpty
	// OutcomeUnsure means the best score was under the threshold.
	OutcomeUnsure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeEmpty:
		return "empty"
	case OutcomeUnsure:
		return "unsure"
	default:
		return "unknown"
	}
}

// Result describes how an utterance was answered. Index and Score refer to
// the best-scoring item; Index is -1 when no scoring took place.
type Result struct {
	Index   int
	Score   float64
	Text    string
	Outcome Outcome
}

// Matcher holds the frozen vector space of one corpus.
type Matcher struct {
	cfg      Config
	mode     Mode
	items    []string
	payloads []string
	space    *tfidf.Space
	index    *memory.Index
}

// Build creates a Matcher with DefaultConfig.
func Build(corpusText string) *Matcher {
	return New(corpusText, DefaultConfig())
}

// New parses corpusText and builds its vector space. It never fails: text
// without Q:/A: pairs falls back to sentences, and text without sentences
// falls back to a single placeholder item.
func New(corpusText string, cfg Config) *Matcher {
	cfg = cfg.withDefaults()
	m := &Matcher{cfg: cfg}

	if questions, answers := corpus.Parse(corpusText); len(questions) > 0 && len(questions) == len(answers) {
		m.mode = ModeQA
		m.items = questions
		m.payloads = answers
	} else {
		sentences := corpus.SplitSentences(corpusText)
		if len(sentences) == 0 {
			sentences = []string{cfg.Placeholder}
		}
		m.mode = ModeSentences
		m.items = sentences
		m.payloads = sentences
	}

	m.space = tfidf.Fit(m.items)
	vectors := make([][]float64, len(m.items))
	for i, item := range m.items {
		vectors[i] = m.space.Embed(item)
	}
	// dimensions come from the same space, so this cannot fail
	m.index, _ = memory.NewIndex(m.space.Dimension(), vectors)
	return m
}

// Reply returns the display text for userText: the matched answer or
// sentence, or one of the configured fallback replies.
func (m *Matcher) Reply(userText string) string {
	return m.Match(userText).Text
}

// Match scores userText against every item and returns the best one,
// subject to the confidence threshold.
func (m *Matcher) Match(userText string) Result {
	if strings.TrimSpace(userText) == "" {
		return Result{Index: -1, Text: m.cfg.EmptyReply, Outcome: OutcomeEmpty}
	}
	hit, ok := m.index.Best(m.space.Embed(userText))
	if !ok {
		return Result{Index: -1, Text: m.cfg.UnsureReply, Outcome: OutcomeUnsure}
	}
	if hit.Score < m.cfg.Threshold {
		return Result{Index: hit.Index, Score: hit.Score, Text: m.cfg.UnsureReply, Outcome: OutcomeUnsure}
	}
	return Result{Index: hit.Index, Score: hit.Score, Text: m.payloads[hit.Index], Outcome: OutcomeMatched}
}

// Rank returns up to topK items ordered by similarity to userText, ignoring
// the threshold. It is meant for diagnostics; replies only use the top item.
func (m *Matcher) Rank(userText string, topK int) []Result {
	hits := m.index.Search(m.space.Embed(userText), topK)
	out := make([]Result, 0, len(hits))
	for _, h := range hits {
		outcome := OutcomeMatched
		if h.Score < m.cfg.Threshold {
			outcome = OutcomeUnsure
		}
		out = append(out, Result{Index: h.Index, Score: h.Score, Text: m.payloads[h.Index], Outcome: outcome})
	}
	return out
}

// Mode reports whether the corpus was read as Q:/A: pairs or sentences.
func (m *Matcher) Mode() Mode { return m.mode }

// Len returns the number of indexed items.
func (m *Matcher) Len() int { return len(m.items) }

// Items returns the indexed texts: questions in QA mode, sentences otherwise.
func (m *Matcher) Items() []string { return append([]string(nil), m.items...) }

// Payloads returns the reply texts aligned with Items.
func (m *Matcher) Payloads() []string { return append([]string(nil), m.payloads...) }

// Vocabulary returns the frozen vocabulary of the vector space.
func (m *Matcher) Vocabulary() []string { return m.space.Vocabulary() }

// Config returns the effective configuration.
func (m *Matcher) Config() Config { return m.cfg }
