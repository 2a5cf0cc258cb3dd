package matcher

const (
	DefaultThreshold   = 0.10
	DefaultEmptyReply  = "Say something and I'll try to help!"
	DefaultUnsureReply = "I'm not sure I understood. Could you rephrase?"
	DefaultPlaceholder = "I have no data yet."
)

// Config holds the tunable constants of a Matcher. Zero fields take the
// package defaults; a Threshold <= 0 means DefaultThreshold.
type Config struct {
	// Threshold is the minimum cosine score, on [0,1], for a match to be
	// returned. Scores strictly below it yield UnsureReply.
	Threshold   float64
	EmptyReply  string
	UnsureReply string
	// Placeholder is the single item indexed when the corpus is blank.
	Placeholder string
}

// DefaultConfig returns the stock thresholds and replies.
func DefaultConfig() Config {
	return Config{
		Threshold:   DefaultThreshold,
		EmptyReply:  DefaultEmptyReply,
		UnsureReply: DefaultUnsureReply,
		Placeholder: DefaultPlaceholder,
	}
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.EmptyReply == "" {
		c.EmptyReply = DefaultEmptyReply
	}
	if c.UnsureReply == "" {
		c.UnsureReply = DefaultUnsureReply
	}
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	return c
}
