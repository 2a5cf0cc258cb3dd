// Package session holds the per-conversation state owned by a chat front
// end: message history, the speech transcript and the voice capture state.
// The matcher never sees any of it.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultWindow is the number of recent messages shown by default.
const DefaultWindow = 12

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat line.
type Message struct {
	Role Role      `json:"role" yaml:"role"`
	Text string    `json:"text" yaml:"text"`
	At   time.Time `json:"at" yaml:"at"`
}

// Session is the serializable state of one conversation.
type Session struct {
	ID         string       `json:"id" yaml:"id"`
	StartedAt  time.Time    `json:"started_at" yaml:"started_at"`
	Window     int          `json:"window" yaml:"window"`
	History    []Message    `json:"history" yaml:"history"`
	Transcript string       `json:"transcript" yaml:"transcript"`
	Capture    CaptureState `json:"capture" yaml:"capture"`
	Language   string       `json:"language,omitempty" yaml:"language,omitempty"`
}

// New starts an empty session. A window <= 0 uses DefaultWindow.
func New(window int) *Session {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Window:    window,
		Capture:   CaptureIdle,
	}
}

// AddExchange records a user utterance and the reply it received.
func (s *Session) AddExchange(user, reply string) {
	now := time.Now()
	s.History = append(s.History,
		Message{Role: RoleUser, Text: user, At: now},
		Message{Role: RoleAssistant, Text: reply, At: now},
	)
}

// Recent returns the last Window messages.
func (s *Session) Recent() []Message {
	window := s.Window
	if window <= 0 {
		window = DefaultWindow
	}
	if len(s.History) <= window {
		return s.History
	}
	return s.History[len(s.History)-window:]
}

// AppendTranscript adds heard text to the transcript, space separated.
func (s *Session) AppendTranscript(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if s.Transcript == "" {
		s.Transcript = text
		return
	}
	s.Transcript += " " + text
}
