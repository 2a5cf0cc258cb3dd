package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"faqbot/internal/matcher"
	"faqbot/internal/summarizer"
)

const keywordCount = 6

// Info describes the corpus behind the current matcher.
type Info struct {
	Source   string
	Mode     matcher.Mode
	Items    int
	Keywords []string
	LoadedAt time.Time
}

type loaded struct {
	m    *matcher.Matcher
	info Info
}

// ChatService answers utterances from the currently loaded corpus. Loading a
// new corpus builds a fresh matcher and swaps it in atomically, so replies in
// flight keep using the matcher they started with.
type ChatService struct {
	cfg     matcher.Config
	logger  *slog.Logger
	current atomic.Pointer[loaded]
}

// NewChatService creates a service answering from an empty corpus until one
// is loaded.
func NewChatService(cfg matcher.Config, logger *slog.Logger) *ChatService {
	s := &ChatService{cfg: cfg, logger: logger.With("component", "chat.service")}
	s.swap("", "")
	return s
}

// LoadText builds a matcher over text and makes it current.
func (s *ChatService) LoadText(source, text string) Info {
	info := s.swap(source, text)
	s.logger.Info("corpus loaded", "source", source, "mode", info.Mode, "items", info.Items)
	return info
}

// LoadFile reads path and loads it as the corpus.
func (s *ChatService) LoadFile(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return s.LoadText(path, string(data)), nil
}

// LoadOrDefault loads path, falling back to defaultText when the file is
// missing or unreadable.
func (s *ChatService) LoadOrDefault(path, defaultText string) Info {
	if path != "" {
		info, err := s.LoadFile(path)
		if err == nil {
			return info
		}
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("corpus unreadable, using default", "path", path, "error", err)
		}
	}
	return s.LoadText("default", defaultText)
}

// Reply answers text from the current corpus.
func (s *ChatService) Reply(text string) string {
	return s.Match(text).Text
}

// Match answers text and reports how the reply was chosen.
func (s *ChatService) Match(text string) matcher.Result {
	res := s.current.Load().m.Match(text)
	if res.Outcome == matcher.OutcomeUnsure {
		s.logger.Debug("low confidence reply", "score", res.Score, "index", res.Index)
	}
	return res
}

// Info describes the current corpus.
func (s *ChatService) Info() Info {
	return s.current.Load().info
}

// Matcher returns the current matcher.
func (s *ChatService) Matcher() *matcher.Matcher {
	return s.current.Load().m
}

func (s *ChatService) swap(source, text string) Info {
	m := matcher.New(text, s.cfg)
	info := Info{
		Source:   source,
		Mode:     m.Mode(),
		Items:    m.Len(),
		Keywords: summarizer.Keywords(m.Items(), keywordCount),
		LoadedAt: time.Now(),
	}
	s.current.Store(&loaded{m: m, info: info})
	return info
}
