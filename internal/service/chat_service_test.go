package service

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"faqbot/internal/logger"
	"faqbot/internal/matcher"
)

func newTestLogger() *slog.Logger {
	return logger.Discard()
}

func TestNewServiceAnswersBeforeLoad(t *testing.T) {
	svc := NewChatService(matcher.DefaultConfig(), newTestLogger())
	require.Equal(t, matcher.ModeSentences, svc.Info().Mode)
	require.Equal(t, 1, svc.Info().Items)
	require.Equal(t, matcher.DefaultEmptyReply, svc.Reply(""))
	require.Equal(t, matcher.DefaultUnsureReply, svc.Reply("qwerty"))
}

func TestLoadTextSwapsMatcher(t *testing.T) {
	svc := NewChatService(matcher.DefaultConfig(), newTestLogger())
	before := svc.Matcher()

	info := svc.LoadText("inline", "Q: What are your hours?\nA: 9am-5pm Mon-Fri.")
	require.Equal(t, "inline", info.Source)
	require.Equal(t, matcher.ModeQA, info.Mode)
	require.Equal(t, 1, info.Items)
	require.Contains(t, info.Keywords, "hours")
	require.False(t, info.LoadedAt.IsZero())

	require.NotSame(t, before, svc.Matcher())
	require.Equal(t, "9am-5pm Mon-Fri.", svc.Reply("what hours are you open"))
	// the old matcher is untouched
	require.Equal(t, matcher.ModeSentences, before.Mode())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("The sky is blue. Water is wet."), 0o644))

	svc := NewChatService(matcher.DefaultConfig(), newTestLogger())
	info, err := svc.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, path, info.Source)
	require.Equal(t, matcher.ModeSentences, info.Mode)
	require.Equal(t, 2, info.Items)
	require.Equal(t, "Water is wet.", svc.Reply("is water wet"))

	_, err = svc.LoadFile(filepath.Join(dir, "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	svc := NewChatService(matcher.DefaultConfig(), newTestLogger())
	info := svc.LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"), "Q: Hi\nA: Hello\nand welcome")
	require.Equal(t, "default", info.Source)
	require.Equal(t, "Hello and welcome", svc.Reply("hi"))

	info = svc.LoadOrDefault("", "Fallback sentence.")
	require.Equal(t, "default", info.Source)
	require.Equal(t, matcher.ModeSentences, info.Mode)
}

func TestMatchUsesConfiguredThreshold(t *testing.T) {
	svc := NewChatService(matcher.Config{Threshold: 0.95, UnsureReply: "again?"}, newTestLogger())
	svc.LoadText("inline", "Q: What are your hours?\nA: 9am-5pm Mon-Fri.")

	res := svc.Match("what hours are you open")
	require.Equal(t, matcher.OutcomeUnsure, res.Outcome)
	require.Equal(t, "again?", res.Text)
}

func TestConcurrentReloadAndReply(t *testing.T) {
	svc := NewChatService(matcher.DefaultConfig(), newTestLogger())
	svc.LoadText("a", "Q: ping\nA: pong")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			svc.LoadText("b", "Q: ping\nA: pong")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if svc.Reply("ping") != "pong" {
				t.Error("unexpected reply during reload")
				return
			}
		}
	}()
	wg.Wait()
}
