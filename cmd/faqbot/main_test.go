package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"faqbot/internal/config"
	"faqbot/internal/session"
	"faqbot/internal/transcript"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeCorpus(t *testing.T, text string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "faq.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return dir, path
}

func TestAskCommand(t *testing.T) {
	dir, corpus := writeCorpus(t, "Q: What are your hours?\nA: 9am-5pm Mon-Fri.\n\nQ: Where do you ship?\nA: Worldwide.")
	cfgPath := filepath.Join(dir, "missing.yaml")

	out, err := run(t, "--config", cfgPath, "ask", "--corpus", corpus, "where", "do", "you", "ship")
	require.NoError(t, err)
	require.Equal(t, "Worldwide.\n", out)

	out, err = run(t, "--config", cfgPath, "ask", "--corpus", corpus)
	require.NoError(t, err)
	require.Equal(t, "Say something and I'll try to help!\n", out)

	out, err = run(t, "--config", cfgPath, "ask", "-v", "--corpus", corpus, "zzz")
	require.NoError(t, err)
	require.Contains(t, out, "outcome=unsure")
	require.Contains(t, out, "I'm not sure I understood. Could you rephrase?")

	out, err = run(t, "--config", cfgPath, "ask", "-v", "--corpus", corpus, "where", "do", "you", "ship")
	require.NoError(t, err)
	require.Contains(t, out, "outcome=matched index=1")
	require.Contains(t, out, "  #1 item=2 score=")
	require.Contains(t, out, "  #2 item=1 score=")
	require.NotContains(t, out, "#3")
	require.True(t, strings.HasSuffix(out, "Worldwide.\n"))
}

func TestAskMissingCorpusFails(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "ask", "--corpus", filepath.Join(dir, "nope.txt"), "hi")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAskUsesDefaultCorpus(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Corpus.Path = filepath.Join(dir, "absent.txt")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	out, err := run(t, "--config", cfgPath, "ask", "what are your hours")
	require.NoError(t, err)
	require.Equal(t, "We are open Monday to Friday, 9am–5pm.\n", out)
}

func TestParseCommand(t *testing.T) {
	dir, corpus := writeCorpus(t, "The sky is blue. Water is wet.")
	out, err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "parse", "--corpus", corpus)
	require.NoError(t, err)
	require.Contains(t, out, "mode: sentences")
	require.Contains(t, out, "items: 2")
	require.Contains(t, out, "1. The sky is blue.")
	require.Contains(t, out, "2. Water is wet.")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default().Matcher, cfg.Matcher)

	_, err = run(t, "--config", path, "config", "init")
	require.Error(t, err)

	_, err = run(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
}

func TestBuildSink(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Transcript.Path = filepath.Join(dir, "t.txt")
	sink, closeSink, err := buildSink(cfg)
	require.NoError(t, err)
	require.NotNil(t, sink)
	closeSink()

	cfg.Transcript.Store = "sqlite"
	cfg.Transcript.SQLitePath = filepath.Join(dir, "t.db")
	sink, closeSink, err = buildSink(cfg)
	require.NoError(t, err)
	require.NotNil(t, sink)
	closeSink()
}

func TestBuildCapturer(t *testing.T) {
	cfg := config.Default()
	require.Nil(t, buildCapturer(cfg, nil))

	cfg.Speech.Type = "whisper"
	cfg.Speech.Whisper = &config.WhisperConfig{APIKeyEnv: "FAQBOT_TEST_KEY", Model: "whisper-1", TimeoutSecs: 5}
	t.Setenv("FAQBOT_TEST_KEY", "secret")
	require.NotNil(t, buildCapturer(cfg, nil))
}

func TestTranscriptShow(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Transcript.Store = "sqlite"
	cfg.Transcript.SQLitePath = filepath.Join(dir, "faqbot.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	store, err := transcript.OpenSQLite(cfg.Transcript.SQLitePath)
	require.NoError(t, err)
	sess := session.New(12)
	sess.Language = "fr-FR"
	sess.AddExchange("where do you ship", "Worldwide.")
	sess.AppendTranscript("where do you ship")
	_, err = store.Save(context.Background(), sess)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err := run(t, "--config", cfgPath, "transcript", "show", sess.ID)
	require.NoError(t, err)
	require.Contains(t, out, "session: "+sess.ID)
	require.Contains(t, out, "language: fr-FR")
	require.Contains(t, out, "You: where do you ship\nBot: Worldwide.\n")
	require.Contains(t, out, "transcript: where do you ship")

	_, err = run(t, "--config", cfgPath, "transcript", "show", "missing-id")
	require.ErrorIs(t, err, transcript.ErrNotFound)
}
