package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"faqbot/internal/config"
	"faqbot/internal/logger"
	"faqbot/internal/matcher"
	"faqbot/internal/service"
	"faqbot/internal/session"
	"faqbot/internal/speech"
	"faqbot/internal/transcript"
	"faqbot/internal/tui"
)

const rankCount = 3

func loadConfig() (*config.AppConfig, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

// loadService builds the chat service. corpusFlag overrides corpus.path and,
// unlike the configured path, must exist.
func loadService(cfg *config.AppConfig, corpusFlag string, log *slog.Logger) (*service.ChatService, error) {
	svc := service.NewChatService(cfg.MatcherSettings(), log)
	if corpusFlag != "" {
		if _, err := svc.LoadFile(corpusFlag); err != nil {
			return nil, err
		}
		return svc, nil
	}
	svc.LoadOrDefault(cfg.Corpus.Path, cfg.Corpus.DefaultText)
	return svc, nil
}

// loadOneShot prepares the service for commands that log to stderr.
func loadOneShot(cmd *cobra.Command, corpusFlag string) (*service.ChatService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return loadService(cfg, corpusFlag, logger.New(cmd.ErrOrStderr(), cfg.Log.Level))
}

func chatCmd() *cobra.Command {
	var corpusPath string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// the TUI owns the terminal, so logs go to a file or nowhere
			logOut := io.Discard
			if cfg.Log.File != "" {
				f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			log := logger.New(logOut, cfg.Log.Level)
			svc, err := loadService(cfg, corpusPath, log)
			if err != nil {
				return err
			}

			sink, closeSink, err := buildSink(cfg)
			if err != nil {
				return err
			}
			defer closeSink()

			sess := session.New(cfg.Chat.HistoryWindow)
			sess.Language = cfg.Speech.Language

			opts := tui.Options{Service: svc, Session: sess, Sink: sink, Logger: log}
			if capturer := buildCapturer(cfg, log); capturer != nil {
				opts.Capturer = capturer
			}
			info := svc.Info()
			log.Info("chat started", "session", sess.ID, "source", info.Source, "items", info.Items, "speech", cfg.Speech.Type)

			_, err = tea.NewProgram(tui.New(opts), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "FAQ file to load (overrides corpus.path)")
	return cmd
}

func askCmd() *cobra.Command {
	var corpusPath string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Print the reply to a single question",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadOneShot(cmd, corpusPath)
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")
			res := svc.Match(question)
			out := cmd.OutOrStdout()
			if verbose {
				fmt.Fprintf(out, "outcome=%s index=%d score=%.4f\n", res.Outcome, res.Index, res.Score)
				if res.Outcome != matcher.OutcomeEmpty {
					for i, r := range svc.Matcher().Rank(question, rankCount) {
						fmt.Fprintf(out, "  #%d item=%d score=%.4f %s\n", i+1, r.Index+1, r.Score, r.Outcome)
					}
				}
			}
			fmt.Fprintln(out, res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "FAQ file to load (overrides corpus.path)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print the outcome, score and closest items")
	return cmd
}

func parseCmd() *cobra.Command {
	var corpusPath string
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Show how the corpus was parsed",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadOneShot(cmd, corpusPath)
			if err != nil {
				return err
			}
			info := svc.Info()
			m := svc.Matcher()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source: %s\nmode: %s\nitems: %d\n", info.Source, info.Mode, info.Items)
			if len(info.Keywords) > 0 {
				fmt.Fprintf(out, "topics: %s\n", strings.Join(info.Keywords, ", "))
			}
			items, payloads := m.Items(), m.Payloads()
			for i := range items {
				if m.Mode() == matcher.ModeQA {
					fmt.Fprintf(out, "%d. Q: %s\n   A: %s\n", i+1, items[i], payloads[i])
				} else {
					fmt.Fprintf(out, "%d. %s\n", i+1, items[i])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "FAQ file to load (overrides corpus.path)")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				p, err := config.DefaultUserConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func transcriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Inspect saved chat sessions",
	}
	show := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session saved in the SQLite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := transcript.OpenSQLite(cfg.Transcript.SQLitePath)
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load session %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session: %s\nstarted: %s\n", sess.ID, sess.StartedAt.Format(time.RFC3339))
			if sess.Language != "" {
				fmt.Fprintf(out, "language: %s\n", sess.Language)
			}
			for _, m := range sess.History {
				who := "Bot"
				if m.Role == session.RoleUser {
					who = "You"
				}
				fmt.Fprintf(out, "%s: %s\n", who, m.Text)
			}
			if sess.Transcript != "" {
				fmt.Fprintf(out, "transcript: %s\n", sess.Transcript)
			}
			return nil
		},
	}
	cmd.AddCommand(show)
	return cmd
}

func buildSink(cfg *config.AppConfig) (transcript.Sink, func(), error) {
	switch cfg.Transcript.Store {
	case "sqlite":
		s, err := transcript.OpenSQLite(cfg.Transcript.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return transcript.NewFileSink(cfg.Transcript.Path), func() {}, nil
	}
}

// buildCapturer returns nil when voice input is disabled.
func buildCapturer(cfg *config.AppConfig, log *slog.Logger) *speech.Capturer {
	if cfg.Speech.Type != "whisper" || cfg.Speech.Whisper == nil {
		return nil
	}
	w := cfg.Speech.Whisper
	apiKey := os.Getenv(w.APIKeyEnv)
	if apiKey == "" {
		log.Warn("speech api key not set", "env", w.APIKeyEnv)
	}
	return speech.NewCapturer(speech.CapturerConfig{
		Recorder: speech.NewCommandRecorder(cfg.Speech.Recorder.Command, cfg.Speech.Recorder.Args),
		Transcriber: speech.NewWhisper(speech.WhisperConfig{
			APIBase: w.BaseURL,
			APIKey:  apiKey,
			Model:   w.Model,
			Timeout: time.Duration(w.TimeoutSecs) * time.Second,
			Logger:  log,
		}),
		Chunk:   time.Duration(cfg.Speech.ChunkSecs) * time.Second,
		Timeout: time.Duration(cfg.Speech.TimeoutSecs) * time.Second,
	})
}
