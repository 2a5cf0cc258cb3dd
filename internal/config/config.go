package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"faqbot/internal/matcher"
	"faqbot/internal/session"
)

const defaultCorpusText = "Q: What are your hours?\nA: We are open Monday to Friday, 9am–5pm."

// MatcherConfig holds the matching threshold and canned replies.
type MatcherConfig struct {
	Threshold   float64 `yaml:"threshold"`
	EmptyReply  string  `yaml:"empty_reply"`
	UnsureReply string  `yaml:"unsure_reply"`
	Placeholder string  `yaml:"placeholder"`
}

// CorpusConfig says where the knowledge base comes from.
type CorpusConfig struct {
	Path        string `yaml:"path"`
	DefaultText string `yaml:"default_text"`
}

// ChatConfig configures the chat view.
type ChatConfig struct {
	HistoryWindow int `yaml:"history_window"`
}

// RecorderConfig describes the external audio recorder command.
type RecorderConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// WhisperConfig holds connection details for the Whisper transcriber.
type WhisperConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// SpeechConfig selects and configures voice input.
type SpeechConfig struct {
	Type        string         `yaml:"type"`
	Language    string         `yaml:"language"`
	ChunkSecs   int            `yaml:"chunk_secs"`
	TimeoutSecs int            `yaml:"timeout_secs"`
	Recorder    RecorderConfig `yaml:"recorder"`
	Whisper     *WhisperConfig `yaml:"whisper,omitempty"`
}

// TranscriptConfig selects where saved sessions go.
type TranscriptConfig struct {
	Store      string `yaml:"store"`
	Path       string `yaml:"path"`
	SQLitePath string `yaml:"sqlite_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Matcher    MatcherConfig    `yaml:"matcher"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Chat       ChatConfig       `yaml:"chat"`
	Speech     SpeechConfig     `yaml:"speech"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Log        LogConfig        `yaml:"log"`
}

// MatcherSettings converts the matcher section for matcher.New.
func (c *AppConfig) MatcherSettings() matcher.Config {
	return matcher.Config{
		Threshold:   c.Matcher.Threshold,
		EmptyReply:  c.Matcher.EmptyReply,
		UnsureReply: c.Matcher.UnsureReply,
		Placeholder: c.Matcher.Placeholder,
	}
}

// Validate reports settings that cannot work.
func (c *AppConfig) Validate() error {
	if c.Matcher.Threshold <= 0 || c.Matcher.Threshold > 1 {
		return fmt.Errorf("matcher.threshold must be within (0,1], got %v", c.Matcher.Threshold)
	}
	switch c.Speech.Type {
	case "none", "whisper":
	default:
		return fmt.Errorf("unknown speech type: %s", c.Speech.Type)
	}
	switch c.Transcript.Store {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown transcript store: %s", c.Transcript.Store)
	}
	return nil
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid config: %w", err)
			}
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/faqbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/faqbot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultUserConfigPath returns ~/.config/faqbot/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "faqbot", "config.yaml"), nil
}

// Default returns a fresh default configuration.
func Default() *AppConfig { return defaultConfig() }

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Matcher: MatcherConfig{
			Threshold:   matcher.DefaultThreshold,
			EmptyReply:  matcher.DefaultEmptyReply,
			UnsureReply: matcher.DefaultUnsureReply,
			Placeholder: matcher.DefaultPlaceholder,
		},
		Corpus: CorpusConfig{Path: "corpus.txt", DefaultText: defaultCorpusText},
		Chat:   ChatConfig{HistoryWindow: session.DefaultWindow},
		Speech: SpeechConfig{
			Type:        "none",
			Language:    "en-US",
			ChunkSecs:   6,
			TimeoutSecs: 8,
			Recorder: RecorderConfig{
				Command: "arecord",
				Args:    []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav", "-d", "{seconds}"},
			},
		},
		Transcript: TranscriptConfig{Store: "file", Path: "transcript.txt", SQLitePath: "faqbot.db"},
		Log:        LogConfig{Level: "info"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Matcher.Threshold == 0 {
		cfg.Matcher.Threshold = def.Matcher.Threshold
	}
	if cfg.Matcher.EmptyReply == "" {
		cfg.Matcher.EmptyReply = def.Matcher.EmptyReply
	}
	if cfg.Matcher.UnsureReply == "" {
		cfg.Matcher.UnsureReply = def.Matcher.UnsureReply
	}
	if cfg.Matcher.Placeholder == "" {
		cfg.Matcher.Placeholder = def.Matcher.Placeholder
	}
	if cfg.Corpus.DefaultText == "" {
		cfg.Corpus.DefaultText = def.Corpus.DefaultText
	}
	if cfg.Chat.HistoryWindow <= 0 {
		cfg.Chat.HistoryWindow = def.Chat.HistoryWindow
	}
	if cfg.Speech.Type == "" {
		cfg.Speech.Type = def.Speech.Type
	}
	if cfg.Speech.Language == "" {
		cfg.Speech.Language = def.Speech.Language
	}
	if cfg.Speech.ChunkSecs <= 0 {
		cfg.Speech.ChunkSecs = def.Speech.ChunkSecs
	}
	if cfg.Speech.TimeoutSecs <= 0 {
		cfg.Speech.TimeoutSecs = def.Speech.TimeoutSecs
	}
	if cfg.Speech.Recorder.Command == "" {
		cfg.Speech.Recorder = def.Speech.Recorder
	}
	if cfg.Speech.Type == "whisper" {
		if cfg.Speech.Whisper == nil {
			cfg.Speech.Whisper = &WhisperConfig{}
		}
		if cfg.Speech.Whisper.BaseURL == "" {
			cfg.Speech.Whisper.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Speech.Whisper.APIKeyEnv == "" {
			cfg.Speech.Whisper.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Speech.Whisper.Model == "" {
			cfg.Speech.Whisper.Model = "whisper-1"
		}
		if cfg.Speech.Whisper.TimeoutSecs == 0 {
			cfg.Speech.Whisper.TimeoutSecs = 60
		}
	}
	if cfg.Transcript.Store == "" {
		cfg.Transcript.Store = def.Transcript.Store
	}
	if cfg.Transcript.Path == "" {
		cfg.Transcript.Path = def.Transcript.Path
	}
	if cfg.Transcript.SQLitePath == "" {
		cfg.Transcript.SQLitePath = def.Transcript.SQLitePath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("FAQBOT_CORPUS"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("FAQBOT_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matcher.Threshold = parsed
		}
	}
	if v := os.Getenv("FAQBOT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
