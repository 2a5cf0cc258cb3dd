package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"faqbot/internal/logger"
)

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error)
}

// WhisperConfig configures the Whisper speech-to-text client.
type WhisperConfig struct {
	APIBase string // e.g. "https://api.openai.com/v1"
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Whisper transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint.
type Whisper struct {
	apiBase string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewWhisper creates a Whisper client, filling unset fields with defaults.
func NewWhisper(cfg WhisperConfig) *Whisper {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	return &Whisper{
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger,
	}
}

type transcriptionResult struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Transcribe uploads audio and returns the recognised text. language is a
// BCP-47 or ISO-639-1 code; empty lets the service detect it.
func (w *Whisper) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", newError(KindDevice, "transcribe", fmt.Errorf("copy audio data: %w", err))
	}
	_ = writer.WriteField("model", w.model)
	_ = writer.WriteField("response_format", "json")
	if lang := ISO639(language); lang != "" {
		_ = writer.WriteField("language", lang)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.apiBase+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return "", newError(KindTimeout, "transcribe", err)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", newError(KindUnavailable, "transcribe", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", newError(KindUnavailable, "transcribe",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var result transcriptionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", newError(KindUnavailable, "transcribe", fmt.Errorf("decode response: %w", err))
	}
	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", newError(KindUnintelligible, "transcribe", nil)
	}

	w.logger.Debug("transcription complete",
		"text_len", len(text),
		"language", result.Language,
		"duration", result.Duration,
	)
	return text, nil
}
