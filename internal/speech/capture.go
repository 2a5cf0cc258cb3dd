package speech

import (
	"bytes"
	"context"
	"errors"
	"time"
)

const (
	defaultChunk   = 6 * time.Second
	defaultTimeout = 8 * time.Second
)

// Capturer records one chunk of speech and transcribes it.
type Capturer struct {
	recorder    Recorder
	transcriber Transcriber
	chunk       time.Duration
	timeout     time.Duration
}

// CapturerConfig wires a Capturer.
type CapturerConfig struct {
	Recorder    Recorder
	Transcriber Transcriber
	// Chunk is the maximum length of one recording.
	Chunk time.Duration
	// Timeout bounds the wait for speech on top of Chunk.
	Timeout time.Duration
}

// NewCapturer returns a Capturer with defaults for unset durations.
func NewCapturer(cfg CapturerConfig) *Capturer {
	if cfg.Chunk <= 0 {
		cfg.Chunk = defaultChunk
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Capturer{
		recorder:    cfg.Recorder,
		transcriber: cfg.Transcriber,
		chunk:       cfg.Chunk,
		timeout:     cfg.Timeout,
	}
}

// Capture records a chunk and returns its transcription in language.
func (c *Capturer) Capture(ctx context.Context, language string) (string, error) {
	if c.recorder == nil || c.transcriber == nil {
		return "", newError(KindDevice, "capture", errors.New("speech capture is not configured"))
	}
	recordCtx, cancel := context.WithTimeout(ctx, c.chunk+c.timeout)
	defer cancel()

	audio, err := c.recorder.Record(recordCtx, c.chunk)
	if err != nil {
		return "", err
	}
	return c.transcriber.Transcribe(ctx, bytes.NewReader(audio), "chunk.wav", language)
}
