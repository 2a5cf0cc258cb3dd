// Package transcript persists chat sessions when the user asks to save them.
package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"faqbot/internal/session"
)

// Sink stores a session and reports where it went.
type Sink interface {
	Save(ctx context.Context, s *session.Session) (location string, err error)
}

// FileSink writes the plain speech transcript to a UTF-8 text file.
type FileSink struct {
	Path string
}

// NewFileSink returns a sink writing to path.
func NewFileSink(path string) *FileSink {
	if path == "" {
		path = "transcript.txt"
	}
	return &FileSink{Path: path}
}

// Save overwrites the file with the session transcript.
func (f *FileSink) Save(_ context.Context, s *session.Session) (string, error) {
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create transcript directory: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, []byte(s.Transcript), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return f.Path, nil
}
