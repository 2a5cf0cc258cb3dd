package session

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a capture command does not apply to
// the current state.
var ErrInvalidTransition = errors.New("invalid capture transition")

// CaptureState is the voice capture lifecycle:
//
//	Idle -> Listening <-> Paused
//	Listening, Paused -> Stopped -> Listening
type CaptureState string

const (
	CaptureIdle      CaptureState = "idle"
	CaptureListening CaptureState = "listening"
	CapturePaused    CaptureState = "paused"
	CaptureStopped   CaptureState = "stopped"
)

// Start begins listening from Idle or Stopped.
func (s *Session) Start() error {
	return s.move("start", CaptureListening, CaptureIdle, CaptureStopped)
}

// Pause suspends an active capture.
func (s *Session) Pause() error {
	return s.move("pause", CapturePaused, CaptureListening)
}

// Resume continues a paused capture.
func (s *Session) Resume() error {
	return s.move("resume", CaptureListening, CapturePaused)
}

// Stop ends a listening or paused capture.
func (s *Session) Stop() error {
	return s.move("stop", CaptureStopped, CaptureListening, CapturePaused)
}

// Listening reports whether audio should currently be captured.
func (s *Session) Listening() bool { return s.Capture == CaptureListening }

func (s *Session) move(op string, to CaptureState, from ...CaptureState) error {
	current := s.Capture
	if current == "" {
		current = CaptureIdle
	}
	for _, f := range from {
		if current == f {
			s.Capture = to
			return nil
		}
	}
	return fmt.Errorf("%s from %s: %w", op, current, ErrInvalidTransition)
}
