package session

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s := New(0)
	require.NotEmpty(t, s.ID)
	require.Equal(t, DefaultWindow, s.Window)
	require.Equal(t, CaptureIdle, s.Capture)
	require.NotEqual(t, s.ID, New(0).ID)
}

func TestRecentKeepsWindow(t *testing.T) {
	s := New(4)
	for i := 0; i < 5; i++ {
		s.AddExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	require.Len(t, s.History, 10)

	recent := s.Recent()
	require.Len(t, recent, 4)
	require.Equal(t, Message{Role: RoleUser, Text: "q3", At: recent[0].At}, recent[0])
	require.Equal(t, "a4", recent[3].Text)
	require.Equal(t, RoleAssistant, recent[3].Role)
}

func TestRecentShortHistory(t *testing.T) {
	s := New(12)
	s.AddExchange("hi", "hello")
	require.Len(t, s.Recent(), 2)
}

func TestAppendTranscript(t *testing.T) {
	s := New(0)
	s.AppendTranscript("  hello ")
	s.AppendTranscript("")
	s.AppendTranscript("world")
	require.Equal(t, "hello world", s.Transcript)
}

func TestCaptureTransitions(t *testing.T) {
	s := New(0)

	require.ErrorIs(t, s.Pause(), ErrInvalidTransition)
	require.ErrorIs(t, s.Resume(), ErrInvalidTransition)
	require.ErrorIs(t, s.Stop(), ErrInvalidTransition)

	require.NoError(t, s.Start())
	require.True(t, s.Listening())
	require.ErrorIs(t, s.Start(), ErrInvalidTransition)

	require.NoError(t, s.Pause())
	require.Equal(t, CapturePaused, s.Capture)
	require.False(t, s.Listening())
	require.ErrorIs(t, s.Pause(), ErrInvalidTransition)

	require.NoError(t, s.Resume())
	require.True(t, s.Listening())

	require.NoError(t, s.Stop())
	require.Equal(t, CaptureStopped, s.Capture)

	require.NoError(t, s.Start())
	require.NoError(t, s.Pause())
	require.NoError(t, s.Stop())
	require.Equal(t, CaptureStopped, s.Capture)
}

func TestZeroValueCaptureIsIdle(t *testing.T) {
	var s Session
	require.NoError(t, s.Start())
	require.Equal(t, CaptureListening, s.Capture)
}

func TestSessionRoundTripsThroughJSON(t *testing.T) {
	s := New(6)
	s.AddExchange("hi", "hello")
	s.AppendTranscript("hi")
	require.NoError(t, s.Start())

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var back Session
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, s.ID, back.ID)
	require.Equal(t, s.Transcript, back.Transcript)
	require.Equal(t, CaptureListening, back.Capture)
	require.Len(t, back.History, 2)
}
