package speech

import (
	"errors"
)

// Kind classifies capture failures so the front end can react without
// knowing which recorder or recognition service produced them.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTimeout means no speech arrived before the deadline.
	KindTimeout
	// KindDevice means the audio input could not be opened or read.
	KindDevice
	// KindUnintelligible means audio was captured but yielded no text.
	KindUnintelligible
	// KindUnavailable means the recognition service failed the request.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindDevice:
		return "device"
	case KindUnintelligible:
		return "unintelligible"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified capture failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of err, or KindUnknown if err is not a capture error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// UserMessage renders err for display in the chat.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindTimeout:
		return "No speech detected before timeout. Try speaking sooner or increase the timeout."
	case KindDevice:
		return "Microphone error: " + cause(err) + ". Check that a mic is connected and allowed."
	case KindUnintelligible:
		return "Audio was not clear enough to understand. Please speak clearly and try again."
	case KindUnavailable:
		return "Speech service request failed: " + cause(err)
	default:
		return err.Error()
	}
}

func cause(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}
