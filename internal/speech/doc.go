// Package speech captures spoken utterances for the chat front end.
//
// A Capturer records one chunk of audio through a Recorder and hands it to a
// Transcriber. Every failure is reported as an *Error tagged with a Kind
// (timeout, device, unintelligible, unavailable) so callers can decide
// whether to keep listening without inspecting backend-specific errors.
package speech
