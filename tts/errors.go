package tts

import "errors"

// Common errors for the playback system.
var (
	// Engine errors
	ErrEngineNotAvailable = errors.New("synthesis engine is not available")
	ErrEngineBusy         = errors.New("synthesis engine already has an utterance in flight")
	ErrVoiceNotFound      = errors.New("requested voice not found")
	ErrNoVoices           = errors.New("no synthesis voices available")

	// Content errors
	ErrEmptyContent = errors.New("empty content provided")
	ErrNoChunks     = errors.New("no speakable chunks in content")

	// Controller errors
	ErrInvalidRate  = errors.New("rate outside configured choices")
	ErrClosed       = errors.New("controller has been closed")
	ErrInvalidIndex = errors.New("chunk index out of range")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IsCancellation reports whether a synthesis error code represents a
// deliberate cancellation rather than a failure.
func IsCancellation(code string) bool {
	return code == ErrCodeCanceled || code == ErrCodeInterrupted
}
