package tts

// ChunkType classifies the structural origin of a chunk of speakable text.
type ChunkType int

const (
	// ChunkParagraph is a plain paragraph line.
	ChunkParagraph ChunkType = iota
	// ChunkH1 is a level-one heading.
	ChunkH1
	// ChunkH2 is a level-two heading.
	ChunkH2
	// ChunkH3 is a level-three heading.
	ChunkH3
	// ChunkH4 is a level-four heading.
	ChunkH4
	// ChunkListItem is a bulleted or numbered list entry.
	ChunkListItem
	// ChunkBlockquote is a quoted line.
	ChunkBlockquote
	// ChunkNewline is an interior line of a multi-line paragraph.
	ChunkNewline
)

// String returns the string representation of the chunk type.
func (t ChunkType) String() string {
	switch t {
	case ChunkParagraph:
		return "paragraph"
	case ChunkH1:
		return "h1"
	case ChunkH2:
		return "h2"
	case ChunkH3:
		return "h3"
	case ChunkH4:
		return "h4"
	case ChunkListItem:
		return "list-item"
	case ChunkBlockquote:
		return "blockquote"
	case ChunkNewline:
		return "newline"
	default:
		return "unknown"
	}
}

// Chunk is one speakable unit of text. Chunks are immutable once produced;
// Text is markdown-stripped and never empty.
type Chunk struct {
	Text       string    // Speakable content
	Type       ChunkType // Structural classification
	PauseAfter int       // Silence after the chunk, in milliseconds
}

// Voice describes one synthesis voice offered by an engine. Identity is Name.
type Voice struct {
	Name     string  // Engine-level identifier
	Language string  // BCP 47 language tag, e.g. "en-US"
	Local    bool    // True when synthesis needs no network
	Score    float64 // Selector ranking, higher is better
}

// Synthesis error codes delivered to SpeakRequest.OnError.
const (
	// ErrCodeCanceled and ErrCodeInterrupted signal deliberate cancellation.
	ErrCodeCanceled    = "canceled"
	ErrCodeInterrupted = "interrupted"
	// ErrCodeNetwork, ErrCodeSynthesis and ErrCodeAudioBusy are transient;
	// playback logs them and advances.
	ErrCodeNetwork   = "network"
	ErrCodeSynthesis = "synthesis"
	ErrCodeAudioBusy = "audio-busy"
)

// SpeakRequest carries one utterance to a Synthesizer. Exactly one of OnEnd
// or OnError fires per accepted request, asynchronously.
type SpeakRequest struct {
	Text  string
	Rate  float64 // Speed multiplier, 1.0 = normal
	Pitch float64 // Pitch multiplier, 1.0 = normal
	Voice string  // Voice name, empty for the engine default

	OnEnd   func()            // Utterance spoke to completion
	OnError func(code string) // Utterance failed or was canceled
}

// Synthesizer adapts an external speech engine. The engine speaks one
// utterance to completion or cancels it; it cannot seek and exposes no
// mid-utterance position.
type Synthesizer interface {
	// Speak submits one utterance. The call returns once the utterance is
	// accepted; completion arrives later via the request handlers.
	Speak(req SpeakRequest) error

	// Cancel discards the in-flight utterance, if any. Cancellation is
	// synchronous from the caller's perspective; a late engine event for
	// the canceled utterance surfaces as OnError(ErrCodeCanceled).
	Cancel()

	// Voices lists the currently available voices. May be empty until the
	// engine finishes loading them.
	Voices() []Voice

	// NotifyVoicesChanged registers fn to run when voices become available
	// after initialization. Fired at most once per registration.
	NotifyVoicesChanged(fn func())
}

// Store persists user playback preferences and position checkpoints.
type Store interface {
	Rate() (float64, bool)
	SaveRate(rate float64)
	VoiceName() (string, bool)
	SaveVoiceName(name string)
	SaveCheckpoint(position, total int)
	Checkpoint() (position int, ok bool)
}

// WakeLock keeps the system awake while speaking. Best effort: Request may
// fail and playback continues without it.
type WakeLock interface {
	Request() error
	Release()
}

// Progress is a snapshot of live playback state emitted on every tick.
type Progress struct {
	Position   int     // Seconds into the estimated total
	Total      int     // Estimated total duration in seconds
	Percent    float64 // Position over total, 0 to 100
	Rate       float64
	IsPlaying  bool
	IsPaused   bool
	ChunkIndex int
	ChunkCount int
}

// Hooks are the named handlers a controller owner supplies at construction.
// Any hook may be nil.
type Hooks struct {
	OnProgress   func(Progress)                     // Every tick and on seeks
	OnCheckpoint func(position, total int)          // Periodic position persistence
	OnComplete   func()                             // Final chunk finished speaking
	OnVoices     func(selected string, all []Voice) // Voice list resolved
}
