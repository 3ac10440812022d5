package tts

// Status represents the playback state of a session.
type Status int

const (
	// StatusStopped indicates playback is not active.
	StatusStopped Status = iota
	// StatusPlaying indicates chunks are being spoken.
	StatusPlaying
	// StatusPaused indicates playback is suspended at a known chunk.
	StatusPaused
	// StatusEnded indicates the final chunk finished speaking. Equivalent
	// to StatusStopped except position is pinned to the total duration.
	StatusEnded
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// PlaybackState is a copyable snapshot of a playback session.
type PlaybackState struct {
	Status     Status
	ChunkIndex int     // 0 <= ChunkIndex < ChunkCount, or 0 when empty
	ChunkCount int
	Position   int     // Estimated seconds elapsed, 0 <= Position <= Total
	Total      int     // Estimated total seconds
	Rate       float64
	Voice      string  // Selected voice name, empty for engine default
}

// IsPlaying reports whether chunks are actively being spoken.
func (s PlaybackState) IsPlaying() bool { return s.Status == StatusPlaying }

// IsPaused reports whether playback is suspended.
func (s PlaybackState) IsPaused() bool { return s.Status == StatusPaused }

// IsActive reports whether the session holds a position worth preserving.
func (s PlaybackState) IsActive() bool {
	return s.Status == StatusPlaying || s.Status == StatusPaused
}

// Percent returns the position as a percentage of the total.
func (s PlaybackState) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Position) / float64(s.Total) * 100
}
