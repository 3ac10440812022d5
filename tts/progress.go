package tts

import (
	"time"

	"golang.org/x/time/rate"
)

// Notifier fans playback state out to the owner's hooks and throttles
// checkpoint persistence. The periodic tick and the opportunistic
// checkpoints taken on pause, seek and teardown share one limiter so a burst
// of operations never hammers the store.
type Notifier struct {
	hooks   Hooks
	limiter *rate.Limiter
}

// NewNotifier creates a notifier delivering to hooks, checkpointing at most
// once per interval (forced checkpoints excepted).
func NewNotifier(hooks Hooks, checkpointInterval time.Duration) *Notifier {
	if checkpointInterval <= 0 {
		checkpointInterval = 10 * time.Second
	}
	return &Notifier{
		hooks:   hooks,
		limiter: rate.NewLimiter(rate.Every(checkpointInterval), 1),
	}
}

// Progress emits a progress event.
func (n *Notifier) Progress(ev Progress) {
	if n.hooks.OnProgress != nil {
		n.hooks.OnProgress(ev)
	}
}

// MaybeCheckpoint persists the position if the checkpoint interval has
// elapsed since the last one.
func (n *Notifier) MaybeCheckpoint(position, total int) {
	if n.hooks.OnCheckpoint == nil {
		return
	}
	if n.limiter.Allow() {
		n.hooks.OnCheckpoint(position, total)
	}
}

// Checkpoint persists the position unconditionally. Used on pause, seek,
// stop with progress, and session teardown.
func (n *Notifier) Checkpoint(position, total int) {
	if n.hooks.OnCheckpoint != nil {
		n.hooks.OnCheckpoint(position, total)
	}
}

// Complete signals that the final chunk finished speaking.
func (n *Notifier) Complete() {
	if n.hooks.OnComplete != nil {
		n.hooks.OnComplete()
	}
}

// Voices reports the resolved voice list and the selected voice name.
func (n *Notifier) Voices(selected string, all []Voice) {
	if n.hooks.OnVoices != nil {
		n.hooks.OnVoices(selected, all)
	}
}
