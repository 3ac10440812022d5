// Package tts drives an external speech-synthesis engine through a sequence
// of text chunks while presenting the illusion of a seekable, pausable,
// rate-adjustable audio player. The underlying engine can only speak one
// utterance to completion or cancel it, so position is an estimate, not
// ground truth.
package tts

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Pitch is fixed; the engines we drive sound unnatural off 1.0.
const defaultPitch = 1.0

// Controller owns one playback session: it submits chunks to the synthesizer
// one at a time, schedules inter-chunk pauses, and reconciles the estimated
// position. One instance per loaded content; operations are safe for
// concurrent use and serialized by an internal mutex.
type Controller struct {
	mu sync.Mutex

	engine   Synthesizer
	store    Store
	wake     WakeLock
	selector *VoiceSelector
	notifier *Notifier
	cfg      Config

	chunks   []Chunk
	status   Status
	index    int
	position int // estimated seconds elapsed
	total    int // estimated seconds overall
	rate     float64
	voice    string

	// Snapshot taken on pause, restored verbatim on resume.
	pausedIndex    int
	pausedPosition int

	// gen invalidates callbacks and timers belonging to a canceled or
	// superseded utterance. Every cancellation bumps it; handlers compare
	// their captured value before touching state.
	gen       uint64
	nextTimer *time.Timer
	tickDone  chan struct{}

	wakeHeld bool
	closed   bool
}

// NewController creates a playback controller around the given
// collaborators. Rate and voice preferences are restored from the store.
// Store and wake may be nil for callers that do not persist or inhibit
// sleep.
func NewController(engine Synthesizer, store Store, wake WakeLock, cfg Config, hooks Hooks) *Controller {
	c := &Controller{
		engine:   engine,
		store:    store,
		wake:     wake,
		selector: NewVoiceSelector(cfg),
		notifier: NewNotifier(hooks, cfg.CheckpointInterval),
		cfg:      cfg,
		status:   StatusStopped,
		rate:     1.0,
	}
	if store != nil {
		if r, ok := store.Rate(); ok && r > 0 {
			c.rate = r
		}
		if name, ok := store.VoiceName(); ok {
			c.voice = name
		}
	}
	return c
}

// Load installs a fresh chunk sequence, discarding any previous session
// state. A persisted checkpoint is applied as the starting position without
// auto-playing. Zero chunks yield zero duration and an immediate ended
// state.
func (c *Controller) Load(chunks []Chunk) {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.stopTickerLocked()
	c.releaseWakeLocked()

	c.chunks = chunks
	c.index = 0
	c.position = 0
	c.total = Estimate(chunks, c.rate, c.cfg.BaseWPM)
	c.pausedIndex = 0
	c.pausedPosition = 0

	if len(chunks) == 0 {
		c.status = StatusEnded
	} else {
		c.status = StatusStopped
		if c.store != nil {
			if pos, ok := c.store.Checkpoint(); ok {
				c.seekLocked(pos)
			}
		}
	}

	c.selector.Reset()
	var voicesReady bool
	if voices := c.engine.Voices(); len(voices) > 0 {
		c.refreshVoicesLocked(voices)
		voicesReady = true
	}
	selected, candidates := c.voice, c.selector.Candidates()
	ev := c.progressLocked()
	c.mu.Unlock()

	if voicesReady {
		c.notifier.Voices(selected, candidates)
	} else {
		// Registered outside the lock: an engine whose voices finished
		// loading fires the callback inline, and onVoicesAvailable takes
		// the lock itself. The selector's refresh latch dedupes a double
		// delivery.
		c.engine.NotifyVoicesChanged(c.onVoicesAvailable)
	}
	c.notifier.Progress(ev)
}

// onVoicesAvailable handles the engine's deferred voice availability event.
func (c *Controller) onVoicesAvailable() {
	c.mu.Lock()
	if c.selector.Refreshed() {
		c.mu.Unlock()
		return
	}
	c.refreshVoicesLocked(c.engine.Voices())
	selected, candidates := c.voice, c.selector.Candidates()
	c.mu.Unlock()

	c.notifier.Voices(selected, candidates)
}

// refreshVoicesLocked rebuilds voice candidates and resolves the active
// voice. An empty candidate list degrades to the engine default.
func (c *Controller) refreshVoicesLocked(all []Voice) {
	candidates := c.selector.Refresh(all)
	last := c.voice
	if last == "" && c.store != nil {
		if name, ok := c.store.VoiceName(); ok {
			last = name
		}
	}
	if v, ok := c.selector.Select(last); ok {
		c.voice = v.Name
	} else {
		log.Warn("no candidate voices, using engine default", "available", len(all))
		c.voice = ""
	}
	log.Debug("voices refreshed", "candidates", len(candidates), "selected", c.voice)
}

// Play starts playback at the current chunk. Playing is a no-op; paused is
// equivalent to Resume.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	switch c.status {
	case StatusPlaying:
		c.mu.Unlock()
		return
	case StatusPaused:
		c.resumeLocked()
	default:
		c.status = StatusPlaying
		c.acquireWakeLocked()
		c.startTickerLocked()
		c.speakLocked(c.index)
	}
	done, ev := c.status == StatusEnded, c.progressLocked()
	c.mu.Unlock()

	c.notifier.Progress(ev)
	if done {
		c.notifier.Complete()
	}
}

// Pause suspends playback, snapshotting the current chunk and position.
// No-op unless playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.status != StatusPlaying {
		c.mu.Unlock()
		return
	}
	c.cancelPendingLocked()
	c.pausedIndex = c.index
	c.pausedPosition = c.position
	c.stopTickerLocked()
	c.releaseWakeLocked()
	c.status = StatusPaused
	pos, total, ev := c.position, c.total, c.progressLocked()
	c.mu.Unlock()

	c.notifier.Checkpoint(pos, total)
	c.notifier.Progress(ev)
}

// Resume continues from the pause snapshot. The engine has no mid-utterance
// resume, so the current chunk restarts from its beginning. No-op unless
// paused.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.status != StatusPaused {
		c.mu.Unlock()
		return
	}
	c.resumeLocked()
	ev := c.progressLocked()
	c.mu.Unlock()

	c.notifier.Progress(ev)
}

func (c *Controller) resumeLocked() {
	c.index = c.pausedIndex
	c.position = c.pausedPosition
	c.status = StatusPlaying
	c.acquireWakeLocked()
	c.startTickerLocked()
	c.speakLocked(c.index)
}

// Stop cancels all timers and the in-flight utterance and leaves the
// position and index where they are.
func (c *Controller) Stop() {
	c.mu.Lock()
	hadProgress := c.status == StatusPlaying || c.status == StatusPaused
	c.cancelPendingLocked()
	c.stopTickerLocked()
	c.releaseWakeLocked()
	c.status = StatusStopped
	pos, total := c.position, c.total
	c.mu.Unlock()

	if hadProgress {
		c.notifier.Checkpoint(pos, total)
	}
}

// SkipForward jumps ahead by sec seconds, clamped to the total duration.
// sec <= 0 uses the configured default.
func (c *Controller) SkipForward(sec int) {
	if sec <= 0 {
		sec = c.cfg.SkipSeconds
	}
	c.reseek(func(pos int) int { return pos + sec })
}

// SkipBackward jumps back by sec seconds, clamped to zero. sec <= 0 uses
// the configured default.
func (c *Controller) SkipBackward(sec int) {
	if sec <= 0 {
		sec = c.cfg.SkipSeconds
	}
	c.reseek(func(pos int) int { return pos - sec })
}

// SeekToPosition moves the estimated position to sec seconds, clamped into
// range, and recomputes the chunk index proportionally. Chunk boundaries are
// not time-exact; the mapping is an approximation.
func (c *Controller) SeekToPosition(sec int) {
	c.reseek(func(int) int { return sec })
}

// SeekToPercent converts a percentage into seconds and seeks there.
func (c *Controller) SeekToPercent(pct float64) {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	c.mu.Lock()
	total := c.total
	c.mu.Unlock()
	c.SeekToPosition(int(math.Round(pct / 100 * float64(total))))
}

// reseek applies a position transform with the stop/seek/resume discipline:
// whatever should be speaking is canceled before state changes, and playback
// restarts at the new chunk only if it was running before.
func (c *Controller) reseek(target func(pos int) int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	wasPlaying := c.status == StatusPlaying
	c.cancelPendingLocked()
	if wasPlaying {
		c.stopTickerLocked()
		c.releaseWakeLocked()
		c.status = StatusStopped
	}
	c.seekLocked(target(c.position))
	if c.status == StatusEnded && c.position < c.total {
		c.status = StatusStopped
	}
	pos, total, ev := c.position, c.total, c.progressLocked()
	c.mu.Unlock()

	c.notifier.Progress(ev)
	c.notifier.Checkpoint(pos, total)

	if wasPlaying {
		c.Play()
	}
}

// seekLocked clamps the position and derives the chunk index from it. The
// pause snapshot follows so a seek while paused sticks across resume.
func (c *Controller) seekLocked(sec int) {
	if sec < 0 {
		sec = 0
	} else if sec > c.total {
		sec = c.total
	}
	c.position = sec

	if len(c.chunks) > 0 && c.total > 0 {
		idx := int(float64(sec) / float64(c.total) * float64(len(c.chunks)))
		if idx >= len(c.chunks) {
			idx = len(c.chunks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		c.index = idx
	} else {
		c.index = 0
	}

	c.pausedIndex = c.index
	c.pausedPosition = c.position
}

// SetRate changes the speech rate, persists the preference, and recomputes
// the estimated total. If playing, speech restarts at the current chunk with
// the new rate.
func (c *Controller) SetRate(rate float64) {
	if rate <= 0 {
		log.Warn("ignoring non-positive rate", "rate", rate)
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.store != nil {
		c.store.SaveRate(rate)
	}
	c.rate = rate
	c.total = Estimate(c.chunks, rate, c.cfg.BaseWPM)
	if c.position > c.total {
		c.position = c.total
	}
	if c.pausedPosition > c.total {
		c.pausedPosition = c.total
	}
	if c.status == StatusPlaying {
		c.cancelPendingLocked()
		c.speakLocked(c.index)
	}
	ev := c.progressLocked()
	c.mu.Unlock()

	c.notifier.Progress(ev)
}

// CycleRate advances circularly through the configured rate choices.
func (c *Controller) CycleRate() float64 {
	c.mu.Lock()
	rates := c.cfg.Rates
	current := c.rate
	c.mu.Unlock()
	if len(rates) == 0 {
		return current
	}

	next := rates[0]
	for i, r := range rates {
		if r == current {
			next = rates[(i+1)%len(rates)]
			break
		}
	}
	c.SetRate(next)
	return next
}

// SetVoice resolves name among the current candidates. When found, the
// preference is persisted and, if playing, speech restarts at the current
// chunk with the new voice. An unresolvable name is logged and ignored.
func (c *Controller) SetVoice(name string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	v, ok := c.selector.Resolve(name)
	if !ok {
		c.mu.Unlock()
		log.Warn("voice not found", "name", name)
		return
	}
	c.voice = v.Name
	if c.store != nil {
		c.store.SaveVoiceName(v.Name)
	}
	if c.status == StatusPlaying {
		c.cancelPendingLocked()
		c.speakLocked(c.index)
	}
	c.mu.Unlock()
}

// State returns a copy of the current playback state.
func (c *Controller) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PlaybackState{
		Status:     c.status,
		ChunkIndex: c.index,
		ChunkCount: len(c.chunks),
		Position:   c.position,
		Total:      c.total,
		Rate:       c.rate,
		Voice:      c.voice,
	}
}

// Chunks returns the loaded chunk sequence.
func (c *Controller) Chunks() []Chunk {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chunks
}

// Voices returns the current sorted voice candidates.
func (c *Controller) Voices() []Voice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selector.Candidates()
}

// Close tears the session down: everything is canceled, a final checkpoint
// is flushed, and the wake resource released. The controller cannot be
// reused afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	hadProgress := c.status == StatusPlaying || c.status == StatusPaused
	c.cancelPendingLocked()
	c.stopTickerLocked()
	c.releaseWakeLocked()
	c.status = StatusStopped
	pos, total := c.position, c.total
	c.mu.Unlock()

	if hadProgress {
		c.notifier.Checkpoint(pos, total)
	}
}

// speakLocked submits the chunk at index to the engine. Completion and error
// handlers capture the live generation so a handler firing after a cancel is
// discarded.
func (c *Controller) speakLocked(index int) {
	if index >= len(c.chunks) {
		c.finishLocked()
		return
	}
	if c.status != StatusPlaying {
		return
	}

	c.index = index
	chunk := c.chunks[index]
	g := c.gen

	req := SpeakRequest{
		Text:    chunk.Text,
		Rate:    c.rate,
		Pitch:   defaultPitch,
		Voice:   c.voice,
		OnEnd:   func() { c.utteranceEnded(g, index) },
		OnError: func(code string) { c.utteranceFailed(g, index, code) },
	}
	if err := c.engine.Speak(req); err != nil {
		// Never stall on a single bad chunk.
		log.Warn("utterance rejected, advancing", "chunk", index, "err", err)
		c.scheduleNextLocked(g, index, c.cfg.FallbackDelay)
	}
}

// utteranceEnded handles normal completion of the utterance for index.
func (c *Controller) utteranceEnded(g uint64, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g != c.gen || c.status != StatusPlaying {
		return
	}
	pause := time.Duration(c.chunks[index].PauseAfter) * time.Millisecond
	delay := time.Duration(float64(pause) / c.rate)
	c.scheduleNextLocked(g, index, delay)
}

// utteranceFailed handles an error event for the utterance at index.
// Deliberate cancellations are expected and ignored; anything else logs and
// auto-advances after a short fixed delay.
func (c *Controller) utteranceFailed(g uint64, index int, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g != c.gen {
		return
	}
	if IsCancellation(code) {
		return
	}
	log.Warn("synthesis error, advancing", "chunk", index, "code", code)
	if c.status != StatusPlaying {
		return
	}
	c.scheduleNextLocked(g, index, c.cfg.FallbackDelay)
}

// scheduleNextLocked arms the next-chunk timer. The timer re-checks the
// generation under the lock so a cancel between arming and firing wins.
func (c *Controller) scheduleNextLocked(g uint64, index int, delay time.Duration) {
	c.nextTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if g != c.gen || c.status != StatusPlaying {
			c.mu.Unlock()
			return
		}
		c.speakLocked(index + 1)
		done, ev := c.status == StatusEnded, c.progressLocked()
		c.mu.Unlock()

		c.notifier.Progress(ev)
		if done {
			c.notifier.Complete()
		}
	})
}

// finishLocked transitions to ended: position pins to the total and the
// completion collaborator is notified by the caller.
func (c *Controller) finishLocked() {
	c.cancelPendingLocked()
	c.stopTickerLocked()
	c.releaseWakeLocked()
	c.status = StatusEnded
	c.position = c.total
	if c.store != nil {
		c.store.SaveCheckpoint(c.position, c.total)
	}
}

// cancelPendingLocked synchronously invalidates the in-flight utterance and
// any pending next-chunk timer. Must run before any state change that
// alters what should be speaking.
func (c *Controller) cancelPendingLocked() {
	c.gen++
	if c.nextTimer != nil {
		c.nextTimer.Stop()
		c.nextTimer = nil
	}
	c.engine.Cancel()
}

// startTickerLocked begins the 1-second position tick.
func (c *Controller) startTickerLocked() {
	if c.tickDone != nil {
		return
	}
	done := make(chan struct{})
	c.tickDone = done
	go c.tickLoop(done)
}

// stopTickerLocked halts the position tick.
func (c *Controller) stopTickerLocked() {
	if c.tickDone != nil {
		close(c.tickDone)
		c.tickDone = nil
	}
}

// tickLoop advances the estimated position once a second while playing and
// drives periodic checkpointing.
func (c *Controller) tickLoop(done chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.status != StatusPlaying {
				c.mu.Unlock()
				continue
			}
			if c.position < c.total {
				c.position++
			}
			pos, total, ev := c.position, c.total, c.progressLocked()
			c.mu.Unlock()

			c.notifier.Progress(ev)
			c.notifier.MaybeCheckpoint(pos, total)
		}
	}
}

func (c *Controller) acquireWakeLocked() {
	if c.wake == nil || c.wakeHeld {
		return
	}
	if err := c.wake.Request(); err != nil {
		// Best effort: no wake lock, playback continues.
		log.Warn("wake lock unavailable", "err", err)
		return
	}
	c.wakeHeld = true
}

func (c *Controller) releaseWakeLocked() {
	if c.wakeHeld {
		c.wake.Release()
		c.wakeHeld = false
	}
}

func (c *Controller) progressLocked() Progress {
	percent := 0.0
	if c.total > 0 {
		percent = float64(c.position) / float64(c.total) * 100
	}
	return Progress{
		Position:   c.position,
		Total:      c.total,
		Percent:    percent,
		Rate:       c.rate,
		IsPlaying:  c.status == StatusPlaying,
		IsPaused:   c.status == StatusPaused,
		ChunkIndex: c.index,
		ChunkCount: len(c.chunks),
	}
}
