// Package mock provides an event-driven synthesizer for tests and demos.
// It mimics the external engine contract: one utterance in flight, spoken to
// completion or canceled, with completion delivered asynchronously.
package mock

import (
	"math/rand"
	"sync"
	"time"

	"github.com/dgnsrekt/readaloud/tts"
)

// Engine implements tts.Synthesizer in memory.
type Engine struct {
	mu sync.Mutex

	cfg  tts.MockConfig
	auto bool // complete utterances automatically after SpeakDelay

	voices []tts.Voice
	notify func()

	current   *tts.SpeakRequest
	currentID uint64

	requests []tts.SpeakRequest
	cancels  int
}

// New creates a mock engine that auto-completes utterances after the
// configured delay, simulating real speech at high speed.
func New(cfg tts.MockConfig) *Engine {
	e := &Engine{cfg: cfg, auto: true}
	e.voices = []tts.Voice{
		{Name: "Mock Aria", Language: "en-US", Local: true},
		{Name: "Mock Remote", Language: "en-US", Local: false},
	}
	return e
}

// NewManual creates a mock engine whose utterances only complete when the
// test calls CompleteCurrent or FailCurrent. Voices start empty.
func NewManual() *Engine {
	return &Engine{}
}

// Speak accepts one utterance. A second submission while one is in flight
// returns ErrEngineBusy, matching the single-utterance engine contract.
func (e *Engine) Speak(req tts.SpeakRequest) error {
	e.mu.Lock()
	if e.current != nil {
		e.mu.Unlock()
		return tts.ErrEngineBusy
	}
	e.currentID++
	id := e.currentID
	e.current = &req
	e.requests = append(e.requests, req)
	failureRate := e.cfg.FailureRate
	auto := e.auto
	delay := e.cfg.SpeakDelay
	e.mu.Unlock()

	if failureRate > 0 && rand.Float64() < failureRate {
		go e.finish(id, func(r *tts.SpeakRequest) {
			if r.OnError != nil {
				r.OnError(tts.ErrCodeSynthesis)
			}
		})
		return nil
	}

	if auto {
		time.AfterFunc(delay, func() {
			e.finish(id, func(r *tts.SpeakRequest) {
				if r.OnEnd != nil {
					r.OnEnd()
				}
			})
		})
	}
	return nil
}

// Cancel discards the in-flight utterance. The engine-level cancellation
// event is delivered asynchronously as OnError(canceled).
func (e *Engine) Cancel() {
	e.mu.Lock()
	req := e.current
	e.current = nil
	if req != nil {
		e.cancels++
	}
	e.mu.Unlock()

	if req != nil && req.OnError != nil {
		go req.OnError(tts.ErrCodeCanceled)
	}
}

// Voices returns the configured voice list.
func (e *Engine) Voices() []tts.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]tts.Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// NotifyVoicesChanged registers the availability callback.
func (e *Engine) NotifyVoicesChanged(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notify = fn
}

// SetVoices installs a voice list and, when a callback is registered, fires
// the availability event exactly once.
func (e *Engine) SetVoices(voices []tts.Voice) {
	e.mu.Lock()
	e.voices = voices
	fn := e.notify
	e.notify = nil
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// CompleteCurrent finishes the in-flight utterance as if it spoke to the
// end. Returns false when nothing is in flight.
func (e *Engine) CompleteCurrent() bool {
	return e.takeCurrent(func(r *tts.SpeakRequest) {
		if r.OnEnd != nil {
			r.OnEnd()
		}
	})
}

// FailCurrent fails the in-flight utterance with the given error code.
func (e *Engine) FailCurrent(code string) bool {
	return e.takeCurrent(func(r *tts.SpeakRequest) {
		if r.OnError != nil {
			r.OnError(code)
		}
	})
}

// Requests returns a copy of every utterance submitted so far.
func (e *Engine) Requests() []tts.SpeakRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]tts.SpeakRequest, len(e.requests))
	copy(out, e.requests)
	return out
}

// CancelCount returns how many in-flight utterances were canceled.
func (e *Engine) CancelCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancels
}

// Speaking reports whether an utterance is in flight.
func (e *Engine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// finish delivers an event for utterance id if it is still in flight.
func (e *Engine) finish(id uint64, deliver func(*tts.SpeakRequest)) {
	e.mu.Lock()
	if e.current == nil || e.currentID != id {
		e.mu.Unlock()
		return
	}
	req := e.current
	e.current = nil
	e.mu.Unlock()

	deliver(req)
}

// takeCurrent pops the in-flight utterance and delivers an event for it.
func (e *Engine) takeCurrent(deliver func(*tts.SpeakRequest)) bool {
	e.mu.Lock()
	req := e.current
	e.current = nil
	e.mu.Unlock()

	if req == nil {
		return false
	}
	deliver(req)
	return true
}
