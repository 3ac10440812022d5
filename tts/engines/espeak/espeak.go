// Package espeak drives an espeak-ng compatible binary, one subprocess per
// utterance. The process speaks to completion or is killed; there is no
// mid-utterance control, which is exactly the contract the controller
// expects.
package espeak

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/tts"
)

// Engine implements tts.Synthesizer over an external binary.
type Engine struct {
	mu sync.Mutex

	cfg tts.EspeakConfig

	// gen invalidates the wait goroutine of a killed process so its exit
	// surfaces as a cancellation, not an error.
	gen    uint64
	cmd    *exec.Cmd
	cancel context.CancelFunc

	voices       []tts.Voice
	voicesLoaded bool
	notify       func()
}

// New verifies the binary is present and starts loading the voice list in
// the background. Voice availability is reported through
// NotifyVoicesChanged once the list arrives.
func New(cfg tts.EspeakConfig) (*Engine, error) {
	if _, err := exec.LookPath(cfg.Binary); err != nil {
		return nil, fmt.Errorf("%w: %s not found", tts.ErrEngineNotAvailable, cfg.Binary)
	}
	e := &Engine{cfg: cfg}
	go e.loadVoices()
	return e, nil
}

// Speak spawns one process for the utterance. Completion and errors are
// delivered from the process-wait goroutine.
func (e *Engine) Speak(req tts.SpeakRequest) error {
	e.mu.Lock()
	if e.cmd != nil {
		e.mu.Unlock()
		return tts.ErrEngineBusy
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout)
	cmd := exec.CommandContext(ctx, e.cfg.Binary, e.args(req)...)
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		cancel()
		return fmt.Errorf("start %s: %w", e.cfg.Binary, err)
	}

	e.gen++
	g := e.gen
	e.cmd = cmd
	e.cancel = cancel
	e.mu.Unlock()

	go e.wait(g, cmd, cancel, req)
	return nil
}

// wait blocks on process exit and delivers exactly one event for req.
func (e *Engine) wait(g uint64, cmd *exec.Cmd, cancel context.CancelFunc, req tts.SpeakRequest) {
	err := cmd.Wait()
	cancel()

	e.mu.Lock()
	canceled := g != e.gen
	if !canceled {
		e.cmd = nil
		e.cancel = nil
	}
	e.mu.Unlock()

	switch {
	case canceled:
		if req.OnError != nil {
			req.OnError(tts.ErrCodeCanceled)
		}
	case err != nil:
		log.Debug("synthesis process failed", "err", err)
		if req.OnError != nil {
			req.OnError(classify(err))
		}
	default:
		if req.OnEnd != nil {
			req.OnEnd()
		}
	}
}

// Cancel kills the in-flight process, if any. Synchronous from the caller's
// perspective; the wait goroutine reports the kill as a cancellation.
func (e *Engine) Cancel() {
	e.mu.Lock()
	cmd, cancel := e.cmd, e.cancel
	if cmd != nil {
		e.gen++
		e.cmd = nil
		e.cancel = nil
	}
	e.mu.Unlock()

	if cmd != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		cancel()
	}
}

// Voices returns the loaded voice list, empty until loading completes.
func (e *Engine) Voices() []tts.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]tts.Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// NotifyVoicesChanged registers fn for the deferred availability event. If
// voices already loaded, fn fires immediately; either way at most once.
func (e *Engine) NotifyVoicesChanged(fn func()) {
	e.mu.Lock()
	if e.voicesLoaded {
		e.mu.Unlock()
		fn()
		return
	}
	e.notify = fn
	e.mu.Unlock()
}

// args builds the argv for one utterance. espeak-ng takes speed in words
// per minute and pitch on a 0-99 scale centered at 50.
func (e *Engine) args(req tts.SpeakRequest) []string {
	rate := req.Rate
	if rate <= 0 {
		rate = 1.0
	}
	pitch := req.Pitch
	if pitch <= 0 {
		pitch = 1.0
	}

	args := []string{
		"-s", strconv.Itoa(int(float64(e.cfg.BaseWPM) * rate)),
		"-p", strconv.Itoa(clampPitch(int(50 * pitch))),
	}
	if req.Voice != "" {
		args = append(args, "-v", req.Voice)
	}
	return append(args, "--", req.Text)
}

func clampPitch(p int) int {
	if p < 0 {
		return 0
	}
	if p > 99 {
		return 99
	}
	return p
}

// loadVoices parses `espeak-ng --voices` and fires the availability event.
func (e *Engine) loadVoices() {
	out, err := exec.Command(e.cfg.Binary, "--voices").Output()

	var voices []tts.Voice
	if err != nil {
		log.Warn("listing voices failed, engine default will be used", "err", err)
	} else {
		voices = parseVoices(string(out))
	}

	e.mu.Lock()
	e.voices = voices
	e.voicesLoaded = true
	fn := e.notify
	e.notify = nil
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// parseVoices reads the tabular `--voices` output. Columns are pty,
// language, age/gender, voice name, file, then aliases.
func parseVoices(out string) []tts.Voice {
	lines := strings.Split(out, "\n")
	voices := make([]tts.Voice, 0, len(lines))
	for i, line := range lines {
		if i == 0 { // header
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, tts.Voice{
			Name:     fields[3],
			Language: fields[1],
			Local:    true, // espeak synthesizes offline
		})
	}
	return voices
}

// classify maps a process exit error to a synthesis error code.
func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return tts.ErrCodeSynthesis
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !exitErr.Exited() {
		// Killed by signal: deliberate cancellation or timeout kill.
		return tts.ErrCodeInterrupted
	}
	return tts.ErrCodeSynthesis
}
