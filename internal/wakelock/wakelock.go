// Package wakelock keeps the system from sleeping during playback. Best
// effort only: when no inhibitor is available playback proceeds without
// one.
package wakelock

import (
	"errors"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrUnsupported indicates no sleep inhibitor exists on this platform.
var ErrUnsupported = errors.New("no sleep inhibitor available")

// Lock holds a running inhibitor process while requested.
type Lock struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

// New returns an unheld lock.
func New() *Lock {
	return &Lock{}
}

// Request starts the platform inhibitor. Holding twice is a no-op.
func (l *Lock) Request() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd != nil {
		return nil
	}

	bin, args := inhibitor()
	if bin == "" {
		return ErrUnsupported
	}
	if _, err := exec.LookPath(bin); err != nil {
		return ErrUnsupported
	}

	cmd := exec.Command(bin, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	l.cmd = cmd
	log.Debug("wake lock acquired", "inhibitor", bin)
	return nil
}

// Release stops the inhibitor if held.
func (l *Lock) Release() {
	l.mu.Lock()
	cmd := l.cmd
	l.cmd = nil
	l.mu.Unlock()

	if cmd == nil {
		return
	}
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = cmd.Wait()
	log.Debug("wake lock released")
}

// inhibitor returns the platform command that blocks sleep while running.
func inhibitor() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "caffeinate", []string{"-di"}
	case "linux":
		return "systemd-inhibit", []string{
			"--what=idle:sleep",
			"--why=readaloud playback",
			"--mode=block",
			"sleep", "infinity",
		}
	default:
		return "", nil
	}
}
