// Package engines constructs synthesizer adapters by configured name.
package engines

import (
	"fmt"

	"github.com/dgnsrekt/readaloud/tts"
	"github.com/dgnsrekt/readaloud/tts/engines/espeak"
	"github.com/dgnsrekt/readaloud/tts/engines/mock"
)

// New builds the synthesizer selected by cfg.Engine.
func New(cfg tts.Config) (tts.Synthesizer, error) {
	switch cfg.Engine {
	case "mock":
		return mock.New(cfg.Mock), nil
	case "espeak":
		return espeak.New(cfg.Espeak)
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}
